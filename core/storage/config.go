package storage

import "time"

// Supported client drivers.
const (
	DriverAWS   = "aws"
	DriverMinio = "minio"
)

// Config holds configuration shared by every storage client built by the process.
// Endpoint and credentials are not part of it: they are resolved per call.
type Config struct {
	// Driver selects the client implementation (aws, minio).
	Driver string `mapstructure:"driver" default:"aws"`
	// TimeoutSeconds bounds connection setup, TLS handshake and time to first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is the number of SDK-level retries for the aws driver.
	// The minio driver keeps its built-in retry policy.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
}

func (c Config) timeout() time.Duration {
	timeout := c.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return time.Duration(timeout) * time.Second
}

func (c Config) maxAttempts() int {
	if c.MaxRetries < 0 {
		return 1
	}
	return c.MaxRetries + 1
}

// Settings are the resolved per-client connection values.
type Settings struct {
	// Endpoint is an absolute URL (scheme included).
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
}
