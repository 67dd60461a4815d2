package credentials

import (
	"s3bridge/core/failure"
)

// Environment variables consulted when an override is absent.
const (
	EnvEndpoint     = "S3_ENDPOINT_URL"
	EnvAccessKey    = "AWS_ACCESS_KEY_ID"
	EnvSecretKey    = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken = "AWS_SESSION_TOKEN"
)

// DefaultRegion is used when no region override is given.
const DefaultRegion = "us-east-1"

// Overrides holds optional per-call values. A nil field means "not supplied".
type Overrides struct {
	Endpoint     *string
	AccessKey    *string
	SecretKey    *string
	SessionToken *string
	Region       *string
}

// String returns a pointer to s, for building Overrides.
func String(s string) *string {
	return &s
}

// Resolved is the effective configuration for one call.
type Resolved struct {
	// Endpoint is the normalized absolute endpoint URL.
	Endpoint  string
	AccessKey string
	SecretKey string
	// SessionToken is empty when no token is configured.
	SessionToken string
	Region       string
}

// Resolver merges overrides with the environment.
type Resolver struct {
	source Source
}

// NewResolver creates a resolver reading fallbacks from source.
func NewResolver(source Source) *Resolver {
	if source == nil {
		source = NewEnvSource()
	}
	return &Resolver{source: source}
}

// Resolve computes the effective configuration.
// It fails with a failure.KindConfig error naming the first missing required value.
func (r *Resolver) Resolve(o Overrides) (Resolved, error) {
	endpoint, err := r.required(o.Endpoint, EnvEndpoint)
	if err != nil {
		return Resolved{}, err
	}
	accessKey, err := r.required(o.AccessKey, EnvAccessKey)
	if err != nil {
		return Resolved{}, err
	}
	secretKey, err := r.required(o.SecretKey, EnvSecretKey)
	if err != nil {
		return Resolved{}, err
	}

	var token string
	if o.SessionToken != nil {
		token = *o.SessionToken
	} else if v, ok := r.source.Lookup(EnvSessionToken); ok {
		token = v
	}

	region := DefaultRegion
	if o.Region != nil {
		region = *o.Region
	}

	return Resolved{
		Endpoint:     NormalizeEndpoint(endpoint),
		AccessKey:    accessKey,
		SecretKey:    secretKey,
		SessionToken: token,
		Region:       region,
	}, nil
}

func (r *Resolver) required(override *string, env string) (string, error) {
	if override != nil {
		return *override, nil
	}
	if v, ok := r.source.Lookup(env); ok {
		return v, nil
	}
	return "", failure.New(failure.KindConfig, "", env+" not set")
}
