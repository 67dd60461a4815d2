package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Client defines the object operations the bridge exposes.
// Implementations are safe for concurrent use.
type Client interface {
	// HeadObject checks that an object exists. It returns nil when it does.
	HeadObject(ctx context.Context, bucket, key string) error
	// CreateBucket creates a bucket in the client's region.
	CreateBucket(ctx context.Context, bucket string) error
	// PutObject uploads data and returns the backend ETag without quotes.
	// An empty contentType leaves the header unset.
	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
	// GetObject downloads the whole object.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Factory builds a Client. NewClient is the production implementation.
type Factory func(ctx context.Context, cfg Config, s Settings) (Client, error)

// ErrBodyCollect marks a failure while reading a response body after the
// backend already accepted the request.
var ErrBodyCollect = errors.New("collect response body")

// NewClient creates a storage client for the configured driver.
// Addressing is always path-style so that any S3-compatible endpoint works.
func NewClient(ctx context.Context, cfg Config, s Settings) (Client, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverAWS:
		return newAWSClient(ctx, cfg, s)
	case DriverMinio:
		return newMinioClient(cfg, s)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func trimETag(etag string) string {
	return strings.Trim(etag, `"`)
}
