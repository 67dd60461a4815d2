package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioClient struct {
	api    *minio.Client
	region string
}

func newMinioClient(cfg Config, s Settings) (*minioClient, error) {
	// Minio expects the endpoint without scheme and a separate TLS flag.
	u, err := url.Parse(s.Endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", s.Endpoint)
	}

	api, err := minio.New(u.Host, &minio.Options{
		Creds:        credentials.NewStaticV4(s.AccessKey, s.SecretKey, s.SessionToken),
		Secure:       u.Scheme == "https",
		Region:       s.Region,
		BucketLookup: minio.BucketLookupPath,
		Transport:    newTransport(cfg.timeout()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &minioClient{api: api, region: s.Region}, nil
}

func (c *minioClient) HeadObject(ctx context.Context, bucket, key string) error {
	_, err := c.api.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	return err
}

func (c *minioClient) CreateBucket(ctx context.Context, bucket string) error {
	return c.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.region})
}

func (c *minioClient) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	info, err := c.api.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return trimETag(info.ETag), nil
}

func (c *minioClient) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	// GetObject is lazy; Stat issues the initial request so that request
	// failures are told apart from body read failures.
	if _, err := obj.Stat(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBodyCollect, err)
	}
	return data, nil
}
