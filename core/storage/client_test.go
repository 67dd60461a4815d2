package storage_test

import (
	"context"
	"testing"

	"s3bridge/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	settings := storage.Settings{
		Endpoint:  "http://localhost:9000",
		AccessKey: "testkey",
		SecretKey: "testsecret",
		Region:    "us-east-1",
	}

	t.Run("DefaultDriver", func(t *testing.T) {
		client, err := storage.NewClient(context.Background(), storage.Config{}, settings)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("AWS", func(t *testing.T) {
		cfg := storage.Config{Driver: storage.DriverAWS, TimeoutSeconds: 5, MaxRetries: 1}
		client, err := storage.NewClient(context.Background(), cfg, settings)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("MinioWithHTTPS", func(t *testing.T) {
		s := settings
		s.Endpoint = "https://s3.amazonaws.com"
		s.SessionToken = "token"
		client, err := storage.NewClient(context.Background(), storage.Config{Driver: storage.DriverMinio}, s)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("MinioInvalidEndpoint", func(t *testing.T) {
		s := settings
		s.Endpoint = "localhost"
		client, err := storage.NewClient(context.Background(), storage.Config{Driver: storage.DriverMinio}, s)
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		client, err := storage.NewClient(context.Background(), storage.Config{Driver: "gcs"}, settings)
		assert.EqualError(t, err, `unknown storage driver "gcs"`)
		assert.Nil(t, client)
	})
}
