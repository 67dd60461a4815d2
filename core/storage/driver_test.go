package storage_test

import (
	"context"
	"crypto/md5"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"s3bridge/core/storage"
	"s3bridge/core/storage/s3test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var drivers = []string{storage.DriverAWS, storage.DriverMinio}

func newTestClient(t *testing.T, driver, endpoint string) storage.Client {
	t.Helper()
	client, err := storage.NewClient(context.Background(),
		storage.Config{Driver: driver, TimeoutSeconds: 5, MaxRetries: 0},
		storage.Settings{
			Endpoint:  endpoint,
			AccessKey: "minio",
			SecretKey: "minio12345",
			Region:    "us-east-1",
		})
	require.NoError(t, err)
	return client
}

func TestDriver_RoundTrip(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			srv := s3test.NewServer()
			defer srv.Close()

			ctx := context.Background()
			client := newTestClient(t, driver, srv.Endpoint())

			require.NoError(t, client.CreateBucket(ctx, "test-bucket"))
			assert.True(t, srv.HasBucket("test-bucket"))

			etag, err := client.PutObject(ctx, "test-bucket", "dir/hello.txt", []byte("Hi"), "text/plain")
			require.NoError(t, err)
			sum := md5.Sum([]byte("Hi"))
			assert.Equal(t, hex.EncodeToString(sum[:]), etag)

			stored, ok := srv.Object("test-bucket", "dir/hello.txt")
			require.True(t, ok)
			assert.Equal(t, []byte("Hi"), stored.Data)
			assert.Equal(t, "text/plain", stored.ContentType)

			assert.NoError(t, client.HeadObject(ctx, "test-bucket", "dir/hello.txt"))

			data, err := client.GetObject(ctx, "test-bucket", "dir/hello.txt")
			require.NoError(t, err)
			assert.Equal(t, []byte("Hi"), data)
		})
	}
}

func TestDriver_NotFound(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			srv := s3test.NewServer()
			defer srv.Close()
			srv.CreateBucket("test-bucket")

			ctx := context.Background()
			client := newTestClient(t, driver, srv.Endpoint())

			err := client.HeadObject(ctx, "test-bucket", "nope.txt")
			require.Error(t, err)
			assert.Equal(t, storage.FaultNotFound, storage.Classify(err).Fault)

			_, err = client.GetObject(ctx, "test-bucket", "nope.txt")
			require.Error(t, err)
			assert.Equal(t, storage.FaultNotFound, storage.Classify(err).Fault)
		})
	}
}

func TestDriver_BucketAlreadyExists(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			srv := s3test.NewServer()
			defer srv.Close()
			srv.CreateBucket("test-bucket")

			client := newTestClient(t, driver, srv.Endpoint())

			err := client.CreateBucket(context.Background(), "test-bucket")
			require.Error(t, err)
			reply := storage.Classify(err)
			assert.Equal(t, storage.FaultRejected, reply.Fault)
			assert.Equal(t, "BucketAlreadyExists", reply.Code)
			assert.Equal(t, http.StatusConflict, reply.StatusCode)
		})
	}
}

func TestDriver_AccessDenied(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			srv := s3test.NewServer()
			defer srv.Close()
			srv.PutObject("test-bucket", "hello.txt", []byte("Hi"), "")
			srv.DenyAccess(true)

			client := newTestClient(t, driver, srv.Endpoint())

			err := client.HeadObject(context.Background(), "test-bucket", "hello.txt")
			require.Error(t, err)
			assert.Equal(t, storage.FaultAccessDenied, storage.Classify(err).Fault)
		})
	}
}

func TestDriver_AWSDispatchFailure(t *testing.T) {
	srv := s3test.NewServer()
	endpoint := srv.Endpoint()
	srv.Close()

	client := newTestClient(t, storage.DriverAWS, endpoint)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"HeadObject", func() error { return client.HeadObject(ctx, "test-bucket", "hello.txt") }},
		{"CreateBucket", func() error { return client.CreateBucket(ctx, "test-bucket") }},
		{"PutObject", func() error {
			_, err := client.PutObject(ctx, "test-bucket", "hello.txt", []byte("Hi"), "text/plain")
			return err
		}},
		{"GetObject", func() error {
			_, err := client.GetObject(ctx, "test-bucket", "hello.txt")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			reply := storage.Classify(err)
			assert.Equal(t, storage.FaultDispatch, reply.Fault, "classified %s: %v", reply.Fault, err)
			assert.Zero(t, reply.StatusCode)
		})
	}
}

func TestDriver_AWSCABundle(t *testing.T) {
	srv := s3test.NewServer()
	defer srv.Close()

	// Any valid PEM bundle will do; the fake endpoint itself is plain HTTP.
	tlsSrv := httptest.NewTLSServer(http.NotFoundHandler())
	cert := tlsSrv.Certificate()
	tlsSrv.Close()

	bundle := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(bundle, pemEncode(cert), 0o600))
	t.Setenv("AWS_CA_BUNDLE", bundle)

	client := newTestClient(t, storage.DriverAWS, srv.Endpoint())

	ctx := context.Background()
	require.NoError(t, client.CreateBucket(ctx, "test-bucket"))
	_, err := client.PutObject(ctx, "test-bucket", "hello.txt", []byte("Hi"), "")
	require.NoError(t, err)
	data, err := client.GetObject(ctx, "test-bucket", "hello.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("Hi"), data)
}

func pemEncode(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}
