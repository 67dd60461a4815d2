// Package storage provides the object storage clients used by the bridge.
//
// Two drivers implement the same small Client interface:
//
//   - aws (default): aws-sdk-go-v2 with a static credentials provider.
//   - minio: minio-go with static V4 credentials.
//
// Both force path-style addressing and set an explicit endpoint so that any
// S3-compatible service (AWS S3, MinIO, LocalStack, Ceph RGW) works. Both use
// an HTTP transport with strict connection and header timeouts.
//
// # Error classification
//
// Classify turns a driver error into a Reply: whether the backend was reached
// at all (FaultDispatch), and if it was, whether it reported a missing
// resource, an access problem, or some other rejection. Callers apply their
// own per-operation policy on top of it.
//
// # Usage
//
//	client, err := storage.NewClient(ctx, cfg, storage.Settings{
//	    Endpoint:  "http://localhost:9000",
//	    AccessKey: "minio",
//	    SecretKey: "minio12345",
//	    Region:    "us-east-1",
//	})
//	err = client.HeadObject(ctx, "assets", "hello.txt")
//	if storage.Classify(err).Fault == storage.FaultNotFound { ... }
package storage
