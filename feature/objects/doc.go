// Package objects implements the four object operations the bridge exposes.
//
// Every call follows the same path: resolve the effective credentials, fetch
// or lazily build the storage client for them from the shared cache, drive one
// request through the execution bridge, then map the backend reply onto a
// classified outcome.
//
// # Operations
//
//   - ObjectExists: HEAD an object. A missing object is false, not an error.
//   - CreateBucket: create a bucket. An existing bucket is reported as a failure.
//   - PutObject: upload a payload and return its ETag without quotes.
//   - GetObject: download a payload in full.
//
// # HTTP
//
// The Handler exposes the operations over fiber:
//
//	PUT /buckets/:bucket
//	GET /exists/:bucket/*
//	PUT /objects/:bucket/*
//	GET /objects/:bucket/*
//
// Per-request overrides are read from the X-S3-* headers.
package objects
