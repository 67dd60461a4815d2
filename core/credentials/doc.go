// Package credentials resolves the effective endpoint and credentials for one call.
//
// Every operation accepts optional per-call overrides. Whatever is not
// overridden is read from the process environment:
//
//   - S3_ENDPOINT_URL: endpoint (required)
//   - AWS_ACCESS_KEY_ID: access key (required)
//   - AWS_SECRET_ACCESS_KEY: secret key (required)
//   - AWS_SESSION_TOKEN: session token (optional)
//
// The region is never read from the environment; it defaults to us-east-1.
// A missing required value fails fast with a failure.KindConfig error, before
// any client is built or request is sent.
//
// # Usage
//
//	r := credentials.NewResolver(credentials.NewEnvSource())
//	resolved, err := r.Resolve(credentials.Overrides{Region: credentials.String("eu-west-1")})
package credentials
