// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) for every route except the ones listed as skipped.
//   - rayid: a unique request id (RayID) for every incoming request, stored in
//     the context locals and echoed in the X-Ray-ID response header.
//
// RayID must be registered first so that every later log line can carry it.
package middleware
