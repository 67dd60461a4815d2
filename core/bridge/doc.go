// Package bridge runs blocking callers' storage operations on worker goroutines.
//
// A Bridge owns one base context, created lazily on the first Run and shared
// by every operation until Close. Run blocks until the operation finishes and
// returns its result unchanged. Panics inside an operation are recovered and
// reported as backend failures.
//
// Nested Run calls from inside an operation are not supported.
package bridge
