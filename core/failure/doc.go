// Package failure defines the error taxonomy shared by every object operation.
//
// Each failed call produces a *Error carrying a Kind, so callers and tests can
// branch on the kind of failure instead of matching message text. Strings are
// only produced at the outer boundary (CLI log line, HTTP response body).
//
// # Kinds
//
//   - KindConfig: a required endpoint or credential is missing. Raised before any network call.
//   - KindNotFound: the object or bucket does not exist. The existence check turns this into false.
//   - KindAccessDenied: the backend refused the credentials or policy.
//   - KindDispatch: no response was received (network, DNS, connection refused, timeout).
//   - KindBackend: the backend answered but rejected the operation, or anything unexpected.
//
// # Usage
//
//	if failure.IsKind(err, failure.KindDispatch) {
//	    // transport problem
//	}
package failure
