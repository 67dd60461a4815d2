package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation.
type Kind int

const (
	// KindBackend is the zero value so that an unclassified failure is never
	// mistaken for a softer kind.
	KindBackend Kind = iota
	KindConfig
	KindNotFound
	KindAccessDenied
	KindDispatch
)

// String returns the name used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindDispatch:
		return "dispatch"
	default:
		return "backend"
	}
}

// Error is a classified operation failure.
type Error struct {
	// Kind is the failure class.
	Kind Kind
	// Op is the storage operation that failed (e.g. "HeadObject").
	Op string
	// Message is the human readable summary shown to the host.
	Message string
	// Bucket and Key identify the resource, when known.
	Bucket string
	Key    string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New creates a failure without an underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap creates a failure around cause.
func Wrap(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}

// On attaches the resource the failure refers to and returns e.
func (e *Error) On(bucket, key string) *Error {
	e.Bucket = bucket
	e.Key = key
	return e
}

// Resource renders the bucket/key pair as an s3:// URI.
func (e *Error) Resource() string {
	switch {
	case e.Bucket == "":
		return ""
	case e.Key == "":
		return "s3://" + e.Bucket
	default:
		return "s3://" + e.Bucket + "/" + e.Key
	}
}

// KindOf extracts the failure kind from err.
// The boolean is false when err carries no classification.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return KindBackend, false
}

// IsKind reports whether err is a failure of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
