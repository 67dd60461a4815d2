package storage

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/minio/minio-go/v7"
)

// Fault is the coarse outcome of a storage call.
type Fault int

const (
	FaultNone Fault = iota
	// FaultNotFound: the backend reported a missing object or bucket.
	FaultNotFound
	// FaultAccessDenied: the backend refused the credentials or policy.
	FaultAccessDenied
	// FaultDispatch: no response was received from the backend.
	FaultDispatch
	// FaultRejected: the backend answered with any other error.
	FaultRejected
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultNotFound:
		return "not_found"
	case FaultAccessDenied:
		return "access_denied"
	case FaultDispatch:
		return "dispatch"
	default:
		return "rejected"
	}
}

// Reply describes how the backend answered a failed call.
type Reply struct {
	Fault Fault
	// Code is the backend error code, when the backend sent one.
	Code string
	// StatusCode is the HTTP status, when a response was received.
	StatusCode int
}

var notFoundMarkers = []string{"NotFound", "NoSuchKey", "404"}

// Classify inspects an error returned by either driver.
func Classify(err error) Reply {
	if err == nil {
		return Reply{Fault: FaultNone}
	}

	code, status, replied := backendReply(err)
	reply := Reply{Code: code, StatusCode: status}

	switch {
	case isSendFailure(err), !replied && isDispatch(err):
		reply.Fault = FaultDispatch
	case isNotFound(code, status, err):
		reply.Fault = FaultNotFound
	case isAccessDenied(code, status):
		reply.Fault = FaultAccessDenied
	default:
		reply.Fault = FaultRejected
	}
	return reply
}

// backendReply extracts the error code and HTTP status the backend answered with.
func backendReply(err error) (code string, status int, replied bool) {
	var mErr minio.ErrorResponse
	if errors.As(err, &mErr) && (mErr.StatusCode != 0 || mErr.Code != "") {
		return mErr.Code, mErr.StatusCode, true
	}

	// The aws SDK also wraps send failures in a ResponseError, with status 0.
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		if st := responseStatus(respErr); st != 0 {
			status = st
			replied = true
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
		replied = true
	}
	return code, status, replied
}

func responseStatus(e *awshttp.ResponseError) int {
	if e.ResponseError == nil || e.Response == nil || e.Response.Response == nil {
		return 0
	}
	return e.HTTPStatusCode()
}

// isSendFailure reports a request that never got a response, whatever wraps it.
func isSendFailure(err error) bool {
	var sendErr *smithyhttp.RequestSendError
	return errors.As(err, &sendErr)
}

func isDispatch(err error) bool {
	if isSendFailure(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isNotFound(code string, status int, err error) bool {
	switch code {
	case "NotFound", "NoSuchKey", "NoSuchBucket", "404":
		return true
	}
	if status == http.StatusNotFound {
		return true
	}
	msg := err.Error()
	for _, marker := range notFoundMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func isAccessDenied(code string, status int) bool {
	// HEAD responses carry no body, so S3 reports a bare 403 "Forbidden".
	return code == "AccessDenied" || code == "Forbidden" || status == http.StatusForbidden
}
