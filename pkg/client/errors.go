package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrInvalidPath is returned when a request path does not start with "/".
	ErrInvalidPath = errors.New("path must start with /")

	// ErrTransport wraps network level failures (no HTTP response received).
	ErrTransport = errors.New("transport error")
)

// Kind sentinels, matched by errors.Is against an *ESIError.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrErrorLimited        = errors.New("error limited")
	ErrUnprocessableEntity = errors.New("unprocessable entity")
	ErrInternalServerError = errors.New("internal server error")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrGatewayTimeout      = errors.New("gateway timeout")
	ErrUpstreamServerError = errors.New("upstream server error")
	ErrGenericClientError  = errors.New("client error")
)

// ErrorKind identifies the kind of a failed ESI response.
type ErrorKind string

const (
	KindBadRequest          ErrorKind = "bad_request"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindForbidden           ErrorKind = "forbidden"
	KindNotFound            ErrorKind = "not_found"
	KindErrorLimited        ErrorKind = "error_limited"
	KindUnprocessableEntity ErrorKind = "unprocessable_entity"
	KindInternalServerError ErrorKind = "internal_server_error"
	KindServiceUnavailable  ErrorKind = "service_unavailable"
	KindGatewayTimeout      ErrorKind = "gateway_timeout"
	KindUpstreamServerError ErrorKind = "upstream_server_error"
	KindGenericClientError  ErrorKind = "generic_client_error"
)

// ErrorClass represents a coarse classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents errors caused by the request itself.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 420 error limited responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"
)

var statusKinds = map[int]ErrorKind{
	400: KindBadRequest,
	401: KindUnauthorized,
	403: KindForbidden,
	404: KindNotFound,
	420: KindErrorLimited,
	422: KindUnprocessableEntity,
	500: KindInternalServerError,
	503: KindServiceUnavailable,
	504: KindGatewayTimeout,
	520: KindUpstreamServerError,
}

var kindSentinels = map[ErrorKind]error{
	KindBadRequest:          ErrBadRequest,
	KindUnauthorized:        ErrUnauthorized,
	KindForbidden:           ErrForbidden,
	KindNotFound:            ErrNotFound,
	KindErrorLimited:        ErrErrorLimited,
	KindUnprocessableEntity: ErrUnprocessableEntity,
	KindInternalServerError: ErrInternalServerError,
	KindServiceUnavailable:  ErrServiceUnavailable,
	KindGatewayTimeout:      ErrGatewayTimeout,
	KindUpstreamServerError: ErrUpstreamServerError,
	KindGenericClientError:  ErrGenericClientError,
}

// KindForStatus maps a non-2xx status code to its ErrorKind.
// Codes outside the fixed table map to KindGenericClientError.
func KindForStatus(status int) ErrorKind {
	if kind, ok := statusKinds[status]; ok {
		return kind
	}
	return KindGenericClientError
}

// Retriable reports whether a request failing with this kind is re-attempted.
func (k ErrorKind) Retriable() bool {
	switch k {
	case KindErrorLimited,
		KindInternalServerError,
		KindServiceUnavailable,
		KindGatewayTimeout,
		KindUpstreamServerError:
		return true
	default:
		return false
	}
}

// Class returns the coarse error class used for metric labels.
func (k ErrorKind) Class() ErrorClass {
	switch k {
	case KindErrorLimited:
		return ErrorClassRateLimit
	case KindInternalServerError, KindServiceUnavailable, KindGatewayTimeout, KindUpstreamServerError:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// ESIError represents a non-2xx ESI response.
type ESIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Response   *RawResponse
}

// NewESIError builds the error for a failed response. The message is the
// "error" field of a JSON body, or the raw body text when that is missing.
func NewESIError(resp *RawResponse) *ESIError {
	return &ESIError{
		Kind:       KindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.Body),
		Response:   resp,
	}
}

func errorMessage(body []byte) string {
	var payload struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil {
		return *payload.Error
	}
	return string(body)
}

// Error implements the error interface.
func (e *ESIError) Error() string {
	return fmt.Sprintf("ESI %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

// Is matches the sentinel of the error's kind.
func (e *ESIError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// Retriable reports whether the error's kind is retried.
func (e *ESIError) Retriable() bool {
	return e.Kind.Retriable()
}

// KindOf returns the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var esiErr *ESIError
	if errors.As(err, &esiErr) {
		return esiErr.Kind, true
	}
	return "", false
}

// isRetriable reports whether err should trigger another attempt.
func isRetriable(err error) bool {
	var esiErr *ESIError
	return errors.As(err, &esiErr) && esiErr.Retriable()
}
