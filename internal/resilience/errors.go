// Package resilience classifies backend failures into the error taxonomy the
// client reports to users: validation, unreachable, timed out, backend error.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sells-group/fraud-cli/internal/model"
)

// FieldError describes one rejected form field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned before any request is sent when user input is
// out of range.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Add records a rejected field.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// ErrOrNil returns e when at least one field was rejected.
func (e *ValidationError) ErrOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// UnreachableError means no connection to the backend could be made.
type UnreachableError struct {
	Endpoint string
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("backend unreachable (%s): %v", e.Endpoint, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// TimedOutError means the call exceeded its timeout budget.
type TimedOutError struct {
	Endpoint string
	Budget   time.Duration
	Err      error
}

func (e *TimedOutError) Error() string {
	return fmt.Sprintf("backend timed out after %s (%s)", e.Budget, e.Endpoint)
}

func (e *TimedOutError) Unwrap() error { return e.Err }

// BackendError carries a non-200 response, or a 200 whose body could not be
// interpreted, verbatim for diagnosis.
type BackendError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Reason     string
}

func (e *BackendError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("backend error %d (%s): %s: %s", e.StatusCode, e.Endpoint, e.Reason, e.Body)
	}
	return fmt.Sprintf("backend error %d (%s): %s", e.StatusCode, e.Endpoint, e.Body)
}

// NewStatusError builds a BackendError for a non-200 response.
func NewStatusError(endpoint string, statusCode int, body []byte) *BackendError {
	return &BackendError{Endpoint: endpoint, StatusCode: statusCode, Body: string(body)}
}

// NewMalformedError builds a BackendError for a 200 response whose body does
// not satisfy the response contract.
func NewMalformedError(endpoint string, body []byte, reason string) *BackendError {
	return &BackendError{Endpoint: endpoint, StatusCode: http.StatusOK, Body: string(body), Reason: reason}
}

// IsTimeout reports whether a transport error means the wait budget ran out
// rather than the connection failing.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"i/o timeout",
		"tls handshake timeout",
		"client.timeout exceeded",
		"deadline exceeded",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// ClassifyTransport turns an error from the HTTP round trip into
// TimedOutError or UnreachableError. Errors already classified pass through.
func ClassifyTransport(endpoint string, budget time.Duration, err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	if IsTimeout(err) {
		return &TimedOutError{Endpoint: endpoint, Budget: budget, Err: err}
	}
	return &UnreachableError{Endpoint: endpoint, Err: err}
}

// IsClassified reports whether err already belongs to the taxonomy.
func IsClassified(err error) bool {
	var (
		ve *ValidationError
		ue *UnreachableError
		te *TimedOutError
		be *BackendError
	)
	return errors.As(err, &ve) || errors.As(err, &ue) || errors.As(err, &te) || errors.As(err, &be)
}

// IsUnreachable reports whether err is an UnreachableError.
func IsUnreachable(err error) bool {
	var ue *UnreachableError
	return errors.As(err, &ue)
}

// IsTimedOut reports whether err is a TimedOutError.
func IsTimedOut(err error) bool {
	var te *TimedOutError
	return errors.As(err, &te)
}

// AsBackendError extracts a BackendError from err's chain.
func AsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// AsValidationError extracts a ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsColdStartStatus returns true for gateway statuses the hosting proxy
// answers with while a suspended backend is still booting.
func IsColdStartStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// StateOf maps the outcome of a fetch to its terminal FetchState.
func StateOf(err error) model.FetchState {
	switch {
	case err == nil:
		return model.FetchSucceeded
	case IsTimedOut(err):
		return model.FetchTimedOut
	case IsUnreachable(err):
		return model.FetchUnreachable
	default:
		return model.FetchBackendError
	}
}

// Kind is a short machine-readable name for err's class.
func Kind(err error) string {
	if _, ok := AsValidationError(err); ok {
		return "validation"
	}
	switch StateOf(err) {
	case model.FetchSucceeded:
		return ""
	case model.FetchTimedOut:
		return "timed_out"
	case model.FetchUnreachable:
		return "unreachable"
	default:
		return "backend_error"
	}
}
