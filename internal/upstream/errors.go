// Package upstream defines the error taxonomy shared by the registry
// clients: an expected "not found" and everything else.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carlmjohnson/requests"
	"github.com/charmbracelet/log"
)

// ErrNotFound indicates the registry has no record for the identifier
// (HTTP 404 or an empty result). It is an expected outcome.
var ErrNotFound = errors.New("not found")

// APIError describes an upstream failure: timeout, network error, non-2xx
// status other than 404, or a malformed response.
type APIError struct {
	Service    string // crossref, arxiv, s2, orcid
	StatusCode int    // 0 when no response was received
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s API error: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("%s API error: %s", e.Service, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NotFound wraps ErrNotFound with service and identifier context.
func NotFound(service, id string) error {
	return fmt.Errorf("%s: %s %w", service, id, ErrNotFound)
}

// IsNotFound returns true if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsTimeout reports whether the failure was a request deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// Classify turns a transport or status error from a requests builder into
// ErrNotFound or an *APIError for service.
func Classify(service, id string, err error) error {
	if err == nil {
		return nil
	}
	if requests.HasStatusErr(err, http.StatusNotFound) {
		return NotFound(service, id)
	}
	var se *requests.ResponseError
	if errors.As(err, &se) {
		return &APIError{
			Service:    service,
			StatusCode: se.StatusCode,
			Message:    http.StatusText(se.StatusCode),
			Err:        err,
		}
	}
	msg := "request failed"
	if IsTimeout(err) {
		msg = "request timed out"
	}
	return &APIError{Service: service, Message: msg, Err: err}
}

// Invalid builds an *APIError for a response that could not be decoded.
func Invalid(service string, err error) error {
	return &APIError{Service: service, Message: "invalid response", Err: err}
}

// LogFailure logs err at the severity its class deserves: not-found at
// notFoundLevel, everything else at error.
func LogFailure(logger *log.Logger, notFoundLevel log.Level, err error, msg string, keyvals ...interface{}) {
	keyvals = append(keyvals, "err", err)
	if IsNotFound(err) {
		logger.Log(notFoundLevel, msg, keyvals...)
		return
	}
	logger.Error(msg, keyvals...)
}
