// Package apierr defines the error taxonomy for the API boundary and the
// structured JSON responses every failure path ends in.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

type Code string

const (
	CodeInvalidInput    Code = "invalid_input"
	CodeUnauthorized    Code = "unauthorized"
	CodeForbidden       Code = "forbidden"
	CodeNotFound        Code = "not_found"
	CodeRateLimited     Code = "rate_limited"
	CodeUpstreamTimeout Code = "upstream_timeout"
	CodeInternal        Code = "internal"
)

// Error carries a stable code, a caller-facing message, and the wrapped
// cause (logged server-side, never surfaced for internal errors).
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func statusOf(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v with the given status. Encoding failures after the
// header is written can only be logged.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response body")
	}
}

// Write maps err to its status code and writes a JSON error envelope.
// Unclassified errors become a generic 500; the detail stays in the log.
func Write(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Wrap(CodeInternal, "An unexpected error occurred", err)
	}

	status := statusOf(apiErr.Code)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Error("request failed")
	}

	msg := apiErr.Message
	if apiErr.Code == CodeInternal && msg == "" {
		msg = "An unexpected error occurred"
	}
	WriteJSON(w, status, map[string]string{"error": msg})
}
