// Package derrors defines coded domain errors shared across the registration
// platform. Services return these; the HTTP layer translates them into JSON
// envelopes via pkg/platform/httputil.
package derrors

import (
	"errors"
	"net/http"
	"strings"
)

// Code identifies a class of domain failure. Codes are part of the API
// contract: clients branch on them, so renaming one is a breaking change.
type Code string

const (
	CodeBadRequest            Code = "bad_request"
	CodeValidation            Code = "validation_error"
	CodeOutOfOrderStep        Code = "out_of_order_step"
	CodeEligibilityViolation  Code = "eligibility_violation"
	CodeInvalidCode           Code = "invalid_code"
	CodeNotFound              Code = "not_found"
	CodeInconsistentHierarchy Code = "inconsistent_hierarchy"
	CodeConflict              Code = "conflict"
	CodeUnauthorized          Code = "unauthorized"
	CodeForbidden             Code = "forbidden"
	CodeRateLimited           Code = "rate_limited"
	CodeTimeout               Code = "timeout"
	CodeInternal              Code = "internal_error"
)

// Error is a domain error with a stable code. MissingFields is populated only
// for validation errors so callers can re-prompt the exact fields.
type Error struct {
	Code          Code
	Message       string
	MissingFields []string
}

func (e *Error) Error() string {
	if len(e.MissingFields) > 0 {
		return e.Message + ": " + strings.Join(e.MissingFields, ", ")
	}
	return e.Message
}

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewValidation creates a validation error naming the missing or malformed fields.
func NewValidation(message string, missingFields ...string) *Error {
	return &Error{Code: CodeValidation, Message: message, MissingFields: missingFields}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// unclassified errors so nothing leaks internals to clients.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeOutOfOrderStep, CodeConflict:
		return http.StatusConflict
	case CodeEligibilityViolation:
		return http.StatusUnprocessableEntity
	case CodeInvalidCode, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeInconsistentHierarchy:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
