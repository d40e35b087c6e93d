package dto

import (
	"net/http"
	"strings"
)

// Codes raised by the HTTP layer itself. Domain codes pass through unchanged.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Missing resources
	"NOT_FOUND":      http.StatusNotFound,
	"ITEM_NOT_FOUND": http.StatusNotFound,

	// Conflicts with stored state
	"ALREADY_RETURNED":      http.StatusConflict,
	"DUPLICATE_BILL_NUMBER": http.StatusConflict,
	"ALREADY_EXISTS":        http.StatusConflict,

	// Business rules
	"INSUFFICIENT_STOCK":                 http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK_FOR_REPLACEMENT": http.StatusUnprocessableEntity,
	"INVALID_STATE":                      http.StatusUnprocessableEntity,

	// Input
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	"VALIDATION":        http.StatusBadRequest,
	"VALIDATION_ERRORS": http.StatusBadRequest,
	"INVALID_INPUT":     http.StatusBadRequest,

	// Auth
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeUnauthorized:   http.StatusUnauthorized,

	// Transport
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	// Faults
	"TRANSACTION_FAILED": http.StatusInternalServerError,
	ErrCodeInternal:      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes without an entry fall back on their prefix or suffix, then 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
