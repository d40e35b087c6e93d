package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the store or driver error as its cause.
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotFound                        = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists                   = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput                    = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized                    = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState                    = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock               = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrItemNotFound                    = NewDomainError("ITEM_NOT_FOUND", "Bill item not found")
	ErrAlreadyReturned                 = NewDomainError("ALREADY_RETURNED", "Bill item has already been returned")
	ErrInsufficientStockForReplacement = NewDomainError("INSUFFICIENT_STOCK_FOR_REPLACEMENT", "Insufficient stock for the replacement item")
	ErrDuplicateBillNumber             = NewDomainError("DUPLICATE_BILL_NUMBER", "Bill number already exists")
	ErrTransactionFailed               = NewDomainError("TRANSACTION_FAILED", "Transaction failed")
)

// NewTransactionFailure wraps an unexpected store error. The message stays opaque.
func NewTransactionFailure(cause error) *DomainError {
	return WrapDomainError(ErrTransactionFailed.Code, ErrTransactionFailed.Message, cause)
}
