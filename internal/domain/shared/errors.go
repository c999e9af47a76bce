package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies with a custom message
// still satisfy errors.Is against the sentinels below.
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

// NewNotFoundError returns a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError("NOT_FOUND", resource+" not found")
}

// NewInvalidInputError returns an INVALID_INPUT error with a specific message
func NewInvalidInputError(message string) *DomainError {
	return NewDomainError("INVALID_INPUT", message)
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists          = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput           = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized           = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden              = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState           = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock      = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientPayment    = NewDomainError("INSUFFICIENT_PAYMENT", "Payment does not cover the sale total")
	ErrReturnQuantityExceeded = NewDomainError("RETURN_QUANTITY_EXCEEDED", "Return quantity exceeds quantity available to return")
)
