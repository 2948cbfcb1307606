package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a request failed local validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientStock indicates the requested quantity exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnauthenticated indicates no valid session is present.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the session lacks the required role.
	ErrForbidden = errors.New("forbidden")
)
