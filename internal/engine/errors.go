package engine

import "errors"

var (
	// ErrNotFound is returned when no session exists for a table or id.
	ErrNotFound = errors.New("session not found")

	// ErrOrderNotFound is returned when no order exists for an id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrAlreadyClosed is returned when checking out or driving a closed session.
	ErrAlreadyClosed = errors.New("session already closed")

	// ErrSessionClosed is returned when editing extras of a closed session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrInvalidInput is returned for blank names, bad table numbers and unknown payment methods.
	ErrInvalidInput = errors.New("invalid input")
)
