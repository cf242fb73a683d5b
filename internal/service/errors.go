package service

import (
	"fmt"

	"billiard/internal/engine"
)

var (
	// ErrInvalidTableNo is returned when a table number is not a positive number.
	ErrInvalidTableNo = fmt.Errorf("%w: invalid table number", engine.ErrInvalidInput)

	// ErrMissingSessionID is returned when checkout has no session id.
	ErrMissingSessionID = fmt.Errorf("%w: missing session id", engine.ErrInvalidInput)

	// ErrMissingExtraID is returned when an extra removal names no extra.
	ErrMissingExtraID = fmt.Errorf("%w: missing extra id", engine.ErrInvalidInput)

	// ErrMissingOrderID is returned when an order lookup has no id.
	ErrMissingOrderID = fmt.Errorf("%w: missing order id", engine.ErrInvalidInput)
)
