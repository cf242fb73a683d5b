package repository

import "errors"

var (
	// ErrConflict is returned when the stored document moved on since it was read.
	ErrConflict = errors.New("document was modified concurrently")

	// ErrUnsupportedVersion is returned for documents written by a newer build.
	ErrUnsupportedVersion = errors.New("unsupported document version")
)
