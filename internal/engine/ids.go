package engine

import "github.com/google/uuid"

// IDGenerator produces prefixed unique identifiers.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator generates ids of the form "<prefix>_<uuid>".
type UUIDGenerator struct{}

// NewID returns a fresh prefixed UUID.
func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Id prefixes.
const (
	SessionIDPrefix = "sess"
	ExtraIDPrefix   = "ex"
	OrderIDPrefix   = "ord"
)
