package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID transfer IDs. Account and entry numbers are
// storage-assigned; ULIDs only link the two halves of a transfer pair.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
