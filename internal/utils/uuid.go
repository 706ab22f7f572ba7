package utils

import "github.com/google/uuid"

// UUIDGenerator assigns identifiers to new vault items and history records.
// Version 7 ids sort by creation time, which keeps index inserts append-only.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return new(UUIDGenerator)
}

// Generate returns a UUIDv7, or a random v4 id when reading the clock fails.
func (*UUIDGenerator) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
