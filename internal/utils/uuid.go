package utils

import (
	"path/filepath"

	"github.com/google/uuid"
)

// UUIDGenerator produces collision-resistant random identifiers. It is used
// for token keys and uploaded file names.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a time-ordered UUIDv7, falling back to a random UUIDv4.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// RandomFileName returns id followed by the extension of original, case
// preserved, e.g. "photo.JPG" becomes "<id>.JPG".
func RandomFileName(id, original string) string {
	return id + filepath.Ext(original)
}
