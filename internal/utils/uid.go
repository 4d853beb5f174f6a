package utils

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// UIDGenerator produces vault identifiers: 16 random bytes encoded as
// unpadded URL-safe base64 (22 characters).
type UIDGenerator struct{}

func NewUIDGenerator() *UIDGenerator {
	return &UIDGenerator{}
}

func (g *UIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return base64.RawURLEncoding.EncodeToString(id[:])
}
