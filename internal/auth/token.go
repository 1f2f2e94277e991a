package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 16

// Issuer generates opaque session tokens.
type Issuer interface {
	Issue() (string, error)
}

// RandomIssuer returns 128-bit tokens from crypto/rand, hex encoded.
type RandomIssuer struct{}

func (RandomIssuer) Issue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
