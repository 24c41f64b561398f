package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// GenerateState creates a cryptographically random, URL-safe anti-forgery
// token for the OAuth2 state parameter. 32 random bytes give 256 bits of
// entropy, encoded to 43 characters of base64url without padding.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
