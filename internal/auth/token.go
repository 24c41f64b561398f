package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential is returned for every verification failure: bad
// signature, malformed payload, or expiry. Callers cannot tell which; the
// distinction is only available server-side through the wrapped error.
var ErrInvalidCredential = errors.New("invalid credential")

// Claims is the claim set carried by a session credential. Subject holds the
// local user id, not the provider's subject identifier.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Codec issues and verifies signed, time-limited session credentials using
// an HMAC secret known only to the server. Issue and Verify are pure
// functions of their input, the secret, and the clock; no state is kept.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a credential codec with the given signing secret and
// credential lifetime.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed credential for the given user, expiring after the
// configured TTL.
func (c *Codec) Issue(subjectID, email, name string) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Email: email,
		Name:  name,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a credential and returns its
// claims. Verification runs with zero leeway; the boundary instant
// now == expires_at counts as expired.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !token.Valid {
		return nil, ErrInvalidCredential
	}
	if claims.ExpiresAt == nil || !c.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (c *Codec) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return c.secret, nil
}
