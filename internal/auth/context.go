package auth

import (
	"context"
	"errors"
)

type contextKey struct{}

// ErrNoUserInContext is returned when no verified claims are found in context.
var ErrNoUserInContext = errors.New("no authenticated user in context")

// NewContext returns a context carrying verified credential claims.
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// FromContext extracts verified credential claims from a request context.
func FromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	if !ok {
		return nil, ErrNoUserInContext
	}
	return claims, nil
}
