// Package provider performs the two outbound calls of the authorization-code
// flow: exchanging the one-time code for an access token, and fetching the
// authenticated user's profile with it.
package provider

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

var (
	// ErrTokenExchange covers every failure of the code-for-token call:
	// transport errors, non-2xx responses, and responses without an access
	// token. Exchanges are never retried; the user must restart the flow.
	ErrTokenExchange = errors.New("token exchange failed")

	// ErrProfileFetch covers every failure of the userinfo call.
	ErrProfileFetch = errors.New("profile fetch failed")

	// ErrMissingProfileField is a profile response that succeeded at the
	// transport level but lacks a subject id or email. It matches
	// ErrProfileFetch under errors.Is so flow code can handle the broad kind.
	ErrMissingProfileField = fmt.Errorf("%w: missing required profile field", ErrProfileFetch)
)

// Profile is the provider's view of the authenticated user. SubjectID and
// Email are mandatory; Name and AvatarURL may be empty.
type Profile struct {
	SubjectID string
	Email     string
	Name      string
	AvatarURL string
}

// Provider is an OAuth2 identity provider.
type Provider interface {
	// AuthCodeURL builds the consent-screen URL carrying the given state.
	AuthCodeURL(state string) string

	// Exchange trades a one-time authorization code for tokens. The
	// redirect URI sent here is byte-identical to the one in AuthCodeURL.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchProfile retrieves the authenticated user's profile using the
	// access token from Exchange.
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}
