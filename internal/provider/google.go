package provider

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// GoogleIssuer is the default OIDC issuer for Google sign-in.
const GoogleIssuer = "https://accounts.google.com"

// Google implements Provider against a Google-style OIDC issuer. Endpoint
// locations come from the issuer's discovery document, so tests can point it
// at a local fake.
type Google struct {
	provider *oidc.Provider
	config   oauth2.Config
}

// NewGoogle discovers the issuer's endpoints and prepares the OAuth2
// configuration. redirectURL must match the URL registered with the provider
// byte for byte; the same value is later sent during the code exchange.
func NewGoogle(ctx context.Context, issuer, clientID, clientSecret, redirectURL string, scopes []string) (*Google, error) {
	p, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover provider %s: %w", issuer, err)
	}
	return &Google{
		provider: p,
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     p.Endpoint(),
			Scopes:       scopes,
		},
	}, nil
}

// AuthCodeURL returns the consent URL for the given state, requesting
// offline access and a fresh consent prompt.
func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange posts the authorization code to the token endpoint.
func (g *Google) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in response", ErrTokenExchange)
	}
	return token, nil
}

// FetchProfile calls the userinfo endpoint with the access token and decodes
// the standard claims. Subject id and email must be present; name and
// picture are optional.
func (g *Google) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	info, err := g.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := info.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	if claims.Sub == "" || claims.Email == "" {
		return nil, ErrMissingProfileField
	}

	return &Profile{
		SubjectID: claims.Sub,
		Email:     claims.Email,
		Name:      claims.Name,
		AvatarURL: claims.Picture,
	}, nil
}
