package conf

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the config structure.
type Config struct {
	Server      Server   `yaml:"server"`
	Environment string   `yaml:"environment"`
	Auth        Auth     `yaml:"auth"`
	Session     Session  `yaml:"session"`
	Token       Token    `yaml:"token"`
	Database    Database `yaml:"database"`

	// ProviderTimeoutSeconds bounds each outbound call to the identity
	// provider during a login attempt.
	ProviderTimeoutSeconds int `yaml:"provider_timeout_seconds"`
}

// Server is the server config.
type Server struct {
	Addr    string `yaml:"addr"`
	BaseURL string `yaml:"base_url"`
}

// Auth is the identity-provider config.
type Auth struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Issuer       string   `yaml:"issuer"`
	RedirectURL  string   `yaml:"redirect_url"` // Optional: if not set, auto-constructed from server.base_url
	FrontendURL  string   `yaml:"frontend_url"`
	Scopes       []string `yaml:"scopes"`
}

// Session configures the signed session-cookie store that carries the
// anti-forgery state between the two login steps.
type Session struct {
	Secret     string `yaml:"secret"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// Token configures the session-credential codec. Rotating Secret invalidates
// every outstanding credential; there is no server-side revocation store.
type Token struct {
	Secret     string `yaml:"secret"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// Database is the user directory storage config.
type Database struct {
	Path string `yaml:"path"`
}

// GetRedirectURL returns the OAuth callback URL.
// If RedirectURL is explicitly configured, use it.
// Otherwise, construct from server base_url + hardcoded callback path.
func (a *Auth) GetRedirectURL(serverBaseURL string) string {
	if a.RedirectURL != "" {
		return a.RedirectURL
	}
	return serverBaseURL + "/auth/google/callback"
}

// IsProd reports whether the config targets a production deployment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// CredentialTTL is the lifetime of issued session credentials.
func (c *Config) CredentialTTL() time.Duration {
	return time.Duration(c.Token.TTLMinutes) * time.Minute
}

// SessionTTL is the lifetime of the login session cookie.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// ProviderTimeout bounds each outbound identity-provider call.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

// CookieSameSite returns the SameSite mode for the credential cookie. A prod
// deployment serves the front end from a different origin, which requires
// SameSite=None together with Secure; dev runs same-site on split ports.
func (c *Config) CookieSameSite() http.SameSite {
	if c.IsProd() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Load loads config from file, applies defaults, and overlays environment
// variables. A missing config file is not an error: everything can come from
// the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8000"
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "https://accounts.google.com"
	}
	if c.Auth.FrontendURL == "" {
		c.Auth.FrontendURL = "http://localhost:3000"
	}
	if len(c.Auth.Scopes) == 0 {
		c.Auth.Scopes = []string{"openid", "email", "profile"}
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 60
	}
	if c.Token.TTLMinutes == 0 {
		c.Token.TTLMinutes = 60
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/users.db"
	}
	if c.ProviderTimeoutSeconds == 0 {
		c.ProviderTimeoutSeconds = 10
	}
}

// applyEnv overrides config values from environment variables if present.
func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Server.Addr, "SERVER_ADDR")
	set(&c.Server.BaseURL, "SERVER_BASE_URL")
	set(&c.Environment, "APP_ENV")
	set(&c.Auth.ClientID, "GOOGLE_CLIENT_ID")
	set(&c.Auth.ClientSecret, "GOOGLE_CLIENT_SECRET")
	set(&c.Auth.Issuer, "OAUTH_ISSUER")
	set(&c.Auth.RedirectURL, "OAUTH_REDIRECT_URL")
	set(&c.Auth.FrontendURL, "FRONTEND_URL")
	set(&c.Session.Secret, "SESSION_SECRET_KEY")
	set(&c.Token.Secret, "SECRET_KEY")
	set(&c.Database.Path, "DATABASE_PATH")
}

// Validate rejects configurations that cannot serve a login flow.
func (c *Config) Validate() error {
	if c.Environment != "dev" && c.Environment != "prod" {
		return fmt.Errorf("environment must be dev or prod, got %q", c.Environment)
	}
	if c.Auth.ClientID == "" {
		return errors.New("auth.client_id is required (GOOGLE_CLIENT_ID)")
	}
	if c.Auth.ClientSecret == "" {
		return errors.New("auth.client_secret is required (GOOGLE_CLIENT_SECRET)")
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required (SESSION_SECRET_KEY)")
	}
	if c.Token.Secret == "" {
		return errors.New("token.secret is required (SECRET_KEY)")
	}
	return nil
}
