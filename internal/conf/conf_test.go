package conf

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable the loader reads so a test sees only what
// it sets itself.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDR", "SERVER_BASE_URL", "APP_ENV",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"OAUTH_ISSUER", "OAUTH_REDIRECT_URL", "FRONTEND_URL",
		"SESSION_SECRET_KEY", "SECRET_KEY", "DATABASE_PATH",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
auth:
  client_id: file-client-id
  client_secret: file-client-secret
session:
  secret: file-session-secret
token:
  secret: file-token-secret
`

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Errorf("addr = %q, want :8000", cfg.Server.Addr)
	}
	if cfg.Environment != "dev" || cfg.IsProd() {
		t.Errorf("environment = %q, want dev", cfg.Environment)
	}
	if cfg.Auth.Issuer != "https://accounts.google.com" {
		t.Errorf("issuer = %q", cfg.Auth.Issuer)
	}
	if got := cfg.CredentialTTL(); got != time.Hour {
		t.Errorf("credential TTL = %v, want 1h", got)
	}
	if got := cfg.SessionTTL(); got != time.Hour {
		t.Errorf("session TTL = %v, want 1h", got)
	}
	if got := cfg.ProviderTimeout(); got != 10*time.Second {
		t.Errorf("provider timeout = %v, want 10s", got)
	}
	if got := len(cfg.Auth.Scopes); got != 3 {
		t.Errorf("scopes = %v", cfg.Auth.Scopes)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "env-client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "env-client-secret")
	t.Setenv("SESSION_SECRET_KEY", "env-session-secret")
	t.Setenv("SECRET_KEY", "env-token-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.ClientID != "env-client-id" {
		t.Errorf("client id = %q", cfg.Auth.ClientID)
	}
	if cfg.Token.Secret != "env-token-secret" {
		t.Errorf("token secret = %q", cfg.Token.Secret)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "env-client-id")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("FRONTEND_URL", "https://app.example.com")

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.ClientID != "env-client-id" {
		t.Errorf("client id = %q, env should win over file", cfg.Auth.ClientID)
	}
	if cfg.Auth.ClientSecret != "file-client-secret" {
		t.Errorf("client secret = %q, file value should survive", cfg.Auth.ClientSecret)
	}
	if !cfg.IsProd() {
		t.Error("APP_ENV=prod should mark the config prod")
	}
	if cfg.Auth.FrontendURL != "https://app.example.com" {
		t.Errorf("frontend url = %q", cfg.Auth.FrontendURL)
	}
}

func TestValidateRejectsIncompleteConfig(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"missing client id", "GOOGLE_CLIENT_ID"},
		{"missing client secret", "GOOGLE_CLIENT_SECRET"},
		{"missing session secret", "SESSION_SECRET_KEY"},
		{"missing token secret", "SECRET_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for _, key := range []string{"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "SESSION_SECRET_KEY", "SECRET_KEY"} {
				if key != tt.omit {
					t.Setenv(key, "value")
				}
			}
			if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
				t.Error("Load should fail without " + tt.omit)
			}
		})
	}
}

func TestValidateRejectsUnknownEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "staging")

	if _, err := Load(writeConfig(t, minimalConfig)); err == nil {
		t.Error("Load should reject environment values other than dev and prod")
	}
}

func TestGetRedirectURL(t *testing.T) {
	a := Auth{}
	if got := a.GetRedirectURL("http://localhost:8000"); got != "http://localhost:8000/auth/google/callback" {
		t.Errorf("derived redirect url = %q", got)
	}

	a.RedirectURL = "https://api.example.com/auth/google/callback"
	if got := a.GetRedirectURL("http://localhost:8000"); got != a.RedirectURL {
		t.Errorf("explicit redirect url not honored: %q", got)
	}
}

func TestCookieSameSite(t *testing.T) {
	dev := Config{Environment: "dev"}
	if dev.CookieSameSite() != http.SameSiteLaxMode {
		t.Error("dev should use SameSite=Lax")
	}
	prod := Config{Environment: "prod"}
	if prod.CookieSameSite() != http.SameSiteNoneMode {
		t.Error("prod should use SameSite=None")
	}
}
