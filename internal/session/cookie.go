package session

import (
	"net/http"

	gsessions "github.com/gorilla/sessions"
)

// CookieStore keeps session values inside a signed, HTTP-only cookie. The
// server holds no per-session state; tampered or expired cookies simply
// decode to an empty session.
type CookieStore struct {
	store *gsessions.CookieStore
}

// NewCookieStore creates a cookie-backed session store signed with secret.
// maxAge is the session lifetime in seconds. The session cookie stays
// SameSite=Lax: the provider's callback is a top-level navigation, which Lax
// permits, and anything stricter would drop the state mid-flow.
func NewCookieStore(secret string, maxAge int, secure bool) *CookieStore {
	s := gsessions.NewCookieStore([]byte(secret))
	s.Options = &gsessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: s}
}

// Open returns the request's session. A missing, expired, or tampered cookie
// yields a fresh empty session rather than an error.
func (c *CookieStore) Open(r *http.Request) (Session, error) {
	s, _ := c.store.Get(r, SessionCookieName)
	return &cookieSession{s: s}, nil
}

type cookieSession struct {
	s *gsessions.Session
}

func (c *cookieSession) Get(key string) (string, bool) {
	v, ok := c.s.Values[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (c *cookieSession) Set(key, value string) {
	c.s.Values[key] = value
}

func (c *cookieSession) Delete(key string) {
	delete(c.s.Values, key)
}

func (c *cookieSession) Save(w http.ResponseWriter, r *http.Request) error {
	return c.s.Save(r, w)
}
