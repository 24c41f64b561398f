// Package session provides the per-caller key-value store that carries the
// anti-forgery state between the two steps of the login flow. Values are
// scoped to one browser session and expire with it; nothing here outlives
// the session TTL.
package session

import "net/http"

// SessionCookieName is the cookie that ties a browser to its session.
const SessionCookieName = "session"

// Store hands out the session attached to an incoming request, creating a
// fresh one when the request carries no usable session cookie.
type Store interface {
	Open(r *http.Request) (Session, error)
}

// Session is a small per-caller key-value bag. Mutations take effect only
// after Save, which must run before the response headers are written.
type Session interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	Save(w http.ResponseWriter, r *http.Request) error
}
