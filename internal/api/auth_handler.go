package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"auth-backend/internal/auth"
	"auth-backend/internal/biz"
	"auth-backend/internal/provider"
	"auth-backend/internal/session"

	"github.com/gorilla/mux"
)

// ErrStateMismatch reports a callback whose state parameter does not match
// the one bound to the caller's session, including the missing-session case.
var ErrStateMismatch = errors.New("state mismatch")

const (
	// CredentialCookieName is the cookie carrying the session credential.
	CredentialCookieName = "access_token"

	stateSessionKey    = "oauth_state"
	returnToSessionKey = "oauth_return_to"
)

// CookiePolicy decides the security attributes of the credential cookie.
// Split-origin deployments need SameSite=None, which browsers only accept
// together with Secure.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

// AuthHandler drives the browser through the two-step login flow and serves
// the credential-protected endpoints.
type AuthHandler struct {
	flow          *biz.LoginUsecase
	sessions      session.Store
	frontendURL   string
	credentialTTL time.Duration
	policy        CookiePolicy
	logger        *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(flow *biz.LoginUsecase, sessions session.Store, frontendURL string, credentialTTL time.Duration, policy CookiePolicy, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		flow:          flow,
		sessions:      sessions,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		credentialTTL: credentialTTL,
		policy:        policy,
		logger:        logger,
	}
}

// RegisterRoutes registers auth routes.
//
// NOTE:
// The frontend calls /auth/me to decide whether the user is logged in, so it
// must run under the auth middleware that puts the verified claims into the
// request context.
func (h *AuthHandler) RegisterRoutes(r *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	r.HandleFunc("/auth/google/login", h.login).Methods(http.MethodGet)
	r.HandleFunc("/auth/google/callback", h.callback).Methods(http.MethodGet)
	r.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	r.Handle("/auth/me", authMiddleware(http.HandlerFunc(h.me))).Methods(http.MethodGet)
}

// login starts the flow: a fresh state is bound to the caller's session and
// the browser is sent to the provider's consent screen. A second login from
// the same session overwrites the previous state, invalidating it.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Open(r)
	if err != nil {
		h.logger.Error("failed to open session", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("session unavailable"))
		return
	}

	state, err := auth.GenerateState()
	if err != nil {
		h.logger.Error("failed to generate state", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to start login"))
		return
	}
	sess.Set(stateSessionKey, state)

	// Post-login destination, restricted to the front end.
	if returnTo := r.URL.Query().Get("return_to"); returnTo != "" && h.allowedReturn(returnTo) {
		sess.Set(returnToSessionKey, returnTo)
	} else {
		sess.Delete(returnToSessionKey)
	}

	if err := sess.Save(w, r); err != nil {
		h.logger.Error("failed to save session", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("session unavailable"))
		return
	}

	http.Redirect(w, r, h.flow.AuthCodeURL(state), http.StatusFound)
}

// callback finishes the flow. The state comparison runs before anything
// else: the provider is never called for a request that fails it. The stored
// state is deleted once compared, win or lose, so a callback can never be
// replayed.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Open(r)
	if err != nil {
		h.logger.Error("failed to open session", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("session unavailable"))
		return
	}

	saved, hasState := sess.Get(stateSessionKey)
	returnTo, _ := sess.Get(returnToSessionKey)
	sess.Delete(stateSessionKey)
	sess.Delete(returnToSessionKey)
	if err := sess.Save(w, r); err != nil {
		h.logger.Error("failed to save session", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("session unavailable"))
		return
	}

	state := r.URL.Query().Get("state")
	if !hasState || state == "" || state != saved {
		h.logger.Warn("callback rejected", "error", ErrStateMismatch, "has_session_state", hasState)
		writeJSON(w, http.StatusBadRequest, errorBody("invalid state parameter"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing authorization code"))
		return
	}

	user, credential, err := h.flow.Complete(r.Context(), code)
	if err != nil {
		h.logger.Error("login failed", "error", err)
		switch {
		case errors.Is(err, biz.ErrDirectoryUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, errorBody("user directory unavailable"))
		case errors.Is(err, provider.ErrTokenExchange):
			writeJSON(w, http.StatusBadRequest, errorBody("failed to exchange authorization code"))
		case errors.Is(err, provider.ErrProfileFetch):
			writeJSON(w, http.StatusBadRequest, errorBody("failed to fetch user profile"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorBody("login failed"))
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CredentialCookieName,
		Value:    credential,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.policy.Secure,
		SameSite: h.policy.SameSite,
		MaxAge:   int(h.credentialTTL.Seconds()),
	})

	target := h.frontendURL + "/login/success"
	if returnTo != "" {
		target = returnTo
	}
	h.logger.Info("login complete", "user_id", user.ID)
	http.Redirect(w, r, target, http.StatusFound)
}

// me returns the claims of the verified credential placed into the request
// context by the auth middleware.
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.FromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody("not authenticated"))
		return
	}
	writeJSON(w, http.StatusOK, UserInfoResponse{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	})
}

// logout clears the credential cookie and sends the browser back to the
// front-end login page. It is unconditional and idempotent: no credential is
// required or validated.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CredentialCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.policy.Secure,
		SameSite: h.policy.SameSite,
		MaxAge:   -1,
	})
	http.Redirect(w, r, h.frontendURL+"/login", http.StatusFound)
}

// allowedReturn accepts only destinations on the front end, so the
// return_to parameter cannot turn the callback into an open redirect.
func (h *AuthHandler) allowedReturn(target string) bool {
	return target == h.frontendURL || strings.HasPrefix(target, h.frontendURL+"/")
}
