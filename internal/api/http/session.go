package httpapi

import (
	"log"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "food-session"

	sessionUserID   = "user_id"
	sessionUsername = "username"

	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

// NewCookieStore returns the session store used by the web handlers.
func NewCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 14,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// session never returns nil; an undecodable cookie yields a fresh session.
func (h *Handler) session(r *http.Request) *sessions.Session {
	session, err := h.Store.Get(r, sessionName)
	if err != nil {
		log.Printf("[food-app] request_id=%s discarding invalid session: %v", RequestID(r.Context()), err)
	}
	return session
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	session := h.session(r)
	session.AddFlash(message, kind)
	if err := session.Save(r, w); err != nil {
		log.Printf("[food-app] request_id=%s failed to save flash: %v", RequestID(r.Context()), err)
	}
}
