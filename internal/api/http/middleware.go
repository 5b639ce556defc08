package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"food-ordering/internal/domain"

	"github.com/google/uuid"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	userKey
)

const requestIDHeader = "X-Request-ID"

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// CurrentUser returns the user attached by loadUser. Only ID and Username
// are set.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

func withUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLogger stamps every request with an id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

		log.Printf("[food-app] %s %s %d %s request_id=%s",
			r.Method, r.URL.Path, recorder.status, time.Since(start).Round(time.Microsecond), id)
	})
}

// loadUser attaches the logged-in user from the session, if any.
func (h *Handler) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := h.session(r)
		if userID, ok := session.Values[sessionUserID].(int); ok {
			username, _ := session.Values[sessionUsername].(string)
			r = withUser(r, &domain.User{ID: userID, Username: username})
		}
		next.ServeHTTP(w, r)
	})
}

// requireLogin redirects anonymous visitors to the login page. A session
// whose account no longer exists is cleared.
func (h *Handler) requireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			http.Redirect(w, r, "/login/?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}

		account, err := h.Auth.User(r.Context(), user.ID)
		if err != nil {
			log.Printf("[food-app] request_id=%s session user %d not found: %v", RequestID(r.Context()), user.ID, err)
			session := h.session(r)
			delete(session.Values, sessionUserID)
			delete(session.Values, sessionUsername)
			if err := session.Save(r, w); err != nil {
				log.Printf("[food-app] request_id=%s failed to clear stale session: %v", RequestID(r.Context()), err)
			}
			http.Redirect(w, r, "/login/", http.StatusFound)
			return
		}

		next(w, withUser(r, account))
	}
}

func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if h.Options.AdminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.Options.AdminToken)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "admin token required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
