package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"food-ordering/internal/domain"
	"food-ordering/internal/service"
)

func (h *Handler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", nil)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	registration := domain.Registration{
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		Password1: r.PostFormValue("password1"),
		Password2: r.PostFormValue("password2"),
	}

	user, err := h.Auth.Register(r.Context(), registration)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
		case errors.Is(err, service.ErrUsernameTaken):
			verr = domain.NewValidationError()
			verr.Add("username", "A user with that username already exists.")
		default:
			h.serverError(w, r, err)
			return
		}
		h.render(w, r, http.StatusOK, "register.html", map[string]interface{}{
			"Username": registration.Username,
			"Errors":   verr,
		})
		return
	}

	log.Printf("[food-app] request_id=%s registered user %d", RequestID(r.Context()), user.ID)
	h.flash(w, r, flashSuccess, "Account created for "+user.Username+". You can now log in.")
	http.Redirect(w, r, "/login/", http.StatusFound)
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", map[string]interface{}{
		"Next": r.URL.Query().Get("next"),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	next := r.PostFormValue("next")

	user, err := h.Auth.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.session(r).AddFlash("Please enter a correct username and password.", flashError)
		h.render(w, r, http.StatusOK, "login.html", map[string]interface{}{
			"Username": username,
			"Next":     next,
		})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	session := h.session(r)
	session.Values[sessionUserID] = user.ID
	session.Values[sessionUsername] = user.Username
	session.AddFlash("Welcome, "+user.Username+"!", flashSuccess)
	if err := session.Save(r, w); err != nil {
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	delete(session.Values, sessionUserID)
	delete(session.Values, sessionUsername)
	session.AddFlash("You have been logged out.", flashInfo)
	if err := session.Save(r, w); err != nil {
		log.Printf("[food-app] request_id=%s failed to save session on logout: %v", RequestID(r.Context()), err)
	}
	http.Redirect(w, r, "/login/", http.StatusFound)
}

// safeNext only allows redirects to local paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
