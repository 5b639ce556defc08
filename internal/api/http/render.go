package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"food-ordering/internal/domain"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"home.html",
	"register.html",
	"login.html",
	"order.html",
	"order_success.html",
	"order_history.html",
	"error.html",
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"fieldErrors": func(verr *domain.ValidationError, field string) []string {
		return verr.For(field)
	},
}

type views map[string]*template.Template

func mustParseViews() views {
	parsed := make(views, len(pages))
	for _, page := range pages {
		parsed[page] = template.Must(template.New(page).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/base.html", "templates/"+page))
	}
	return parsed
}

// render executes page inside the base layout. Flashes pending in the
// session are consumed here, so the session is saved before any output.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}

	session := h.session(r)
	data["Flashes"] = map[string][]string{
		flashSuccess: flashStrings(session.Flashes(flashSuccess)),
		flashError:   flashStrings(session.Flashes(flashError)),
		flashInfo:    flashStrings(session.Flashes(flashInfo)),
	}
	if err := session.Save(r, w); err != nil {
		log.Printf("[food-app] request_id=%s failed to save session: %v", RequestID(r.Context()), err)
	}
	if user, ok := CurrentUser(r.Context()); ok {
		data["User"] = user
	}

	tmpl, ok := h.views[page]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Printf("[food-app] request_id=%s render %s: %v", RequestID(r.Context()), page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "error.html", map[string]interface{}{
		"Status":  status,
		"Message": message,
	})
}

// serverError logs err with the request id and renders a generic 500 page.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[food-app] request_id=%s error: %v", RequestID(r.Context()), err)
	h.renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

func flashStrings(flashes []interface{}) []string {
	messages := make([]string, 0, len(flashes))
	for _, flash := range flashes {
		if msg, ok := flash.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
