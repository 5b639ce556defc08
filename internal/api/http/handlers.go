package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"food-ordering/internal/domain"
	"food-ordering/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

const popularLimit = 5

type Options struct {
	// AdminToken guards the JSON dish API; empty disables it.
	AdminToken           string
	AllowAnonymousOrders bool
}

type Handler struct {
	Menu    service.MenuServiceInterface
	Orders  service.OrderServiceInterface
	Auth    service.AuthServiceInterface
	QR      service.QRGenerator
	Store   sessions.Store
	Options Options

	views views
}

func NewHandler(menu service.MenuServiceInterface, orders service.OrderServiceInterface, auth service.AuthServiceInterface,
	qr service.QRGenerator, store sessions.Store, opts Options) *Handler {
	return &Handler{
		Menu:    menu,
		Orders:  orders,
		Auth:    auth,
		QR:      qr,
		Store:   store,
		Options: opts,
		views:   mustParseViews(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.health).Methods("GET")

	r.HandleFunc("/", h.home).Methods("GET")
	r.HandleFunc("/home/", h.home).Methods("GET")

	r.HandleFunc("/register/", h.registerForm).Methods("GET")
	r.HandleFunc("/register/", h.register).Methods("POST")
	r.HandleFunc("/login/", h.loginForm).Methods("GET")
	r.HandleFunc("/login/", h.login).Methods("POST")
	r.HandleFunc("/logout/", h.logout).Methods("GET")

	r.HandleFunc("/order/", h.orderAccess(h.orderForm)).Methods("GET")
	r.HandleFunc("/order/", h.orderAccess(h.submitOrder)).Methods("POST")
	r.HandleFunc("/order_success/", h.orderSuccessIndex).Methods("GET")
	r.HandleFunc("/order_success/{id:[0-9]+}/", h.orderSuccess).Methods("GET")
	r.HandleFunc("/order_success/{id:[0-9]+}/qrcode.png", h.orderQRCode).Methods("GET")
	r.HandleFunc("/order_history/", h.requireLogin(h.orderHistory)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.adminOnly)
	api.HandleFunc("/dishes", h.listDishes).Methods("GET")
	api.HandleFunc("/dishes", h.createDish).Methods("POST")
	api.HandleFunc("/dishes/{id:[0-9]+}", h.getDish).Methods("GET")
	api.HandleFunc("/dishes/{id:[0-9]+}", h.updateDish).Methods("PUT")
	api.HandleFunc("/dishes/{id:[0-9]+}", h.deleteDish).Methods("DELETE")
}

func (h *Handler) orderAccess(next http.HandlerFunc) http.HandlerFunc {
	if h.Options.AllowAnonymousOrders {
		return next
	}
	return h.requireLogin(next)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"service":   "food-app",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Menu.Menu(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	popular, err := h.Menu.PopularToday(r.Context(), popularLimit)
	if err != nil {
		log.Printf("[food-app] request_id=%s popular dishes unavailable: %v", RequestID(r.Context()), err)
	}

	h.render(w, r, http.StatusOK, "home.html", map[string]interface{}{
		"Dishes":  dishes,
		"Popular": popular,
	})
}

func (h *Handler) orderForm(w http.ResponseWriter, r *http.Request) {
	h.renderOrderForm(w, r, newOrderForm(), nil)
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	form := parseOrderForm(r.PostForm)
	if user, ok := CurrentUser(r.Context()); ok {
		form.Submission.UserID = &user.ID
	}
	if form.Errors.HasErrors() {
		if err := form.Submission.Contact.Normalize().Validate(); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				form.Errors.Merge(verr)
			}
		}
		h.renderOrderForm(w, r, form, form.Errors)
		return
	}

	order, err := h.Orders.Submit(r.Context(), form.Submission)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			h.renderOrderForm(w, r, form, verr)
		case errors.Is(err, service.ErrDishNotFound):
			h.renderError(w, r, http.StatusNotFound, "One of the selected dishes does not exist.")
		default:
			h.serverError(w, r, err)
		}
		return
	}

	log.Printf("[food-app] request_id=%s order %d placed, total %s", RequestID(r.Context()), order.ID, order.TotalPrice.StringFixed(2))
	http.Redirect(w, r, "/order_success/"+strconv.Itoa(order.ID)+"/", http.StatusFound)
}

func (h *Handler) renderOrderForm(w http.ResponseWriter, r *http.Request, form *orderForm, verr *domain.ValidationError) {
	dishes, err := h.Menu.Menu(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "order.html", map[string]interface{}{
		"Dishes": dishes,
		"Form":   form,
		"Errors": verr,
	})
}

func (h *Handler) orderSuccessIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/order_history/", http.StatusFound)
}

func (h *Handler) orderSuccess(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	order, err := h.Orders.Get(r.Context(), orderID)
	if errors.Is(err, service.ErrOrderNotFound) {
		h.renderError(w, r, http.StatusNotFound, "Order not found.")
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := map[string]interface{}{"Order": order}
	if png, err := h.QR.Generate(order.ID); err != nil {
		log.Printf("[food-app] request_id=%s QR code for order %d failed: %v", RequestID(r.Context()), order.ID, err)
	} else {
		data["QRCode"] = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
		data["QRLink"] = h.QR.Link(order.ID)
	}
	h.render(w, r, http.StatusOK, "order_success.html", data)
}

func (h *Handler) orderQRCode(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])

	if _, err := h.Orders.Get(r.Context(), orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Printf("[food-app] request_id=%s error: %v", RequestID(r.Context()), err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	png, err := h.QR.Generate(orderID)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) orderHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	pageNumber, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || pageNumber < 1 {
		pageNumber = 1
	}

	page, err := h.Orders.History(r.Context(), user.ID, pageNumber)
	if errors.Is(err, service.ErrPageNotFound) {
		h.renderError(w, r, http.StatusNotFound, "That page contains no results.")
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "order_history.html", map[string]interface{}{
		"Page": page,
	})
}
