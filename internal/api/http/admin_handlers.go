package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"food-ordering/internal/domain"
	"food-ordering/internal/service"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeDishError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": verr.Fields})
	case errors.Is(err, service.ErrDishNotFound):
		http.Error(w, "Dish not found", http.StatusNotFound)
	default:
		log.Printf("[food-app] request_id=%s error: %v", RequestID(r.Context()), err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) listDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Menu.Menu(r.Context())
	if err != nil {
		h.writeDishError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dishes)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	var dish domain.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dish.ID = 0

	if err := h.Menu.Create(r.Context(), &dish); err != nil {
		h.writeDishError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dish)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	dishID, _ := strconv.Atoi(mux.Vars(r)["id"])

	dish, err := h.Menu.Get(r.Context(), dishID)
	if err != nil {
		h.writeDishError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	dishID, _ := strconv.Atoi(mux.Vars(r)["id"])

	var dish domain.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dish.ID = dishID

	if err := h.Menu.Update(r.Context(), &dish); err != nil {
		h.writeDishError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	dishID, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Menu.Delete(r.Context(), dishID); err != nil {
		h.writeDishError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
