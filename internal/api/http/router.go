package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter().StrictSlash(true)
	r.Use(requestLogger, handler.loadUser)
	handler.RegisterRoutes(r)
	return cors.Default().Handler(r)
}
