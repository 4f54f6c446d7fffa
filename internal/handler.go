package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler declares routes on the app router.
type Handler interface {
	Routes(r chi.Router)
}

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler
