package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/httpserver/handlers"
)

func init() { Register(registerPromo) }

func registerPromo(r chi.Router, d deps.Deps) {
	r.Post("/promo", handlers.ApplyPromo(d))
}
