package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/httpserver/handlers"
)

func init() { Register(registerView) }

func registerView(r chi.Router, d deps.Deps) {
	r.Get("/view", handlers.View(d))
}
