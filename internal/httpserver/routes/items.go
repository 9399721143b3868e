package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/httpserver/handlers"
)

func init() { Register(registerItems) }

func registerItems(r chi.Router, d deps.Deps) {
	r.Post("/items/open", handlers.OpenItem(d))
	r.Post("/items/toggle", handlers.ToggleBookmark(d))
}
