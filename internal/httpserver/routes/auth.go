package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/httpserver/handlers"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Post("/auth/token", handlers.AuthToken(d))
	r.Post("/auth/telegram", handlers.TelegramLogin(d))
	r.Post("/auth/logout", handlers.Logout(d))
}
