package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/minedex/minedex/internal/httpserver/deps"
	"github.com/minedex/minedex/internal/httpserver/handlers"
)

func init() { Register(registerRefresh) }

func registerRefresh(r chi.Router, d deps.Deps) {
	r.Post("/api/refresh-status", handlers.RefreshStatuses(d))
}
