package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/minedex/minedex/internal/httpserver/deps"
	"github.com/minedex/minedex/internal/httpserver/handlers"
)

func init() { Register(registerServers) }

func registerServers(r chi.Router, d deps.Deps) {
	r.Route("/api/servers", func(r chi.Router) {
		r.Get("/", handlers.ListServers(d))
		r.Post("/", handlers.CreateServer(d))
		r.Put("/{id}", handlers.UpdateServer(d))
		r.Delete("/{id}", handlers.DeleteServer(d))
		r.Get("/{id}/status", handlers.ServerStatus(d))
	})
}
