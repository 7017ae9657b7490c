// Package api is the HTTP and websocket transport in front of the
// game service. JSON in, JSON out; session updates stream over a
// websocket.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"party-lab/observability"
	"party-lab/services"
)

func NewRouter(log *slog.Logger, svc services.IGameService, monitor *observability.Manager) http.Handler {
	h := &handlers{log: log, svc: svc, monitor: monitor}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/register", h.register)
	r.Get("/debug/stats", h.debugStats)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Post("/sessions", h.createSession)
		r.Get("/sessions/{sessionID}", h.getSession)
		r.Post("/sessions/{sessionID}/join", h.join)
		r.Post("/leave", h.leave)
		r.Post("/ready", h.setReady)
		r.Post("/answer", h.submitAnswer)
		r.Post("/logout", h.logout)
		r.Get("/subscribe", h.subscribe)
	})

	return r
}
