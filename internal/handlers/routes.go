package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all circuit routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/circuits", func(r chi.Router) {
			r.Post("/execute", h.HandleExecute)
			r.Post("/statevector", h.HandleStatevector)
			r.Post("/overlap", h.HandleOverlap)
		})
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.HandleListJobs)
			r.Get("/{id}", h.HandleGetJob)
		})
	})
}
