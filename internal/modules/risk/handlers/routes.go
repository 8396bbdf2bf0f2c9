package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all risk routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/risk", func(r chi.Router) {
		r.Post("/decompose", h.HandleDecompose)
		r.Post("/decompose/batch", h.HandleDecomposeBatch)
		r.Post("/exposure", h.HandleExposure)
	})
}
