// internal/app/features/scholarships/routes.go
package scholarships

import (
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/scholarships (public).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)
	return r
}

// AdminRoutes is mounted under /api/admin/scholarships.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)
	r.Post("/", h.ServeCreate)
	r.Put("/{id}", h.ServeUpdate)
	return r
}
