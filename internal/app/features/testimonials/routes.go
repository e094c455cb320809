// internal/app/features/testimonials/routes.go
package testimonials

import (
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/testimonials. Listing is public.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.With(sm.RequireSignedIn).Post("/", h.ServeCreate)
	return r
}

// AdminRoutes is mounted under /api/admin/testimonials.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)
	r.Get("/", h.ServeList)
	r.Post("/{id}/feature", h.ServeFeature)
	return r
}
