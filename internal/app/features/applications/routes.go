// internal/app/features/applications/routes.go
package applications

import (
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves /api/applications for signed-in students.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Post("/", h.ServeSubmit)
	r.Get("/mine", h.ServeMine)
	return r
}

// AdminRoutes serves /api/admin/applications.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)
	r.Get("/", h.ServeAdminList)
	r.Post("/{id}/review", h.ServeReview)
	return r
}
