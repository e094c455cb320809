// internal/app/features/verification/routes.go
package verification

import (
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves /api/verification for signed-in students.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeStatus)
	r.Post("/", h.ServeSubmit)
	r.Post("/validate", h.ServeValidateStep)
	return r
}

// AdminRoutes serves /api/admin/verifications.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)
	r.Get("/", h.ServeAdminList)
	r.Get("/{id}", h.ServeAdminGet)
	r.Post("/{id}/review", h.ServeReview)
	return r
}
