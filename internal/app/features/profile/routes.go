// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeGet)
	r.Put("/", h.ServePut)
	return r
}

// DocumentRoutes is mounted under /api/documents.
func DocumentRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeListDocuments)
	r.Post("/", h.ServeUpload)
	r.Get("/{id}", h.ServeGetDocument)
	r.Delete("/{id}", h.ServeDeleteDocument)
	return r
}
