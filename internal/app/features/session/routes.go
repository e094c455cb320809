// internal/app/features/session/routes.go
package session

import (
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Mount registers /logout, /api/me and /api/presence on r.
func Mount(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Post("/logout", h.ServeLogout)
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/api/me", h.ServeMe)
		pr.Post("/api/presence", h.ServePresence)
	})
}
