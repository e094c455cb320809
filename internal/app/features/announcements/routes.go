// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the public announcement feed, mounted under /api/announcements.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}

// CalendarRoutes is mounted under /api/calendar.
func CalendarRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeCalendar)
	return r
}

// AdminRoutes is mounted under /api/admin/announcements.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	return r
}
