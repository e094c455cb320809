// internal/app/features/oauthlogin/routes.go
package oauthlogin

import "github.com/go-chi/chi/v5"

// Routes serves /auth/{provider} and its callback. Both are public.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{provider}", h.ServeLogin)
	r.Get("/{provider}/callback", h.ServeCallback)
	return r
}
