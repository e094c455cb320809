// internal/app/features/email/handler.go
package email

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/scholarhub/internal/app/system/inputval"
	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"github.com/dalemusser/scholarhub/internal/app/system/normalize"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler relays email composed by the portal through the configured provider.
type Handler struct {
	Sessions *auth.SessionManager
	Mailer   *mailer.Mailer
	Log      *zap.Logger
}

// NewHandler constructs an email Handler.
func NewHandler(sm *auth.SessionManager, m *mailer.Mailer, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sm, Mailer: m, Log: logger}
}

type sendRequest struct {
	To      string `json:"to" validate:"required,email" label:"Recipient"`
	Subject string `json:"subject" validate:"required,notblank,max=300" label:"Subject"`
	HTML    string `json:"html" validate:"required_without=Text,max=200000" label:"Message"`
	Text    string `json:"text" validate:"max=100000" label:"Text"`
}

// allowed reports whether u may send to the address. Admins may write to
// anyone; students only to themselves or the admin office.
func (h *Handler) allowed(u *auth.SessionUser, to string) bool {
	if h.Sessions.IsAdmin(u) {
		return true
	}
	to = normalize.Email(to)
	return to == normalize.Email(u.Email) || to == normalize.Email(h.Sessions.AdminEmail())
}

// ServeSend handles POST /api/send-email.
func (h *Handler) ServeSend(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	var req sendRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if err := inputval.Check(req); err != nil {
		respond.Error(w, err)
		return
	}
	to := strings.TrimSpace(req.To)
	if !h.allowed(u, to) {
		respond.Error(w, apperr.Forbidden("You can only send email to yourself or the scholarship office."))
		return
	}

	body := htmlsanitize.Sanitize(req.HTML)
	plain := strings.TrimSpace(req.Text)
	if plain == "" {
		plain = htmlsanitize.StripTags(body)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Mailer.Send(ctx, mailer.Email{
		To:       to,
		Subject:  htmlsanitize.StripTags(req.Subject),
		TextBody: plain,
		HTMLBody: body,
	})
	if err != nil {
		h.Log.Warn("send-email failed", zap.String("user_id", u.ID), zap.Error(err))
		respond.Error(w, apperr.Upstream("The email could not be sent. Please try again later."))
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"sent": true})
}

// Routes is mounted at /api/send-email.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.Sessions.RequireSignedIn)
	r.Post("/", h.ServeSend)
	return r
}
