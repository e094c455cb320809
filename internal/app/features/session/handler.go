// internal/app/features/session/handler.go
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves sign-out, the current user and the presence heartbeat.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Users      *userstore.Store
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Users:      users,
	}
}

// ServeLogout handles POST /logout. The user is marked offline before the
// cookie is expired; a failed presence write does not block sign-out.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		if err := h.Users.SetPresence(ctx, u.ID, models.PresenceOffline, time.Now()); err != nil {
			h.Log.Warn("logout: mark offline", zap.String("user_id", u.ID), zap.Error(err))
		}
		cancel()
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"signedOut": true})
}

type meResponse struct {
	User    *models.User `json:"user"`
	IsAdmin bool         `json:"isAdmin"`
}

// ServeMe handles GET /api/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, su.ID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
			return
		}
		h.Log.Error("load current user", zap.String("user_id", su.ID), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load your account. Please try again."))
		return
	}
	respond.JSON(w, http.StatusOK, meResponse{User: u, IsAdmin: h.SessionMgr.IsAdmin(su)})
}

// ServePresence handles POST /api/presence.
func (h *Handler) ServePresence(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetPresence(ctx, u.ID, models.PresenceOnline, time.Now()); err != nil {
		h.Log.Warn("presence heartbeat failed", zap.String("user_id", u.ID), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
