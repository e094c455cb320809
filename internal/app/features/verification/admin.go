// internal/app/features/verification/admin.go
package verification

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/store/verifications"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/scholarhub/internal/app/system/inputval"
	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeAdminList handles GET /api/admin/verifications?status=.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	status := query.Get(r, "status")
	switch status {
	case "", models.VerificationPending, models.VerificationVerified, models.VerificationDeclined:
	default:
		respond.Error(w, apperr.Validation("status", "Unknown verification status."))
		return
	}
	limit, _ := strconv.ParseInt(query.Get(r, "limit"), 10, 64)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Verifications.List(ctx, status, limit)
	if err != nil {
		h.Log.Error("list verifications", zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load verifications. Please try again."))
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"verifications": list})
}

// ServeAdminGet handles GET /api/admin/verifications/{id}, including documents.
func (h *Handler) ServeAdminGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Verification not found."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Verifications.GetByID(ctx, id)
	if errors.Is(err, verifications.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Verification not found."))
		return
	}
	if err != nil {
		h.Log.Error("load verification", zap.String("verification_id", id.Hex()), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load the verification. Please try again."))
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

type reviewRequest struct {
	Status  string `json:"status" validate:"required,oneof=verified declined" label:"Status"`
	Remarks string `json:"remarks" validate:"max=2000" label:"Remarks"`
}

// ServeReview handles POST /api/admin/verifications/{id}/review.
func (h *Handler) ServeReview(w http.ResponseWriter, r *http.Request) {
	admin, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Verification not found."))
		return
	}
	var req reviewRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if err := inputval.Check(req); err != nil {
		respond.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Verifications.Review(ctx, id, req.Status, htmlsanitize.StripTags(req.Remarks), time.Now())
	if errors.Is(err, verifications.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Verification not found."))
		return
	}
	if err != nil {
		h.Log.Error("review verification", zap.String("verification_id", id.Hex()), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not save the review. Please try again."))
		return
	}

	h.AuditLog.VerificationReviewed(r.Context(), r, admin.ID, v.UserID, v.ID.Hex(), v.Status)

	var e mailer.Email
	if v.Status == models.VerificationVerified {
		e = mailer.BuildVerificationVerified(h.emailData(*v))
	} else {
		e = mailer.BuildVerificationDeclined(h.emailData(*v))
	}
	e.To = studentAddress(*v)
	h.Mailer.SendBestEffort(ctx, e)

	respond.JSON(w, http.StatusOK, v)
}
