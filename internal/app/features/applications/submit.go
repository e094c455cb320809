// internal/app/features/applications/submit.go
package applications

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/features/tracking"
	appstore "github.com/dalemusser/scholarhub/internal/app/store/applications"
	"github.com/dalemusser/scholarhub/internal/app/store/scholarships"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/inputval"
	"github.com/dalemusser/scholarhub/internal/app/system/metrics"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/app/system/txn"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.uber.org/zap"
)

type submitRequest struct {
	ScholarshipID string                `json:"scholarshipId" validate:"required,objectid" label:"Scholarship"`
	FormData      map[string]string     `json:"formData" validate:"required" label:"Application form"`
	Files         []models.AttachedFile `json:"files" validate:"omitempty,dive"`
}

type submitResponse struct {
	TrackerCode string        `json:"trackerCode"`
	Application tracking.View `json:"application"`
}

// ServeSubmit handles POST /api/applications.
//
// The application, its form snapshot and the user's completed flag are
// written together in one transaction. A tracker code collision aborts the
// transaction and is retried with a fresh code.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	var req submitRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if err := inputval.Check(req); err != nil {
		respond.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sch, err := h.Scholarships.GetByID(ctx, req.ScholarshipID)
	if errors.Is(err, scholarships.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Scholarship not found."))
		return
	}
	if err != nil {
		h.Log.Error("load scholarship for application", zap.String("scholarship_id", req.ScholarshipID), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not submit your application. Please try again."))
		return
	}

	applied, err := h.Apps.HasApplied(ctx, u.ID, req.ScholarshipID)
	if err != nil {
		h.Log.Error("check existing application", zap.String("user_id", u.ID), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not submit your application. Please try again."))
		return
	}
	if applied {
		respond.Error(w, apperr.Conflict("You have already applied for this scholarship."))
		return
	}

	app, err := h.submit(ctx, u.ID, *sch, req, time.Now().UTC())
	if err != nil {
		h.Log.Error("submit application failed",
			zap.String("user_id", u.ID),
			zap.String("scholarship_id", req.ScholarshipID),
			zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not submit your application. Please try again."))
		return
	}

	metrics.ApplicationsSubmitted.Inc()
	h.Log.Info("application submitted",
		zap.String("user_id", u.ID),
		zap.String("tracker_code", app.TrackerCode),
		zap.String("scholarship", app.ScholarshipName))

	respond.JSON(w, http.StatusCreated, submitResponse{
		TrackerCode: app.TrackerCode,
		Application: h.Tracking.Build(app, []models.Scholarship{*sch}),
	})
}

func (h *Handler) submit(ctx context.Context, userID string, sch models.Scholarship, req submitRequest, now time.Time) (models.Application, error) {
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := h.newCode(now)
		if err != nil {
			return models.Application{}, err
		}

		var app models.Application
		err = txn.Run(ctx, h.DB, h.Log, func(tctx context.Context) error {
			created, err := h.Apps.Create(tctx, models.Application{
				UserID:          userID,
				ScholarshipID:   sch.ID.Hex(),
				ScholarshipName: sch.Name,
				TrackerCode:     code,
				Status:          models.StatusPending,
				SubmittedAt:     now,
				BenefitAmount:   firstNonEmpty(sch.BenefitAmount, sch.Amount),
				Benefit:         sch.Benefit,
				FormData:        req.FormData,
				Files:           req.Files,
			})
			if err != nil {
				return err
			}
			if _, err := h.Forms.Create(tctx, models.ApplicationForm{
				UserID:        userID,
				ApplicationID: created.ID,
				ScholarshipID: created.ScholarshipID,
				FormData:      req.FormData,
				SubmittedAt:   now,
			}); err != nil {
				return err
			}
			if err := h.Users.SetApplicationFormCompleted(tctx, userID); err != nil {
				return err
			}
			app = created
			return nil
		})
		if err == nil {
			return app, nil
		}
		if !errors.Is(err, appstore.ErrDuplicateTrackerCode) {
			return models.Application{}, err
		}
		h.Log.Warn("tracker code collision, regenerating",
			zap.String("tracker_code", code),
			zap.Int("attempt", attempt+1))
		lastErr = err
	}
	return models.Application{}, lastErr
}

// ServeMine handles GET /api/applications/mine.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	views, err := h.Tracking.ForUser(ctx, u.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"applications": views})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
