// internal/app/features/applications/admin.go
package applications

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	appstore "github.com/dalemusser/scholarhub/internal/app/store/applications"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/appstatus"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/benefit"
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

// adminRow is one line of the admin applications list.
type adminRow struct {
	models.Application
	Presentation appstatus.Presentation `json:"presentation"`
	Resolved     benefit.Result         `json:"resolvedBenefit"`
}

// ServeAdminList handles GET /api/admin/applications?status=&limit=.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	status := query.Get(r, "status")
	if status != "" && !appstatus.IsKnown(status) {
		respond.Error(w, apperr.Validation("status", "Unknown application status."))
		return
	}
	limit, _ := strconv.ParseInt(query.Get(r, "limit"), 10, 64)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	apps, err := h.Apps.List(ctx, appstore.ListFilter{Status: status, Limit: limit})
	if err != nil {
		h.Log.Error("list applications", zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load applications. Please try again."))
		return
	}
	live, err := h.Scholarships.List(ctx)
	if err != nil {
		h.Log.Warn("scholarship catalogue unavailable for admin list", zap.Error(err))
	}

	rows := make([]adminRow, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, adminRow{
			Application:  a,
			Presentation: appstatus.Present(a.Status),
			Resolved:     benefit.Resolve(benefit.FromApplication(a), live, benefit.Static),
		})
	}
	respond.JSON(w, http.StatusOK, map[string]any{"applications": rows})
}

type reviewRequest struct {
	Status       string `json:"status" validate:"required,appstatus" label:"Status"`
	AdminRemarks string `json:"adminRemarks" validate:"max=2000" label:"Remarks"`
}

// ServeReview handles POST /api/admin/applications/{id}/review.
// The applicant is emailed on a best-effort basis after the write.
func (h *Handler) ServeReview(w http.ResponseWriter, r *http.Request) {
	admin, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Application not found."))
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
	remarks := htmlsanitize.StripTags(req.AdminRemarks)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Apps.Review(ctx, id, req.Status, remarks, admin.ID, time.Now())
	if errors.Is(err, appstore.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Application not found."))
		return
	}
	if err != nil {
		h.Log.Error("review application", zap.String("application_id", id.Hex()), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not save the review. Please try again."))
		return
	}

	h.AuditLog.ApplicationReviewed(r.Context(), r, admin.ID, app.UserID, app.TrackerCode, app.Status)
	h.notifyApplicant(ctx, *app)

	respond.JSON(w, http.StatusOK, adminRow{
		Application:  *app,
		Presentation: appstatus.Present(app.Status),
		Resolved:     benefit.Resolve(benefit.FromApplication(*app), nil, benefit.Static),
	})
}

func (h *Handler) notifyApplicant(ctx context.Context, app models.Application) {
	if h.Mailer == nil {
		return
	}
	u, err := h.Users.GetByID(ctx, app.UserID)
	if err != nil {
		h.Log.Warn("applicant not found for review email", zap.String("user_id", app.UserID), zap.Error(err))
		return
	}
	e := mailer.BuildApplicationReviewed(mailer.ApplicationReviewedData{
		SiteName:        h.SiteName,
		StudentName:     u.Name(),
		ScholarshipName: app.ScholarshipName,
		TrackerCode:     app.TrackerCode,
		StatusLabel:     appstatus.Present(app.Status).Label,
		Remarks:         app.AdminRemarks,
		TrackURL:        h.BaseURL + "/track?code=" + app.TrackerCode,
	})
	e.To = u.Email
	h.Mailer.SendBestEffort(ctx, e)
}
