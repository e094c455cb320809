package announcements

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/store/announcements"
	"github.com/dalemusser/scholarhub/internal/app/store/audit"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/scholarhub/internal/app/system/inputval"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type announcementRequest struct {
	Title              string      `json:"title" validate:"required,notblank,max=200" label:"Title"`
	Description        string      `json:"description" validate:"max=20000" label:"Description"`
	TargetScholarships interface{} `json:"targetScholarships"`
	TargetYearLevel    string      `json:"targetYearLevel" validate:"max=40" label:"Year level"`
	StartDate          *time.Time  `json:"startDate"`
	EndDate            time.Time   `json:"endDate"`
	Venue              string      `json:"venue" validate:"max=200" label:"Venue"`
}

// toModel validates req and returns the announcement to store. Targets are
// normalized to the "all" sentinel or a list of names.
func (req announcementRequest) toModel() (models.Announcement, error) {
	if err := inputval.Check(req); err != nil {
		return models.Announcement{}, err
	}
	if req.EndDate.IsZero() {
		return models.Announcement{}, apperr.Validation("endDate", "End date is required.")
	}
	if req.StartDate != nil && req.StartDate.After(req.EndDate) {
		return models.Announcement{}, apperr.Validation("startDate", "Start date must be before the end date.")
	}

	a := models.Announcement{
		Title:           htmlsanitize.StripTags(req.Title),
		Description:     htmlsanitize.Sanitize(req.Description),
		TargetYearLevel: strings.TrimSpace(req.TargetYearLevel),
		EndDate:         req.EndDate.UTC(),
		Venue:           htmlsanitize.StripTags(req.Venue),
	}
	if req.StartDate != nil {
		start := req.StartDate.UTC()
		a.StartDate = &start
	}
	names, everyone := models.Announcement{TargetScholarships: req.TargetScholarships}.Targets()
	if everyone {
		a.TargetScholarships = models.TargetAll
	} else {
		a.TargetScholarships = names
	}
	return a, nil
}

// ServeCreate handles POST /api/admin/announcements.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	admin, _ := auth.CurrentUser(r)

	var req announcementRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	a, err := req.toModel()
	if err != nil {
		respond.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, a)
	if err != nil {
		h.Log.Error("create announcement", zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not save the announcement. Please try again."))
		return
	}
	h.AuditLog.AnnouncementChanged(r.Context(), r, admin.ID, audit.EventAnnouncementCreated, created.ID.Hex(), created.Title)
	respond.JSON(w, http.StatusCreated, created)
}

// ServeUpdate handles PUT /api/admin/announcements/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	admin, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Announcement not found."))
		return
	}
	var req announcementRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	a, err := req.toModel()
	if err != nil {
		respond.Error(w, err)
		return
	}
	a.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Store.Update(ctx, a)
	if errors.Is(err, announcements.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Announcement not found."))
		return
	}
	if err != nil {
		h.Log.Error("update announcement", zap.String("announcement_id", id.Hex()), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not save the announcement. Please try again."))
		return
	}
	h.AuditLog.AnnouncementChanged(r.Context(), r, admin.ID, audit.EventAnnouncementUpdated, id.Hex(), updated.Title)
	respond.JSON(w, http.StatusOK, updated)
}

// ServeDelete handles DELETE /api/admin/announcements/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	admin, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Announcement not found."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	existing, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, announcements.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Announcement not found."))
		return
	}
	if err == nil {
		err = h.Store.Delete(ctx, id)
	}
	if errors.Is(err, announcements.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Announcement not found."))
		return
	}
	if err != nil {
		h.Log.Error("delete announcement", zap.String("announcement_id", id.Hex()), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not delete the announcement. Please try again."))
		return
	}
	h.AuditLog.AnnouncementChanged(r.Context(), r, admin.ID, audit.EventAnnouncementDeleted, id.Hex(), existing.Title)
	w.WriteHeader(http.StatusNoContent)
}
