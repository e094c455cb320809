// internal/app/features/testimonials/handler.go
package testimonials

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/scholarhub/internal/app/store/testimonials"
	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/scholarhub/internal/app/system/inputval"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const maxListLimit = 100

// Handler serves scholar testimonials.
type Handler struct {
	Store    *testimonials.Store
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a testimonials Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    testimonials.New(db),
		Users:    userstore.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}

type createRequest struct {
	Testimonial string `json:"testimonial" validate:"required,notblank,max=2000" label:"Testimonial"`
	Rating      int    `json:"rating" validate:"min=1,max=5" label:"Rating"`
	Scholarship string `json:"scholarship" validate:"max=200" label:"Scholarship"`
}

// ServeCreate handles POST /api/testimonials. The author's name, course and
// campus come from their account, not the request.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	var req createRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if err := inputval.Check(req); err != nil {
		respond.Error(w, err)
		return
	}
	text := htmlsanitize.StripTags(req.Testimonial)
	if strings.TrimSpace(text) == "" {
		respond.Error(w, apperr.Validation("testimonial", "Testimonial is required."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t := models.Testimonial{
		UserID:      u.ID,
		Name:        u.Name,
		Testimonial: text,
		Rating:      req.Rating,
		Scholarship: htmlsanitize.StripTags(req.Scholarship),
	}
	if acct, err := h.Users.GetByID(ctx, u.ID); err == nil {
		t.Name = acct.Name()
		t.Course = acct.Course
		t.Campus = acct.Campus
	} else if !errors.Is(err, userstore.ErrNotFound) {
		h.Log.Warn("load testimonial author", zap.String("user_id", u.ID), zap.Error(err))
	}

	created, err := h.Store.Create(ctx, t)
	if err != nil {
		h.Log.Error("create testimonial", zap.String("user_id", u.ID), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not save your testimonial. Please try again."))
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// ServeList handles GET /api/testimonials?featured=true&limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	featured := query.Get(r, "featured") == "true"
	limit, _ := strconv.ParseInt(query.Get(r, "limit"), 10, 64)
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.List(ctx, featured, limit)
	if err != nil {
		h.Log.Error("list testimonials", zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load testimonials. Please try again."))
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"testimonials": list})
}

type featureRequest struct {
	Featured bool `json:"featured"`
}

// ServeFeature handles POST /api/admin/testimonials/{id}/feature.
func (h *Handler) ServeFeature(w http.ResponseWriter, r *http.Request) {
	admin, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Testimonial not found."))
		return
	}
	var req featureRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Store.SetFeatured(ctx, id, req.Featured)
	if errors.Is(err, testimonials.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Testimonial not found."))
		return
	}
	if err != nil {
		h.Log.Error("feature testimonial", zap.String("testimonial_id", id.Hex()), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not update the testimonial. Please try again."))
		return
	}
	h.AuditLog.TestimonialFeatured(r.Context(), r, admin.ID, id.Hex(), req.Featured)
	respond.JSON(w, http.StatusOK, map[string]any{"id": id.Hex(), "featuredOnLanding": req.Featured})
}
