package scholarships

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/scholarhub/internal/app/store/scholarships"
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

type requirementInput struct {
	Label    string `json:"label" validate:"required,notblank,max=200" label:"Requirement"`
	Required bool   `json:"required"`
}

type scholarshipRequest struct {
	Name          string             `json:"name" validate:"required,notblank,max=200" label:"Name"`
	Description   string             `json:"description" validate:"max=20000" label:"Description"`
	Benefit       string             `json:"benefit" validate:"max=500" label:"Benefit"`
	BenefitAmount string             `json:"benefitAmount" validate:"max=200" label:"Benefit amount"`
	Requirements  []requirementInput `json:"requirements" validate:"dive"`
}

func (req scholarshipRequest) toModel() (models.Scholarship, error) {
	if err := inputval.Check(req); err != nil {
		return models.Scholarship{}, err
	}
	s := models.Scholarship{
		Name:          strings.TrimSpace(htmlsanitize.StripTags(req.Name)),
		Description:   htmlsanitize.Sanitize(req.Description),
		Benefit:       htmlsanitize.StripTags(req.Benefit),
		BenefitAmount: htmlsanitize.StripTags(req.BenefitAmount),
	}
	if s.Name == "" {
		return models.Scholarship{}, apperr.Validation("name", "Name is required.")
	}
	for _, rq := range req.Requirements {
		s.Requirements = append(s.Requirements, models.Requirement{
			Label:    htmlsanitize.StripTags(rq.Label),
			Required: rq.Required,
		})
	}
	return s, nil
}

// ServeCreate handles POST /api/admin/scholarships.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	admin, _ := auth.CurrentUser(r)

	var req scholarshipRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	s, err := req.toModel()
	if err != nil {
		respond.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, s)
	if errors.Is(err, scholarships.ErrDuplicateName) {
		respond.Error(w, apperr.Conflict("A scholarship with that name already exists."))
		return
	}
	if err != nil {
		h.Log.Error("create scholarship", zap.String("name", s.Name), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not save the scholarship. Please try again."))
		return
	}
	h.AuditLog.ScholarshipSaved(r.Context(), r, admin.ID, created.ID.Hex(), created.Name)
	respond.JSON(w, http.StatusCreated, toRow(created))
}

// ServeUpdate handles PUT /api/admin/scholarships/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	admin, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Scholarship not found."))
		return
	}
	var req scholarshipRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	s, err := req.toModel()
	if err != nil {
		respond.Error(w, err)
		return
	}
	s.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Store.Update(ctx, s)
	switch {
	case errors.Is(err, scholarships.ErrNotFound):
		respond.Error(w, apperr.NotFound("Scholarship not found."))
		return
	case errors.Is(err, scholarships.ErrDuplicateName):
		respond.Error(w, apperr.Conflict("A scholarship with that name already exists."))
		return
	case err != nil:
		h.Log.Error("update scholarship", zap.String("scholarship_id", id.Hex()), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not save the scholarship. Please try again."))
		return
	}
	h.AuditLog.ScholarshipSaved(r.Context(), r, admin.ID, id.Hex(), updated.Name)
	respond.JSON(w, http.StatusOK, toRow(*updated))
}
