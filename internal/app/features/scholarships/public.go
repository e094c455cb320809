package scholarships

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/scholarhub/internal/app/store/scholarships"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeList handles GET /api/scholarships.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.List(ctx)
	if err != nil {
		h.Log.Error("list scholarships", zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load scholarships. Please try again."))
		return
	}
	rows := make([]Row, 0, len(list))
	for _, s := range list {
		rows = append(rows, toRow(s))
	}
	respond.JSON(w, http.StatusOK, map[string]any{"scholarships": rows})
}

// ServeGet handles GET /api/scholarships/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	s, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, scholarships.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Scholarship not found."))
		return
	}
	if err != nil {
		h.Log.Error("load scholarship", zap.String("scholarship_id", id), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load the scholarship. Please try again."))
		return
	}
	respond.JSON(w, http.StatusOK, toRow(*s))
}
