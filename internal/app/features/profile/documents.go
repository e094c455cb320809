package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/scholarhub/internal/app/store/documents"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/dataurl"
	"github.com/dalemusser/scholarhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeListDocuments handles GET /api/documents. Content is left out.
func (h *Handler) ServeListDocuments(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Documents.ListByUser(ctx, u.ID)
	if err != nil {
		h.Log.Error("list documents", zap.String("user_id", u.ID), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load your documents. Please try again."))
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"documents": list})
}

// ServeGetDocument handles GET /api/documents/{id}, including the content.
func (h *Handler) ServeGetDocument(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Document not found."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Documents.Get(ctx, u.ID, id)
	if errors.Is(err, documents.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Document not found."))
		return
	}
	if err != nil {
		h.Log.Error("load document", zap.String("document_id", id.Hex()), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load the document. Please try again."))
		return
	}
	respond.JSON(w, http.StatusOK, d)
}

// ServeUpload handles POST /api/documents (multipart: file, category).
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxDocument)
	if err := r.ParseMultipartForm(h.MaxDocument); err != nil {
		respond.Error(w, apperr.Validation("file", "Upload is too large or not a valid form."))
		return
	}
	f, err := dataurl.FromForm(r.MultipartForm, "file")
	if errors.Is(err, dataurl.ErrMissing) {
		respond.Error(w, apperr.Validation("file", "Please choose a file to upload."))
		return
	}
	if err != nil {
		h.Log.Warn("read document upload", zap.String("user_id", u.ID), zap.Error(err))
		respond.Error(w, apperr.Validation("file", "Could not read the uploaded file."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Documents.Create(ctx, models.StudentDocument{
		UserID:      u.ID,
		Name:        htmlsanitize.StripTags(f.Name),
		Category:    htmlsanitize.StripTags(r.FormValue("category")),
		ContentType: f.ContentType,
		Size:        f.Size,
		DataURI:     f.URI,
	})
	if err != nil {
		h.Log.Error("store document", zap.String("user_id", u.ID), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not store the document. Please try again."))
		return
	}
	d.DataURI = ""
	respond.JSON(w, http.StatusCreated, d)
}

// ServeDeleteDocument handles DELETE /api/documents/{id}. Only the owner can
// delete; other users' ids look like missing documents.
func (h *Handler) ServeDeleteDocument(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.NotFound("Document not found."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Documents.Delete(ctx, u.ID, id)
	if errors.Is(err, documents.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Document not found."))
		return
	}
	if err != nil {
		h.Log.Error("delete document", zap.String("document_id", id.Hex()), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not delete the document. Please try again."))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
