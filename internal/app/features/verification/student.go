// internal/app/features/verification/student.go
package verification

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/store/verifications"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/dataurl"
	"github.com/dalemusser/scholarhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/scholarhub/internal/app/system/inputval"
	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"github.com/dalemusser/scholarhub/internal/app/system/metrics"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/app/system/verifyflow"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type statusResponse struct {
	View          string     `json:"view"`
	Status        string     `json:"status,omitempty"`
	SubmittedAt   *time.Time `json:"submittedAt,omitempty"`
	ReviewRemarks string     `json:"reviewRemarks,omitempty"`
	YearLevels    []string   `json:"yearLevels"`
}

// ServeStatus handles GET /api/verification. It tells the client whether to
// show the wizard or the terminal status screen.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	latest, err := h.latest(ctx, u.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := statusResponse{View: verifyflow.View(latest), YearLevels: verifyflow.YearLevels}
	if latest != nil {
		resp.Status = latest.Status
		resp.SubmittedAt = &latest.SubmittedAt
		resp.ReviewRemarks = latest.ReviewRemarks
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) latest(ctx context.Context, userID string) (*models.Verification, error) {
	v, err := h.Verifications.Latest(ctx, userID)
	if errors.Is(err, verifications.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		h.Log.Error("load latest verification", zap.String("user_id", userID), zap.Error(err))
		return nil, apperr.Unavailable("Could not load your verification status. Please try again.")
	}
	return v, nil
}

type stepRequest struct {
	YearLevel  string `json:"yearLevel"`
	Address    string `json:"address"`
	HasIDFront bool   `json:"hasIdFront"`
	HasIDBack  bool   `json:"hasIdBack"`
	HasCOR     bool   `json:"hasCor"`
}

// ServeValidateStep handles POST /api/verification/validate?step=N so the
// wizard can check a step before moving on.
func (h *Handler) ServeValidateStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(query.Get(r, "step"))
	if err != nil {
		respond.Error(w, apperr.Validation("step", "Unknown verification step."))
		return
	}
	var req stepRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	in := verifyflow.Input{
		YearLevel:  req.YearLevel,
		Address:    req.Address,
		HasIDFront: req.HasIDFront,
		HasIDBack:  req.HasIDBack,
		HasCOR:     req.HasCOR,
	}
	if err := verifyflow.ValidateStep(step, in); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"valid": true, "step": step})
}

type detailsForm struct {
	SecondaryEmail string `json:"secondaryEmail" validate:"omitempty,email" label:"Secondary email"`
	StudentNumber  string `json:"studentNumber" validate:"max=40" label:"Student number"`
	Course         string `json:"course" validate:"max=120" label:"Course"`
	Campus         string `json:"campus" validate:"max=120" label:"Campus"`
	Address        string `json:"address" validate:"max=500" label:"Address"`
}

// ServeSubmit handles POST /api/verification (multipart/form-data).
//
// Every step is validated again here. The three documents are encoded as
// data URIs on the record. The notification emails are sent after the record
// is stored and never fail the request.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
		respond.Error(w, apperr.Validation("", "Upload is too large or not a valid form."))
		return
	}

	if step, _ := strconv.Atoi(r.FormValue("step")); step != verifyflow.StepReview {
		respond.Error(w, apperr.Validation("step", "Please review your details before submitting."))
		return
	}

	files := map[string]dataurl.File{}
	for _, field := range []string{"idFront", "idBack", "cor"} {
		f, err := dataurl.FromForm(r.MultipartForm, field)
		if errors.Is(err, dataurl.ErrMissing) {
			continue
		}
		if err != nil {
			h.Log.Warn("read verification upload", zap.String("field", field), zap.Error(err))
			respond.Error(w, apperr.Validation(field, "Could not read the uploaded file."))
			return
		}
		files[field] = f
	}

	in := verifyflow.Input{
		YearLevel:  strings.TrimSpace(r.FormValue("yearLevel")),
		Address:    htmlsanitize.StripTags(r.FormValue("address")),
		HasIDFront: files["idFront"].URI != "",
		HasIDBack:  files["idBack"].URI != "",
		HasCOR:     files["cor"].URI != "",
	}
	if err := verifyflow.ValidateAll(in); err != nil {
		respond.Error(w, err)
		return
	}
	details := detailsForm{
		SecondaryEmail: strings.TrimSpace(r.FormValue("secondaryEmail")),
		StudentNumber:  strings.TrimSpace(r.FormValue("studentNumber")),
		Course:         htmlsanitize.StripTags(r.FormValue("course")),
		Campus:         htmlsanitize.StripTags(r.FormValue("campus")),
		Address:        in.Address,
	}
	if err := inputval.Check(details); err != nil {
		respond.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	latest, err := h.latest(ctx, u.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if verifyflow.Blocks(latest) {
		respond.Error(w, apperr.Conflict("You already have a verification on file."))
		return
	}

	fullName, email := u.Name, u.Email
	if acct, err := h.Users.GetByID(ctx, u.ID); err == nil {
		fullName = acct.Name()
		email = acct.Email
		if details.StudentNumber == "" {
			details.StudentNumber = acct.StudentNumber
		}
		if details.Course == "" {
			details.Course = acct.Course
		}
		if details.Campus == "" {
			details.Campus = acct.Campus
		}
	}

	v, err := h.Verifications.Create(ctx, models.Verification{
		UserID:         u.ID,
		FullName:       fullName,
		Email:          email,
		SecondaryEmail: details.SecondaryEmail,
		StudentNumber:  details.StudentNumber,
		Course:         details.Course,
		Campus:         details.Campus,
		YearLevel:      in.YearLevel,
		Address:        in.Address,
		IDFront:        files["idFront"].URI,
		IDBack:         files["idBack"].URI,
		COR:            files["cor"].URI,
		Status:         models.VerificationPending,
		SubmittedAt:    time.Now().UTC(),
	})
	if err != nil {
		h.Log.Error("create verification", zap.String("user_id", u.ID), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not submit your verification. Please try again."))
		return
	}
	metrics.VerificationsSubmitted.Inc()
	h.Log.Info("verification submitted", zap.String("user_id", u.ID), zap.String("verification_id", v.ID.Hex()))

	data := h.emailData(v)
	receipt := mailer.BuildVerificationSubmitted(data)
	receipt.To = studentAddress(v)
	studentSent := h.Mailer.SendBestEffort(ctx, receipt)

	adminSent := false
	if h.AdminEmail != "" {
		notice := mailer.BuildVerificationSubmittedAdmin(data)
		notice.To = h.AdminEmail
		adminSent = h.Mailer.SendBestEffort(ctx, notice)
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"id":          v.ID.Hex(),
		"status":      v.Status,
		"submittedAt": v.SubmittedAt,
		"view":        verifyflow.ViewTerminal,
		"emailed":     map[string]bool{"student": studentSent, "admin": adminSent},
	})
}
