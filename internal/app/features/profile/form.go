package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/scholarhub/internal/app/store/profileforms"
	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/scholarhub/internal/app/system/inputval"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/app/system/txn"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.uber.org/zap"
)

type profileResponse struct {
	Profile models.StudentProfileForm `json:"profile"`
	Saved   bool                      `json:"saved"`
}

// ServeGet handles GET /api/profile. Before the first save the form is
// prefilled from the account.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	form, err := h.Forms.Get(ctx, u.ID)
	if err == nil {
		respond.JSON(w, http.StatusOK, profileResponse{Profile: *form, Saved: true})
		return
	}
	if !errors.Is(err, profileforms.ErrNotFound) {
		h.Log.Error("load profile", zap.String("user_id", u.ID), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load your profile. Please try again."))
		return
	}

	prefill := models.StudentProfileForm{UserID: u.ID, FullName: u.Name}
	if acct, err := h.Users.GetByID(ctx, u.ID); err == nil {
		prefill.FullName = acct.Name()
		prefill.StudentNumber = acct.StudentNumber
		prefill.Course = acct.Course
		prefill.Major = acct.Major
		prefill.YearLevel = acct.YearLevel
		prefill.Campus = acct.Campus
	}
	respond.JSON(w, http.StatusOK, profileResponse{Profile: prefill})
}

type profileRequest struct {
	FullName       string `json:"fullName" validate:"required,notblank,max=120" label:"Full name"`
	StudentNumber  string `json:"studentNumber" validate:"max=40" label:"Student number"`
	Course         string `json:"course" validate:"max=120" label:"Course"`
	Major          string `json:"major" validate:"max=120" label:"Major"`
	YearLevel      string `json:"yearLevel" validate:"omitempty,yearlevel" label:"Year level"`
	Campus         string `json:"campus" validate:"max=120" label:"Campus"`
	ContactNumber  string `json:"contactNumber" validate:"max=30" label:"Contact number"`
	SecondaryEmail string `json:"secondaryEmail" validate:"omitempty,email" label:"Secondary email"`
	Address        string `json:"address" validate:"max=500" label:"Address"`
}

// ServePut handles PUT /api/profile. The profile form and the fields mirrored
// onto the user are written in one transaction.
func (h *Handler) ServePut(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, apperr.Unauthorized("Please sign in to continue."))
		return
	}

	var req profileRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if err := inputval.Check(req); err != nil {
		respond.Error(w, err)
		return
	}

	form := models.StudentProfileForm{
		UserID:         u.ID,
		FullName:       htmlsanitize.StripTags(req.FullName),
		StudentNumber:  strings.TrimSpace(req.StudentNumber),
		Course:         htmlsanitize.StripTags(req.Course),
		Major:          htmlsanitize.StripTags(req.Major),
		YearLevel:      req.YearLevel,
		Campus:         htmlsanitize.StripTags(req.Campus),
		ContactNumber:  strings.TrimSpace(req.ContactNumber),
		SecondaryEmail: strings.TrimSpace(req.SecondaryEmail),
		Address:        htmlsanitize.StripTags(req.Address),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var saved models.StudentProfileForm
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		if saved, err = h.Forms.Upsert(ctx, form); err != nil {
			return err
		}
		return h.Users.UpdateProfileMirror(ctx, u.ID, userstore.ProfileMirror{
			FullName:      form.FullName,
			StudentNumber: form.StudentNumber,
			Course:        form.Course,
			Major:         form.Major,
			YearLevel:     form.YearLevel,
			Campus:        form.Campus,
		})
	})
	if errors.Is(err, userstore.ErrNotFound) {
		respond.Error(w, apperr.NotFound("Your account could not be found. Please sign in again."))
		return
	}
	if err != nil {
		h.Log.Error("save profile", zap.String("user_id", u.ID), zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not save your profile. Please try again."))
		return
	}
	respond.JSON(w, http.StatusOK, profileResponse{Profile: saved, Saved: true})
}
