// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/store/announcements"
	"github.com/dalemusser/scholarhub/internal/app/store/applications"
	metricsstore "github.com/dalemusser/scholarhub/internal/app/store/metrics"
	"github.com/dalemusser/scholarhub/internal/app/store/scholarships"
	"github.com/dalemusser/scholarhub/internal/app/store/verifications"
	"github.com/dalemusser/scholarhub/internal/app/system/annstatus"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/benefit"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"github.com/dalemusser/scholarhub/internal/app/system/timeouts"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB            *mongo.Database
	Apps          *applications.Store
	Verifications *verifications.Store
	Scholarships  *scholarships.Store
	Announcements *announcements.Store
	Log           *zap.Logger

	now func() time.Time
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Apps:          applications.New(db),
		Verifications: verifications.New(db, logger),
		Scholarships:  scholarships.New(db),
		Announcements: announcements.New(db),
		Log:           logger,
		now:           time.Now,
	}
}

// ScholarshipRow is the application count for one scholarship.
type ScholarshipRow struct {
	ScholarshipID   string         `json:"scholarshipId"`
	ScholarshipName string         `json:"scholarshipName"`
	Applications    int64          `json:"applications"`
	Benefit         benefit.Result `json:"resolvedBenefit"`
}

// Summary is the admin dashboard. Everything is derived at request time.
type Summary struct {
	Totals                     metricsstore.Counts        `json:"totals"`
	ApplicationsByStatus       map[string]int64           `json:"applicationsByStatus"`
	VerificationsByStatus      map[string]int64           `json:"verificationsByStatus"`
	ApplicationsPerScholarship []ScholarshipRow           `json:"applicationsPerScholarship"`
	AnnouncementsByStatus      map[annstatus.Status]int64 `json:"announcementsByStatus"`
}

// ServeDashboard handles GET /api/admin/dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	s, err := h.summarize(ctx)
	if err != nil {
		h.Log.Error("build dashboard", zap.Error(err))
		respond.Error(w, apperr.Unavailable("Could not load the dashboard. Please try again."))
		return
	}
	respond.JSON(w, http.StatusOK, s)
}

func (h *Handler) summarize(ctx context.Context) (Summary, error) {
	s := Summary{
		Totals:                metricsstore.FetchDashboardCounts(ctx, h.DB),
		ApplicationsByStatus:  map[string]int64{},
		VerificationsByStatus: map[string]int64{},
		AnnouncementsByStatus: map[annstatus.Status]int64{annstatus.Active: 0, annstatus.Incoming: 0, annstatus.Archived: 0},
	}

	for _, st := range models.ApplicationStatuses {
		s.ApplicationsByStatus[st] = 0
	}
	apps, err := h.Apps.CountByStatus(ctx)
	if err != nil {
		return Summary{}, err
	}
	for st, n := range apps {
		s.ApplicationsByStatus[st] += n
	}

	for _, st := range []string{models.VerificationPending, models.VerificationVerified, models.VerificationDeclined} {
		s.VerificationsByStatus[st] = 0
	}
	vers, err := h.Verifications.CountByStatus(ctx)
	if err != nil {
		return Summary{}, err
	}
	for st, n := range vers {
		s.VerificationsByStatus[st] += n
	}

	live, err := h.Scholarships.List(ctx)
	if err != nil {
		h.Log.Warn("dashboard: scholarship catalogue unavailable, using static benefits", zap.Error(err))
		live = nil
	}
	per, err := h.Apps.CountByScholarship(ctx)
	if err != nil {
		return Summary{}, err
	}
	s.ApplicationsPerScholarship = make([]ScholarshipRow, 0, len(per))
	for _, p := range per {
		s.ApplicationsPerScholarship = append(s.ApplicationsPerScholarship, ScholarshipRow{
			ScholarshipID:   p.ScholarshipID,
			ScholarshipName: p.ScholarshipName,
			Applications:    p.Count,
			Benefit: benefit.Resolve(benefit.Target{
				ScholarshipID:   p.ScholarshipID,
				ScholarshipName: p.ScholarshipName,
			}, live, benefit.Static),
		})
	}

	anns, err := h.Announcements.List(ctx, time.Time{})
	if err != nil {
		return Summary{}, err
	}
	now := h.now()
	for _, a := range anns {
		s.AnnouncementsByStatus[annstatus.Of(a, now)]++
	}
	return s, nil
}
