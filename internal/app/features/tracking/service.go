// internal/app/features/tracking/service.go
package tracking

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/store/applications"
	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/appstatus"
	"github.com/dalemusser/scholarhub/internal/app/system/benefit"
	"github.com/dalemusser/scholarhub/internal/app/system/metrics"
	"github.com/dalemusser/scholarhub/internal/app/system/trackercode"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.uber.org/zap"
)

// Errors returned by Track. Each carries the message shown to the user.
var (
	ErrInvalidCode = apperr.Validation("code", "Invalid tracking code format. Please use MINSU-YYYY-MMDD-NNNNNN.")
	ErrNotFound    = apperr.NotFound("No application found with this tracking code.")
	ErrTrackFailed = apperr.Unavailable("Failed to track application. Please try again.")
)

// ApplicationSource is the read side of the applications store.
type ApplicationSource interface {
	GetByTrackerCode(ctx context.Context, code string) (*models.Application, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Application, error)
}

// ScholarshipSource lists the live scholarship catalogue.
type ScholarshipSource interface {
	List(ctx context.Context) ([]models.Scholarship, error)
}

// View is what a student sees when tracking an application.
type View struct {
	TrackerCode     string                 `json:"trackerCode"`
	ScholarshipName string                 `json:"scholarshipName"`
	SubmittedAt     time.Time              `json:"submittedAt"`
	Status          appstatus.Presentation `json:"status"`
	Benefit         benefit.Result         `json:"benefit"`
	AdminRemarks    string                 `json:"adminRemarks,omitempty"`
	ReviewedAt      *time.Time             `json:"reviewedAt,omitempty"`
}

// Service answers tracking lookups. It never writes.
type Service struct {
	Apps         ApplicationSource
	Scholarships ScholarshipSource
	Static       benefit.Table
	Log          *zap.Logger
}

func NewService(apps ApplicationSource, scholarships ScholarshipSource, logger *zap.Logger) *Service {
	return &Service{Apps: apps, Scholarships: scholarships, Static: benefit.Static, Log: logger}
}

// Track looks up one application by tracking code. Malformed codes are
// rejected before any query is made.
func (s *Service) Track(ctx context.Context, code string) (View, error) {
	normalized, err := trackercode.Validate(code)
	if err != nil {
		metrics.TrackLookups.WithLabelValues(metrics.TrackInvalid).Inc()
		return View{}, ErrInvalidCode
	}

	app, err := s.Apps.GetByTrackerCode(ctx, normalized)
	switch {
	case errors.Is(err, applications.ErrNotFound):
		metrics.TrackLookups.WithLabelValues(metrics.TrackNotFound).Inc()
		return View{}, ErrNotFound
	case err != nil:
		s.Log.Error("track application lookup failed", zap.String("tracker_code", normalized), zap.Error(err))
		metrics.TrackLookups.WithLabelValues(metrics.TrackError).Inc()
		return View{}, ErrTrackFailed
	}

	metrics.TrackLookups.WithLabelValues(metrics.TrackOK).Inc()
	return s.build(*app, s.live(ctx)), nil
}

// ForUser returns the user's applications, newest first, in the same shape.
func (s *Service) ForUser(ctx context.Context, userID string) ([]View, error) {
	apps, err := s.Apps.ListByUser(ctx, userID, 50)
	if err != nil {
		s.Log.Error("list user applications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, ErrTrackFailed
	}
	live := s.live(ctx)
	out := make([]View, 0, len(apps))
	for _, a := range apps {
		out = append(out, s.build(a, live))
	}
	return out, nil
}

// Build renders a view from an application and the live catalogue.
func (s *Service) Build(a models.Application, live []models.Scholarship) View {
	return s.build(a, live)
}

func (s *Service) build(a models.Application, live []models.Scholarship) View {
	return View{
		TrackerCode:     a.TrackerCode,
		ScholarshipName: a.ScholarshipName,
		SubmittedAt:     a.SubmittedAt,
		Status:          appstatus.Present(a.Status),
		Benefit:         benefit.Resolve(benefit.FromApplication(a), live, s.Static),
		AdminRemarks:    a.AdminRemarks,
		ReviewedAt:      a.ReviewedAt,
	}
}

// live loads the catalogue for benefit resolution. A failure here degrades to
// the static table rather than failing the lookup.
func (s *Service) live(ctx context.Context) []models.Scholarship {
	if s.Scholarships == nil {
		return nil
	}
	list, err := s.Scholarships.List(ctx)
	if err != nil {
		s.Log.Warn("scholarship catalogue unavailable for benefit resolution", zap.Error(err))
		return nil
	}
	return list
}
