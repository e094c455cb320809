package tracking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/features/tracking"
	"github.com/dalemusser/scholarhub/internal/app/store/applications"
	"github.com/dalemusser/scholarhub/internal/app/system/metrics"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type fakeApps struct {
	byCode  map[string]models.Application
	err     error
	queried []string
}

func (f *fakeApps) GetByTrackerCode(_ context.Context, code string) (*models.Application, error) {
	f.queried = append(f.queried, code)
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byCode[code]
	if !ok {
		return nil, applications.ErrNotFound
	}
	return &a, nil
}

func (f *fakeApps) ListByUser(_ context.Context, userID string, _ int64) ([]models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Application
	for _, a := range f.byCode {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeScholarships struct {
	list []models.Scholarship
	err  error
}

func (f fakeScholarships) List(context.Context) ([]models.Scholarship, error) {
	return f.list, f.err
}

const code = "MINSU-2025-0314-004211"

func newService(apps *fakeApps, sch fakeScholarships) *tracking.Service {
	return tracking.NewService(apps, sch, zap.NewNop())
}

func TestTrack_InvalidFormatIssuesNoQuery(t *testing.T) {
	apps := &fakeApps{}
	svc := newService(apps, fakeScholarships{})
	before := promtest.ToFloat64(metrics.TrackLookups.WithLabelValues(metrics.TrackInvalid))

	for _, c := range []string{"abc", "MINSU-2025-0101-123", "", "MINSU-25-0101-123456"} {
		if _, err := svc.Track(context.Background(), c); !errors.Is(err, tracking.ErrInvalidCode) {
			t.Errorf("Track(%q) err = %v, want ErrInvalidCode", c, err)
		}
	}
	if len(apps.queried) != 0 {
		t.Errorf("malformed codes must not reach the store, got %v", apps.queried)
	}
	if got := promtest.ToFloat64(metrics.TrackLookups.WithLabelValues(metrics.TrackInvalid)) - before; got != 4 {
		t.Errorf("invalid counter delta = %v, want 4", got)
	}
}

func TestTrack_NotFoundIsDistinct(t *testing.T) {
	svc := newService(&fakeApps{byCode: map[string]models.Application{}}, fakeScholarships{})
	_, err := svc.Track(context.Background(), code)
	if !errors.Is(err, tracking.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if errors.Is(err, tracking.ErrInvalidCode) {
		t.Error("not-found must not look like a format error")
	}
}

func TestTrack_StoreFailure(t *testing.T) {
	svc := newService(&fakeApps{err: errors.New("connection reset")}, fakeScholarships{})
	_, err := svc.Track(context.Background(), code)
	if !errors.Is(err, tracking.ErrTrackFailed) {
		t.Fatalf("err = %v, want ErrTrackFailed", err)
	}
	if err.Error() != "Failed to track application. Please try again." {
		t.Errorf("message = %q", err.Error())
	}
}

func TestTrack_NormalizesAndResolvesBenefit(t *testing.T) {
	reviewed := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	apps := &fakeApps{byCode: map[string]models.Application{
		code: {
			TrackerCode:     code,
			UserID:          "google:1",
			ScholarshipName: "Merit Scholarship",
			Status:          "approved",
			AdminRemarks:    "Congratulations",
			ReviewedAt:      &reviewed,
		},
	}}
	live := fakeScholarships{list: []models.Scholarship{{Name: "Merit Scholarship", BenefitAmount: "₱100,000"}}}
	svc := newService(apps, live)

	v, err := svc.Track(context.Background(), "  minsu-2025-0314-004211 ")
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if apps.queried[0] != code {
		t.Errorf("queried %q, want normalized %q", apps.queried[0], code)
	}
	if v.Benefit.Amount != "₱100,000" {
		t.Errorf("live scholarship should beat the static table, got %q", v.Benefit.Amount)
	}
	if v.Status.Color != "emerald" || v.AdminRemarks != "Congratulations" || v.ReviewedAt == nil {
		t.Errorf("unexpected view: %+v", v)
	}
}

func TestTrack_CatalogueFailureFallsBackToStatic(t *testing.T) {
	apps := &fakeApps{byCode: map[string]models.Application{
		code: {TrackerCode: code, ScholarshipName: "Merit Scholarship", Status: "something-new"},
	}}
	svc := newService(apps, fakeScholarships{err: errors.New("timeout")})

	v, err := svc.Track(context.Background(), code)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if v.Benefit.Amount != "Up to ₱80,000/year (SUC)" {
		t.Errorf("Amount = %q", v.Benefit.Amount)
	}
	if v.Status.Status != models.StatusPending {
		t.Errorf("unknown status should present as pending, got %q", v.Status.Status)
	}
}

func TestForUser(t *testing.T) {
	apps := &fakeApps{byCode: map[string]models.Application{
		code:                     {TrackerCode: code, UserID: "google:1", ScholarshipName: "Unknown Grant"},
		"MINSU-2025-0314-000001": {TrackerCode: "MINSU-2025-0314-000001", UserID: "google:2"},
	}}
	svc := newService(apps, fakeScholarships{})

	views, err := svc.ForUser(context.Background(), "google:1")
	if err != nil {
		t.Fatalf("ForUser: %v", err)
	}
	if len(views) != 1 || views[0].Benefit.Amount != "N/A" {
		t.Errorf("views = %+v", views)
	}

	svc = newService(&fakeApps{err: errors.New("down")}, fakeScholarships{})
	if _, err := svc.ForUser(context.Background(), "google:1"); !errors.Is(err, tracking.ErrTrackFailed) {
		t.Errorf("err = %v", err)
	}
}
