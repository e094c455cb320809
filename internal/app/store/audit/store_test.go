package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/store/audit"
	"github.com/dalemusser/scholarhub/internal/testutil"
)

func TestStore_LogAndGetByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    "google:123",
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, "google:123", 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() || events[0].CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be set")
	}
}

func TestStore_Query_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	seed := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: "google:a", Success: true, CreatedAt: base},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginDomainNotAllowed, FailureReason: "domain_not_allowed", CreatedAt: base.Add(time.Minute)},
		{Category: audit.CategoryAdmin, EventType: audit.EventApplicationReviewed, ActorID: "google:admin", UserID: "google:a", Success: true, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range seed {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int
	}{
		{"all", audit.QueryFilter{}, 3},
		{"category", audit.QueryFilter{Category: audit.CategoryAdmin}, 1},
		{"user", audit.QueryFilter{UserID: "google:a"}, 2},
		{"event type", audit.QueryFilter{EventType: audit.EventLoginDomainNotAllowed}, 1},
		{"since", audit.QueryFilter{StartTime: ptr(base.Add(90 * time.Second))}, 1},
		{"limit", audit.QueryFilter{Limit: 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}

	recent, _ := store.GetRecent(ctx, 1)
	if len(recent) != 1 || recent[0].EventType != audit.EventApplicationReviewed {
		t.Errorf("GetRecent should return newest first, got %+v", recent)
	}

	rejected, err := store.GetRejectedLogins(ctx, base, 10)
	if err != nil {
		t.Fatalf("GetRejectedLogins: %v", err)
	}
	if len(rejected) != 1 {
		t.Errorf("expected 1 rejected login, got %d", len(rejected))
	}

	n, err := store.Count(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v; want 2", n, err)
	}
}

func ptr[T any](v T) *T { return &v }
