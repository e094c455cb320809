package announcements_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/features/announcements"
	"github.com/dalemusser/scholarhub/internal/app/store/audit"
	"github.com/dalemusser/scholarhub/internal/app/system/annstatus"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/scholarhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var now = time.Date(2025, time.June, 10, 4, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) (*announcements.Handler, *mongo.Database, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	audits := auditlog.New(audit.New(db), zap.NewNop(), auditlog.Config{Admin: "db"})
	h := announcements.NewHandler(db, audits, zap.NewNop())
	h.SetNow(func() time.Time { return now })
	return h, db, testutil.NewFixtures(t, db)
}

type listBody struct {
	Month         string `json:"month"`
	Announcements []struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	} `json:"announcements"`
}

func list(t *testing.T, serve http.HandlerFunc, target string) listBody {
	t.Helper()
	rec := testutil.NewRecorder()
	serve(rec, httptest.NewRequest(http.MethodGet, target, nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var body listBody
	testutil.DecodeJSON(t, rec, &body)
	return body
}

func statuses(b listBody) map[string]string {
	out := map[string]string{}
	for _, a := range b.Announcements {
		out[a.Title] = a.Status
	}
	return out
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name        string
		targets     interface{}
		yearLevel   string
		scholarship string
		filterYear  string
		want        bool
	}{
		{"no filters", []string{"TES"}, "1st Year", "", "", true},
		{"all sentinel", "all", "", "Merit Scholarship", "", true},
		{"allScholarships sentinel", "allScholarships", "", "TES", "", true},
		{"empty array", []string{}, "", "TES", "", true},
		{"listed", []string{"TES", "CHED Merit"}, "", "ched merit", "", true},
		{"not listed", []string{"TES"}, "", "CHED Merit", "", false},
		{"year matches", "all", "2nd Year", "", "2nd Year", true},
		{"year differs", "all", "2nd Year", "", "4th Year", false},
		{"any year", "all", "All Year Levels", "", "4th Year", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := models.Announcement{TargetScholarships: tt.targets, TargetYearLevel: tt.yearLevel}
			if got := announcements.Matches(a, tt.scholarship, tt.filterYear); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServeList_Views(t *testing.T) {
	h, _, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	future := now.Add(72 * time.Hour)
	fx.CreateAnnouncement(ctx, "Orientation", nil, now.Add(24*time.Hour), "all")
	fx.CreateAnnouncement(ctx, "Just ended", nil, now.Add(-annstatus.Grace), "all")
	fx.CreateAnnouncement(ctx, "Old", nil, now.Add(-30*24*time.Hour), "all")
	fx.CreateAnnouncement(ctx, "Upcoming", &future, now.Add(96*time.Hour), []string{"TES"})

	landing := statuses(list(t, h.ServeList, "/api/announcements"))
	want := map[string]string{"Orientation": "active", "Just ended": "active", "Upcoming": "incoming"}
	if len(landing) != len(want) {
		t.Fatalf("landing = %v, want %v", landing, want)
	}
	for title, st := range want {
		if landing[title] != st {
			t.Errorf("landing[%q] = %q, want %q", title, landing[title], st)
		}
	}

	all := statuses(list(t, h.ServeList, "/api/announcements?view=all"))
	if all["Old"] != "archived" || len(all) != 4 {
		t.Errorf("all = %v", all)
	}

	merit := statuses(list(t, h.ServeList, "/api/announcements?view=all&scholarship=Merit"))
	if _, ok := merit["Upcoming"]; ok || len(merit) != 3 {
		t.Errorf("scholarship filter = %v", merit)
	}

	rec := testutil.NewRecorder()
	h.ServeList(rec, httptest.NewRequest(http.MethodGet, "/api/announcements?view=archive", nil))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestServeCalendar(t *testing.T) {
	h, _, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mayStart := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	julyStart := time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)
	fx.CreateAnnouncement(ctx, "Spans into June", &mayStart, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC), "all")
	fx.CreateAnnouncement(ctx, "May only", &mayStart, time.Date(2025, time.May, 25, 0, 0, 0, 0, time.UTC), "all")
	fx.CreateAnnouncement(ctx, "July", &julyStart, time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC), "all")

	body := list(t, h.ServeCalendar, "/api/calendar?month=2025-06")
	got := statuses(body)
	if body.Month != "2025-06" || len(got) != 1 || got["Spans into June"] == "" {
		t.Errorf("june calendar = %s %v", body.Month, got)
	}

	rec := testutil.NewRecorder()
	h.ServeCalendar(rec, httptest.NewRequest(http.MethodGet, "/api/calendar?month=June", nil))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestAdminCRUD(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := testutil.AdminUser()

	body := map[string]any{
		"title":              "Payout schedule",
		"description":        `<p>Bring your ID</p><script>alert(1)</script>`,
		"targetScholarships": []string{"TES", "all"},
		"endDate":            now.Add(24 * time.Hour),
	}
	rec := testutil.NewRecorder()
	h.ServeCreate(rec, testutil.WithUser(testutil.JSONRequest(t, http.MethodPost, "/", body), admin))
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var created models.Announcement
	testutil.DecodeJSON(t, rec, &created)
	if strings.Contains(created.Description, "script") || !strings.Contains(created.Description, "Bring your ID") {
		t.Errorf("description not sanitized: %q", created.Description)
	}
	if created.TargetScholarships != models.TargetAll {
		t.Errorf("targets = %v, want all", created.TargetScholarships)
	}

	body["title"] = "Payout schedule (moved)"
	req := testutil.JSONRequest(t, http.MethodPut, "/", body)
	req = testutil.WithChiURLParam(testutil.WithUser(req, admin), "id", created.ID.Hex())
	rec = testutil.NewRecorder()
	h.ServeUpdate(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	req = testutil.JSONRequest(t, http.MethodPut, "/", body)
	req = testutil.WithChiURLParam(testutil.WithUser(req, admin), "id", primitive.NewObjectID().Hex())
	rec = testutil.NewRecorder()
	h.ServeUpdate(rec, req)
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	del := func() int {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req = testutil.WithChiURLParam(testutil.WithUser(req, admin), "id", created.ID.Hex())
		rec := testutil.NewRecorder()
		h.ServeDelete(rec, req)
		return rec.Code
	}
	if got := del(); got != http.StatusNoContent {
		t.Fatalf("delete = %d", got)
	}
	if got := del(); got != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", got)
	}

	events, err := audit.New(db).Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Errorf("audit events = %d, want 3", len(events))
	}
}

func TestAdminCreate_Validation(t *testing.T) {
	h, _, _ := newTestHandler(t)
	start := now.Add(48 * time.Hour)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing title", map[string]any{"title": " ", "endDate": now}, "title"},
		{"missing end", map[string]any{"title": "x"}, "endDate"},
		{"start after end", map[string]any{"title": "x", "startDate": start, "endDate": now}, "startDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.ServeCreate(rec, testutil.WithUser(testutil.JSONRequest(t, http.MethodPost, "/", tt.body), testutil.AdminUser()))
			testutil.AssertStatus(t, rec, http.StatusBadRequest)
			var body struct {
				Field string `json:"field"`
			}
			testutil.DecodeJSON(t, rec, &body)
			if body.Field != tt.field {
				t.Errorf("field = %q, want %q", body.Field, tt.field)
			}
		})
	}
}
