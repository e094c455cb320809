package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/features/auditlog"
	"github.com/dalemusser/scholarhub/internal/app/store/audit"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/scholarhub/internal/testutil"
	"go.uber.org/zap"
)

type listBody struct {
	Events []struct {
		EventType  string `json:"eventType"`
		ActorName  string `json:"actorName"`
		TargetName string `json:"targetName"`
	} `json:"events"`
	Page    int   `json:"page"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

func TestServeList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateUser(ctx, "ana@minsu.edu.ph", models.RoleStudent)
	admin := fx.CreateUser(ctx, testutil.TestAdminEmail, models.RoleAdmin)
	store := audit.New(db)
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: student.UID, Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventApplicationReviewed, ActorID: admin.UID, UserID: student.UID, Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventScholarshipSaved, ActorID: admin.UID, Success: true, CreatedAt: yesterday},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	h := auditlog.NewHandler(db, zap.NewNop())
	list := func(target string) listBody {
		rec := testutil.NewRecorder()
		h.ServeList(rec, httptest.NewRequest(http.MethodGet, target, nil))
		testutil.AssertStatus(t, rec, http.StatusOK)
		var body listBody
		testutil.DecodeJSON(t, rec, &body)
		return body
	}

	all := list("/api/admin/audit")
	if all.Total != 3 || len(all.Events) != 3 || all.HasMore {
		t.Errorf("all = %+v", all)
	}

	reviewed := list("/api/admin/audit?category=admin&event_type=application_reviewed")
	if len(reviewed.Events) != 1 {
		t.Fatalf("reviewed = %+v", reviewed)
	}
	if reviewed.Events[0].ActorName != "Test Student" || reviewed.Events[0].TargetName != "Test Student" {
		t.Errorf("names not resolved: %+v", reviewed.Events[0])
	}

	byUser := list("/api/admin/audit?user_id=" + student.UID)
	if byUser.Total != 2 {
		t.Errorf("by user total = %d, want 2", byUser.Total)
	}

	today := time.Now().UTC().Format("2006-01-02")
	fromToday := list("/api/admin/audit?start_date=" + today)
	if fromToday.Total != 2 {
		t.Errorf("from today total = %d, want 2", fromToday.Total)
	}

	rec := testutil.NewRecorder()
	h.ServeList(rec, httptest.NewRequest(http.MethodGet, "/api/admin/audit?start_date=June", nil))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}
