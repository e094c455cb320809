package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/features/dashboard"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/scholarhub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "ana@minsu.edu.ph", models.RoleStudent)
	fx.CreateScholarship(ctx, "Merit Scholarship", "₱100,000")
	fx.CreateApplication(ctx, u.UID, "Merit Scholarship", "MINSU-2025-0101-000001", models.StatusPending)
	fx.CreateApplication(ctx, u.UID, "Merit Scholarship", "MINSU-2025-0101-000002", models.StatusApproved)
	fx.CreateApplication(ctx, u.UID, "CHED Tulong Dunong Program", "MINSU-2025-0101-000003", models.StatusApproved)
	fx.CreateVerification(ctx, u.UID, models.VerificationDeclined, time.Now())
	fx.CreateAnnouncement(ctx, "Current", nil, time.Now().Add(time.Hour), "all")
	fx.CreateAnnouncement(ctx, "Past", nil, time.Now().Add(-30*24*time.Hour), "all")

	h := dashboard.NewHandler(db, zap.NewNop())
	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var got dashboard.Summary
	testutil.DecodeJSON(t, rec, &got)

	if got.ApplicationsByStatus[models.StatusApproved] != 2 || got.ApplicationsByStatus[models.StatusRejected] != 0 {
		t.Errorf("applications by status = %v", got.ApplicationsByStatus)
	}
	if _, ok := got.ApplicationsByStatus[models.StatusUnderReview]; !ok {
		t.Error("every known status should be present")
	}
	if got.VerificationsByStatus[models.VerificationDeclined] != 1 || got.VerificationsByStatus[models.VerificationPending] != 0 {
		t.Errorf("verifications by status = %v", got.VerificationsByStatus)
	}
	if got.AnnouncementsByStatus["active"] != 1 || got.AnnouncementsByStatus["archived"] != 1 {
		t.Errorf("announcements by status = %v", got.AnnouncementsByStatus)
	}
	if got.Totals.Students != 1 || got.Totals.Applications != 3 {
		t.Errorf("totals = %+v", got.Totals)
	}

	amounts := map[string]string{}
	for _, row := range got.ApplicationsPerScholarship {
		amounts[row.ScholarshipName] = row.Benefit.Amount
	}
	if amounts["Merit Scholarship"] != "₱100,000" || amounts["CHED Tulong Dunong Program"] != "₱7,500/semester" {
		t.Errorf("per-scholarship benefits = %v", amounts)
	}
}
