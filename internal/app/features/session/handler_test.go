package session_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/features/session"
	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/scholarhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*session.Handler, *userstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	h := session.NewHandler(testutil.NewSessionManager(t), auditlog.New(nil, zap.NewNop(), auditlog.Config{}), users, zap.NewNop())
	return h, users, testutil.NewFixtures(t, db)
}

func asUser(u models.User) testutil.TestUser {
	return testutil.TestUser{ID: u.UID, Name: u.Name(), Email: u.Email, Role: u.Role}
}

func TestServeLogout_MarksOffline(t *testing.T) {
	h, users, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "ana@minsu.edu.ph", models.RoleStudent)
	if err := users.SetPresence(ctx, u.UID, models.PresenceOnline, time.Now()); err != nil {
		t.Fatal(err)
	}

	req := testutil.WithUser(testutil.JSONRequest(t, http.MethodPost, "/logout", nil), asUser(u))
	rec := testutil.NewRecorder()
	h.ServeLogout(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	got, err := users.GetByID(ctx, u.UID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.PresenceOffline || got.LastSeen == nil {
		t.Errorf("status = %q lastSeen = %v", got.Status, got.LastSeen)
	}

	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("session cookie should be expired")
	}
}

func TestServeLogout_Anonymous(t *testing.T) {
	h, _, _ := setup(t)
	rec := testutil.NewRecorder()
	h.ServeLogout(rec, testutil.JSONRequest(t, http.MethodPost, "/logout", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
}

func TestServeMe(t *testing.T) {
	h, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, testutil.TestAdminEmail, models.RoleAdmin)
	rec := testutil.NewRecorder()
	h.ServeMe(rec, testutil.WithUser(testutil.JSONRequest(t, http.MethodGet, "/api/me", nil), asUser(admin)))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var body struct {
		User    models.User `json:"user"`
		IsAdmin bool        `json:"isAdmin"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if body.User.UID != admin.UID || !body.IsAdmin {
		t.Errorf("unexpected body: %+v", body)
	}

	ghost := testutil.StudentUser()
	rec = testutil.NewRecorder()
	h.ServeMe(rec, testutil.WithUser(testutil.JSONRequest(t, http.MethodGet, "/api/me", nil), ghost))
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestRoutes_PresenceRequiresSignIn(t *testing.T) {
	h, users, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := chi.NewRouter()
	session.Mount(r, h, h.SessionMgr)

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodPost, "/api/presence", nil))
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)

	u := fx.CreateUser(ctx, "ana@minsu.edu.ph", models.RoleStudent)
	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.JSONRequest(t, http.MethodPost, "/api/presence", nil), asUser(u)))
	testutil.AssertStatus(t, rec, http.StatusNoContent)

	got, _ := users.GetByID(ctx, u.UID)
	if got.Status != models.PresenceOnline {
		t.Errorf("status = %q, want online", got.Status)
	}
}
