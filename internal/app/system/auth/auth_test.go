package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"go.uber.org/zap"
)

type stubFetcher map[string]*auth.SessionUser

func (f stubFetcher) FetchUser(_ context.Context, id string) *auth.SessionUser { return f[id] }

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	sm.SetAdminEmail("Admin@minsu.edu.ph")
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestRequireSignedIn(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.RequireSignedIn(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/api/me", nil), &auth.SessionUser{ID: "google:1", Role: "student"})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed in: status %d, want 200", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.RequireAdmin(okHandler())

	tests := []struct {
		name string
		user *auth.SessionUser
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"student", &auth.SessionUser{ID: "google:1", Email: "s@minsu.edu.ph", Role: "student"}, http.StatusForbidden},
		{"admin role wrong email", &auth.SessionUser{ID: "google:2", Email: "other@minsu.edu.ph", Role: "admin"}, http.StatusForbidden},
		{"admin email wrong role", &auth.SessionUser{ID: "google:3", Email: "admin@minsu.edu.ph", Role: "student"}, http.StatusForbidden},
		{"admin", &auth.SessionUser{ID: "google:4", Email: "admin@minsu.edu.ph", Role: "admin"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/admin/dashboard", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

// cookieRoundTrip signs in on one request and replays the cookie on the next.
func cookieRoundTrip(t *testing.T, sm *auth.SessionManager, userID string) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("GET", "/auth/google/callback", nil), userID); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	req := httptest.NewRequest("GET", "/api/me", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestLoadSessionUser_FetchesFreshUser(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{
		"google:9": {ID: "google:9", Name: "Ana Cruz", Email: "ana@minsu.edu.ph", Role: "student"},
	})

	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	h.ServeHTTP(httptest.NewRecorder(), cookieRoundTrip(t, sm, "google:9"))
	if got == nil || got.Name != "Ana Cruz" {
		t.Fatalf("expected user from fetcher, got %+v", got)
	}
}

func TestLoadSessionUser_UnknownUserIsAnonymous(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{})

	found := true
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), cookieRoundTrip(t, sm, "google:gone"))
	if found {
		t.Error("session for a missing user should not yield a current user")
	}
}

func TestGetSession_ToleratesBadCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-valid-cookie"})

	sess, err := sm.GetSession(req)
	if err != nil {
		t.Fatalf("GetSession returned error for undecodable cookie: %v", err)
	}
	if len(sess.Values) != 0 {
		t.Errorf("expected empty session, got %v", sess.Values)
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	req := cookieRoundTrip(t, sm, "google:1")

	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expired cookie, got %+v", cookies)
	}
	if _, ok := sm.SessionUserID(req); !ok {
		t.Error("original request should still carry the old session")
	}
}

func TestCurrentUser(t *testing.T) {
	if _, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected no user")
	}
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "microsoft:5"})
	u, ok := auth.CurrentUser(req)
	if !ok || u.ID != "microsoft:5" {
		t.Errorf("CurrentUser = %+v, %v", u, ok)
	}
}
