package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TestAdminEmail is the admin address handler tests configure.
const TestAdminEmail = "admin@minsu.edu.ph"

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// AdminUser returns a TestUser that passes the admin gate for TestAdminEmail.
func AdminUser() TestUser {
	return TestUser{
		ID:    "google:admin-" + primitive.NewObjectID().Hex(),
		Name:  "Scholarship Office",
		Email: TestAdminEmail,
		Role:  auth.RoleAdmin,
	}
}

// StudentUser returns a TestUser with the student role.
func StudentUser() TestUser {
	return TestUser{
		ID:    "google:student-" + primitive.NewObjectID().Hex(),
		Name:  "Test Student",
		Email: "student@minsu.edu.ph",
		Role:  auth.RoleStudent,
	}
}

// ToSessionUser converts a TestUser to an auth.SessionUser.
func (u TestUser) ToSessionUser() *auth.SessionUser {
	return &auth.SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// WithUser injects u into the request context.
func WithUser(r *http.Request, u TestUser) *http.Request {
	return auth.WithTestUser(r, u.ToSessionUser())
}

// NewSessionManager returns a session manager configured with TestAdminEmail.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	sm.SetAdminEmail(TestAdminEmail)
	return sm
}

// JSONRequest builds a request with v encoded as the JSON body.
func JSONRequest(t *testing.T, method, target string, v interface{}) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if v != nil {
		if err := json.NewEncoder(&body).Encode(v); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &body)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRecorder returns a new httptest.ResponseRecorder.
func NewRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// AssertStatus fails the test if the recorded status differs from want.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

// DecodeJSON decodes the recorded body into v.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v; body: %s", err, rec.Body.String())
	}
}

// ErrorKind returns the "error" field of a JSON error response.
func ErrorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	DecodeJSON(t, rec, &body)
	return body.Error
}
