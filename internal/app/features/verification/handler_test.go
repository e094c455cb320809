package verification_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/features/verification"
	"github.com/dalemusser/scholarhub/internal/app/store/verifications"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/scholarhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db   *mongo.Database
	h    *verification.Handler
	fx   *testutil.Fixtures
	sink *testutil.MailSink
	user models.User
}

func setup(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	m, sink := testutil.NewMailer()
	h := verification.NewHandler(db, m, auditlog.New(nil, zap.NewNop(), auditlog.Config{}),
		"ScholarHub", "https://scholarhub.test", testutil.TestAdminEmail, zap.NewNop())
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "ana@minsu.edu.ph", models.RoleStudent)
	return &env{db: db, h: h, fx: fx, sink: sink, user: u}
}

func (e *env) as(r *http.Request) *http.Request {
	return testutil.WithUser(r, testutil.TestUser{ID: e.user.UID, Name: e.user.Name(), Email: e.user.Email, Role: e.user.Role})
}

// multipartRequest builds a verification submission. Files are included for
// every name in files.
func multipartRequest(t *testing.T, fields map[string]string, files ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+name+`"; filename="`+name+`.png"`)
		hdr.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, "/api/verification", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func validFields() map[string]string {
	return map[string]string{
		"step":           "3",
		"yearLevel":      "2nd Year",
		"address":        "Calapan City, Oriental Mindoro",
		"secondaryEmail": "ana.personal@gmail.com",
		"studentNumber":  "MCC2023-0042",
	}
}

func TestServeStatus(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	status := func() map[string]any {
		rec := testutil.NewRecorder()
		e.h.ServeStatus(rec, e.as(httptest.NewRequest(http.MethodGet, "/api/verification", nil)))
		testutil.AssertStatus(t, rec, http.StatusOK)
		var body map[string]any
		testutil.DecodeJSON(t, rec, &body)
		return body
	}

	if got := status()["view"]; got != "wizard" {
		t.Errorf("no verification: view = %v", got)
	}

	e.fx.CreateVerification(ctx, e.user.UID, models.VerificationDeclined, time.Now().Add(-time.Hour))
	if got := status(); got["view"] != "wizard" || got["status"] != "declined" {
		t.Errorf("declined: %v", got)
	}

	e.fx.CreateVerification(ctx, e.user.UID, models.VerificationPending, time.Now())
	if got := status(); got["view"] != "terminal" || got["status"] != "pending" {
		t.Errorf("pending: %v", got)
	}
}

func TestServeValidateStep(t *testing.T) {
	e := setup(t)
	tests := []struct {
		name   string
		target string
		body   map[string]any
		status int
	}{
		{"step 1 ok", "/validate?step=1", map[string]any{"yearLevel": "1st Year", "address": "Pinamalayan"}, http.StatusOK},
		{"step 1 bad year", "/validate?step=1", map[string]any{"yearLevel": "Freshman", "address": "Pinamalayan"}, http.StatusBadRequest},
		{"step 1 no address", "/validate?step=1", map[string]any{"yearLevel": "1st Year", "address": " "}, http.StatusBadRequest},
		{"step 2 missing cor", "/validate?step=2", map[string]any{"hasIdFront": true, "hasIdBack": true}, http.StatusBadRequest},
		{"step 2 ok", "/validate?step=2", map[string]any{"hasIdFront": true, "hasIdBack": true, "hasCor": true}, http.StatusOK},
		{"step 3", "/validate?step=3", map[string]any{}, http.StatusOK},
		{"bad step", "/validate?step=x", map[string]any{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			e.h.ServeValidateStep(rec, e.as(testutil.JSONRequest(t, http.MethodPost, tt.target, tt.body)))
			testutil.AssertStatus(t, rec, tt.status)
		})
	}
}

func TestServeSubmit_CreatesRecordAndSendsEmails(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := testutil.NewRecorder()
	e.h.ServeSubmit(rec, e.as(multipartRequest(t, validFields(), "idFront", "idBack", "cor")))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	v, err := verifications.New(e.db, nil).Latest(ctx, e.user.UID)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	full, _ := verifications.New(e.db, nil).GetByID(ctx, v.ID)
	if full.Status != models.VerificationPending || full.YearLevel != "2nd Year" || full.Email != "ana@minsu.edu.ph" {
		t.Errorf("unexpected record: %+v", full)
	}
	for _, uri := range []string{full.IDFront, full.IDBack, full.COR} {
		if len(uri) < 22 || uri[:22] != "data:image/png;base64," {
			t.Errorf("document not a png data URI: %.30q", uri)
		}
	}

	msgs := e.sink.Messages()
	if len(msgs) != 2 {
		t.Fatalf("emails = %d, want 2", len(msgs))
	}
	if msgs[0].To != "ana.personal@gmail.com" || msgs[0].Template != mailer.TemplateVerificationSubmitted {
		t.Errorf("student email: %s %s", msgs[0].To, msgs[0].Template)
	}
	if msgs[1].To != testutil.TestAdminEmail || msgs[1].Template != mailer.TemplateVerificationSubmittedAdmin {
		t.Errorf("admin email: %s %s", msgs[1].To, msgs[1].Template)
	}

	// A pending verification keeps the student out of the wizard.
	rec = testutil.NewRecorder()
	e.h.ServeSubmit(rec, e.as(multipartRequest(t, validFields(), "idFront", "idBack", "cor")))
	testutil.AssertStatus(t, rec, http.StatusConflict)
}

func TestServeSubmit_AfterDeclineIsAllowed(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreateVerification(ctx, e.user.UID, models.VerificationDeclined, time.Now().Add(-time.Hour))

	rec := testutil.NewRecorder()
	e.h.ServeSubmit(rec, e.as(multipartRequest(t, validFields(), "idFront", "idBack", "cor")))
	testutil.AssertStatus(t, rec, http.StatusCreated)
}

func TestServeSubmit_EmailFailureStillSucceeds(t *testing.T) {
	e := setup(t)
	e.sink.Err = errSend

	rec := testutil.NewRecorder()
	e.h.ServeSubmit(rec, e.as(multipartRequest(t, validFields(), "idFront", "idBack", "cor")))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var body struct {
		Emailed map[string]bool `json:"emailed"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if body.Emailed["student"] || body.Emailed["admin"] {
		t.Errorf("emailed = %v, want both false", body.Emailed)
	}
}

func TestServeSubmit_Validation(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	early := validFields()
	early["step"] = "2"
	badYear := validFields()
	badYear["yearLevel"] = "6th Year"
	badEmail := validFields()
	badEmail["secondaryEmail"] = "not-an-email"

	tests := []struct {
		name  string
		req   *http.Request
		field string
	}{
		{"not at review step", multipartRequest(t, early, "idFront", "idBack", "cor"), "step"},
		{"bad year level", multipartRequest(t, badYear, "idFront", "idBack", "cor"), "yearLevel"},
		{"missing cor", multipartRequest(t, validFields(), "idFront", "idBack"), "cor"},
		{"bad secondary email", multipartRequest(t, badEmail, "idFront", "idBack", "cor"), "secondaryEmail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			e.h.ServeSubmit(rec, e.as(tt.req))
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

	n, _ := e.db.Collection("verifications").CountDocuments(ctx, bson.M{})
	if n != 0 {
		t.Errorf("rejected submissions must not be stored, found %d", n)
	}
}

func TestServeReview(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	v := e.fx.CreateVerification(ctx, e.user.UID, models.VerificationPending, time.Now())

	review := func(id string, body any) int {
		req := testutil.JSONRequest(t, http.MethodPost, "/", body)
		req = testutil.WithChiURLParam(testutil.WithUser(req, testutil.AdminUser()), "id", id)
		rec := testutil.NewRecorder()
		e.h.ServeReview(rec, req)
		return rec.Code
	}

	if got := review(v.ID.Hex(), map[string]string{"status": "pending"}); got != http.StatusBadRequest {
		t.Errorf("pending is not a review outcome: %d", got)
	}
	if got := review(primitive.NewObjectID().Hex(), map[string]string{"status": "verified"}); got != http.StatusNotFound {
		t.Errorf("unknown id: %d", got)
	}
	if got := review(v.ID.Hex(), map[string]string{"status": "declined", "remarks": "COR is blurry"}); got != http.StatusOK {
		t.Fatalf("review: %d", got)
	}

	msgs := e.sink.Messages()
	if len(msgs) != 1 || msgs[0].Template != mailer.TemplateVerificationDeclined || msgs[0].To != "student@minsu.edu.ph" {
		t.Fatalf("unexpected emails: %+v", msgs)
	}

	stored, _ := verifications.New(e.db, nil).GetByID(ctx, v.ID)
	if stored.Status != models.VerificationDeclined || stored.ReviewRemarks != "COR is blurry" {
		t.Errorf("unexpected stored record: %+v", stored)
	}
}

func TestServeAdminList(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreateVerification(ctx, "google:1", models.VerificationPending, time.Now())
	e.fx.CreateVerification(ctx, "google:2", models.VerificationVerified, time.Now())

	rec := testutil.NewRecorder()
	e.h.ServeAdminList(rec, httptest.NewRequest(http.MethodGet, "/?status=pending", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var body struct {
		Verifications []models.Verification `json:"verifications"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if len(body.Verifications) != 1 || body.Verifications[0].IDFront != "" {
		t.Errorf("unexpected list: %+v", body.Verifications)
	}

	rec = testutil.NewRecorder()
	e.h.ServeAdminList(rec, httptest.NewRequest(http.MethodGet, "/?status=weird", nil))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}
