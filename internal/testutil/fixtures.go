package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
	n  int
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc interface{}) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateUser creates a user with the given email and role.
func (f *Fixtures) CreateUser(ctx context.Context, email, role string) models.User {
	f.t.Helper()
	f.n++
	now := time.Now().UTC()
	u := models.User{
		UID:       fmt.Sprintf("google:test-%d-%s", f.n, primitive.NewObjectID().Hex()),
		Email:     email,
		FullName:  "Test Student",
		Course:    "BS Information Technology",
		Campus:    "Main Campus",
		YearLevel: "3rd Year",
		Provider:  "google",
		Role:      role,
		Status:    models.PresenceOffline,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateScholarship creates a scholarship with the given name and amount.
func (f *Fixtures) CreateScholarship(ctx context.Context, name, benefitAmount string) models.Scholarship {
	f.t.Helper()
	s := models.Scholarship{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Description:   name + " description",
		BenefitAmount: benefitAmount,
		Requirements:  []models.Requirement{{Label: "Certificate of Registration", Required: true}},
		CreatedAt:     time.Now().UTC(),
	}
	f.insert(ctx, "scholarships", s)
	return s
}

// CreateApplication creates an application for userID with the given tracker code and status.
func (f *Fixtures) CreateApplication(ctx context.Context, userID, scholarshipName, trackerCode, status string) models.Application {
	f.t.Helper()
	a := models.Application{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		ScholarshipName: scholarshipName,
		TrackerCode:     trackerCode,
		Status:          status,
		SubmittedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	f.insert(ctx, "applications", a)
	return a
}

// CreateVerification creates a verification for userID submitted at the given time.
func (f *Fixtures) CreateVerification(ctx context.Context, userID, status string, submittedAt time.Time) models.Verification {
	f.t.Helper()
	v := models.Verification{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		FullName:    "Test Student",
		Email:       "student@minsu.edu.ph",
		YearLevel:   "2nd Year",
		Address:     "Calapan City",
		IDFront:     "data:image/png;base64,AA==",
		IDBack:      "data:image/png;base64,AA==",
		COR:         "data:application/pdf;base64,AA==",
		Status:      status,
		SubmittedAt: submittedAt.UTC().Truncate(time.Millisecond),
	}
	f.insert(ctx, "verifications", v)
	return v
}

// CreateAnnouncement creates an announcement with the given window. start may be nil.
func (f *Fixtures) CreateAnnouncement(ctx context.Context, title string, start *time.Time, end time.Time, targets interface{}) models.Announcement {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.Announcement{
		ID:                 primitive.NewObjectID(),
		Title:              title,
		Description:        title + " details",
		TargetScholarships: targets,
		StartDate:          start,
		EndDate:            end.UTC().Truncate(time.Millisecond),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	f.insert(ctx, "announcements", a)
	return a
}
