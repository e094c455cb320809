package userstore_test

import (
	"errors"
	"testing"
	"time"

	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/scholarhub/internal/testutil"
)

func TestStore_UpsertOnSignIn_CreatesThenMerges(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := time.Now().Add(-time.Hour)
	u, err := store.UpsertOnSignIn(ctx, userstore.SignInProfile{
		UID:         "google:111",
		Email:       "Ana.Cruz@MINSU.edu.ph",
		DisplayName: "  Ana   Cruz ",
		Provider:    "Google",
		Role:        "student",
	}, first)
	if err != nil {
		t.Fatalf("UpsertOnSignIn failed: %v", err)
	}
	if u.Email != "ana.cruz@minsu.edu.ph" || u.FullName != "Ana Cruz" || u.Provider != "google" {
		t.Errorf("profile not normalized: %+v", u)
	}
	if u.Status != models.PresenceOnline || u.LastSeen == nil {
		t.Errorf("expected online with lastSeen, got %q %v", u.Status, u.LastSeen)
	}

	// Student fills in their own name; a later sign-in must not clobber it.
	if err := store.UpdateProfileMirror(ctx, "google:111", userstore.ProfileMirror{FullName: "Ana Marie Cruz", Course: "BSIT"}); err != nil {
		t.Fatalf("UpdateProfileMirror: %v", err)
	}
	u, err = store.UpsertOnSignIn(ctx, userstore.SignInProfile{
		UID: "google:111", Email: "ana.cruz@minsu.edu.ph", DisplayName: "Ana C.", Provider: "google", Role: "student",
	}, time.Now())
	if err != nil {
		t.Fatalf("second UpsertOnSignIn: %v", err)
	}
	if u.FullName != "Ana Marie Cruz" || u.DisplayName != "Ana C." || u.Course != "BSIT" {
		t.Errorf("merge lost fields: %+v", u)
	}
	if !u.ProfileCompleted {
		t.Error("profileCompleted should stay true")
	}
	if !u.CreatedAt.Before(u.UpdatedAt) {
		t.Error("createdAt should keep the first sign-in time")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, "google:missing"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := store.UpdateProfileMirror(ctx, "google:missing", userstore.ProfileMirror{}); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("UpdateProfileMirror err = %v, want ErrNotFound", err)
	}
}

func TestStore_Presence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stale := fx.CreateUser(ctx, "stale@minsu.edu.ph", "student")
	fresh := fx.CreateUser(ctx, "fresh@minsu.edu.ph", "student")
	now := time.Now()

	if err := store.SetPresence(ctx, stale.UID, models.PresenceOnline, now.Add(-10*time.Minute)); err != nil {
		t.Fatalf("SetPresence: %v", err)
	}
	if err := store.SetPresence(ctx, fresh.UID, models.PresenceOnline, now); err != nil {
		t.Fatalf("SetPresence: %v", err)
	}

	n, err := store.CountOnline(ctx)
	if err != nil || n != 2 {
		t.Fatalf("CountOnline = %d, %v; want 2", n, err)
	}

	changed, err := store.MarkStaleOffline(ctx, now.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("MarkStaleOffline: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}
	got, _ := store.GetByID(ctx, stale.UID)
	if got.Status != models.PresenceOffline {
		t.Errorf("stale user status = %q", got.Status)
	}
}

func TestStore_SetApplicationFormCompleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "s@minsu.edu.ph", "student")
	if err := store.SetApplicationFormCompleted(ctx, u.UID); err != nil {
		t.Fatalf("SetApplicationFormCompleted: %v", err)
	}
	got, _ := store.GetByID(ctx, u.UID)
	if !got.ApplicationFormCompleted {
		t.Error("flag not set")
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "admin@minsu.edu.ph", "admin")
	f := userstore.NewFetcher(db)

	su := f.FetchUser(ctx, u.UID)
	if su == nil {
		t.Fatal("expected user")
	}
	if su.ID != u.UID || su.Role != "admin" || su.Email != "admin@minsu.edu.ph" || su.Name != "Test Student" {
		t.Errorf("unexpected session user: %+v", su)
	}
	if f.FetchUser(ctx, "google:nobody") != nil {
		t.Error("expected nil for unknown user")
	}
	if f.FetchUser(ctx, "") != nil {
		t.Error("expected nil for empty id")
	}
}

func TestStore_NamesByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "ana@minsu.edu.ph", models.RoleStudent)
	names, err := store.NamesByIDs(ctx, []string{u.UID, "google:missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[u.UID] != "Test Student" {
		t.Errorf("names = %v", names)
	}

	empty, err := store.NamesByIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("NamesByIDs(nil) = %v, %v", empty, err)
	}
}
