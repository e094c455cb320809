package profileforms_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/scholarhub/internal/app/store/profileforms"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"github.com/dalemusser/scholarhub/internal/testutil"
)

func TestStore_UpsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profileforms.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Get(ctx, "google:1"); !errors.Is(err, profileforms.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	_, err := store.Upsert(ctx, models.StudentProfileForm{UserID: "google:1", FullName: "Ana", Course: "BSIT", YearLevel: "1st Year"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	_, err = store.Upsert(ctx, models.StudentProfileForm{UserID: "google:1", FullName: "Ana", Course: "BSCS", YearLevel: "2nd Year"})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err := store.Get(ctx, "google:1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Course != "BSCS" || got.YearLevel != "2nd Year" || got.UpdatedAt.IsZero() {
		t.Errorf("unexpected profile: %+v", got)
	}
	n, _ := db.Collection("studentProfileForms").CountDocuments(ctx, map[string]string{"_id": "google:1"})
	if n != 1 {
		t.Errorf("expected one document per user, got %d", n)
	}
}
