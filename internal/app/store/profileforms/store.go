// internal/app/store/profileforms/store.go
package profileforms

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the user has not saved a profile yet.
var ErrNotFound = errors.New("profile not found")

// Store wraps the studentProfileForms collection (one document per user).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("studentProfileForms")}
}

// Get returns the profile for userID.
func (s *Store) Get(ctx context.Context, userID string) (*models.StudentProfileForm, error) {
	var f models.StudentProfileForm
	if err := s.c.FindOne(ctx, bson.M{"_id": userID}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Upsert replaces the user's profile document.
func (s *Store) Upsert(ctx context.Context, f models.StudentProfileForm) (models.StudentProfileForm, error) {
	f.UpdatedAt = time.Now().UTC()
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": f.UserID}, f, options.Replace().SetUpsert(true))
	if err != nil {
		return models.StudentProfileForm{}, err
	}
	return f, nil
}
