// internal/app/store/applicationforms/store.go
package applicationforms

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no form snapshot matches.
var ErrNotFound = errors.New("application form not found")

// Store wraps the applicationForms collection.
type Store struct {
	c *mongo.Collection
}

// New creates an applicationForms Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("applicationForms")}
}

// Create inserts a form snapshot.
func (s *Store) Create(ctx context.Context, f models.ApplicationForm) (models.ApplicationForm, error) {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.ApplicationForm{}, err
	}
	return f, nil
}

// GetByApplication returns the snapshot stored with an application.
func (s *Store) GetByApplication(ctx context.Context, applicationID primitive.ObjectID) (*models.ApplicationForm, error) {
	var f models.ApplicationForm
	if err := s.c.FindOne(ctx, bson.M{"applicationId": applicationID}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}
