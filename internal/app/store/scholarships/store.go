// internal/app/store/scholarships/store.go
package scholarships

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/scholarhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("scholarship not found")
	ErrDuplicateName = errors.New("a scholarship with that name already exists")
)

// Store wraps the scholarships collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("scholarships")}
}

// List returns every scholarship ordered by name. The catalogue is small
// enough to load whole; benefit resolution relies on that.
func (s *Store) List(ctx context.Context) ([]models.Scholarship, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Scholarship{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID accepts the hex id used in URLs.
func (s *Store) GetByID(ctx context.Context, hex string) (*models.Scholarship, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, ErrNotFound
	}
	var sch models.Scholarship
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&sch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sch, nil
}

// Create inserts a scholarship. Names are unique.
func (s *Store) Create(ctx context.Context, sch models.Scholarship) (models.Scholarship, error) {
	if sch.ID.IsZero() {
		sch.ID = primitive.NewObjectID()
	}
	sch.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, sch); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Scholarship{}, ErrDuplicateName
		}
		return models.Scholarship{}, err
	}
	return sch, nil
}

// Update replaces the editable fields of a scholarship.
func (s *Store) Update(ctx context.Context, sch models.Scholarship) (*models.Scholarship, error) {
	update := bson.M{"$set": bson.M{
		"name":          sch.Name,
		"description":   sch.Description,
		"benefit":       sch.Benefit,
		"benefitAmount": sch.BenefitAmount,
		"requirements":  sch.Requirements,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out models.Scholarship
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": sch.ID}, update, opts).Decode(&out); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrNotFound
		case wafflemongo.IsDup(err):
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &out, nil
}
