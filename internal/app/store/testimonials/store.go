// internal/app/store/testimonials/store.go
package testimonials

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("testimonial not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("testimonials")}
}

// Create inserts a testimonial. New testimonials are never featured.
func (s *Store) Create(ctx context.Context, t models.Testimonial) (models.Testimonial, error) {
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	t.FeaturedOnLanding = false
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Testimonial{}, err
	}
	return t, nil
}

// List returns testimonials newest first. With featuredOnly set, only those
// chosen for the landing page are returned.
func (s *Store) List(ctx context.Context, featuredOnly bool, limit int64) ([]models.Testimonial, error) {
	filter := bson.M{}
	if featuredOnly {
		filter["featuredOnLanding"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Testimonial{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFeatured toggles the landing-page flag. It is the only mutable field.
func (s *Store) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"featuredOnLanding": featured}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
