// internal/app/store/announcements/store.go
package announcements

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

var ErrNotFound = errors.New("announcement not found")

// Store wraps the announcements collection. Effective status is never
// stored; callers derive it with annstatus.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Update replaces the editable fields. A nil StartDate clears it.
func (s *Store) Update(ctx context.Context, a models.Announcement) (*models.Announcement, error) {
	set := bson.M{
		"title":              a.Title,
		"description":        a.Description,
		"targetScholarships": a.TargetScholarships,
		"targetYearLevel":    a.TargetYearLevel,
		"endDate":            a.EndDate,
		"venue":              a.Venue,
		"updatedAt":          time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if a.StartDate != nil {
		set["startDate"] = *a.StartDate
	} else {
		update["$unset"] = bson.M{"startDate": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Announcement
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": a.ID}, update, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns announcements by endDate descending. With endAfter non-zero,
// only those ending at or after it are returned.
func (s *Store) List(ctx context.Context, endAfter time.Time) ([]models.Announcement, error) {
	filter := bson.M{}
	if !endAfter.IsZero() {
		filter["endDate"] = bson.M{"$gte": endAfter}
	}
	return s.find(ctx, filter)
}

// ListWindow returns announcements whose [startDate or createdAt, endDate]
// span intersects [from, to). A null filter matches a missing startDate.
func (s *Store) ListWindow(ctx context.Context, from, to time.Time) ([]models.Announcement, error) {
	filter := bson.M{
		"endDate": bson.M{"$gte": from},
		"$or": bson.A{
			bson.M{"startDate": bson.M{"$lt": to}},
			bson.M{"startDate": nil, "createdAt": bson.M{"$lt": to}},
		},
	}
	return s.find(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Announcement, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "endDate", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Announcement{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
