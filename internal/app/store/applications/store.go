// internal/app/store/applications/store.go
package applications

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
	// ErrNotFound is returned when no application matches.
	ErrNotFound = errors.New("application not found")
	// ErrDuplicateTrackerCode is returned when the tracker code is already taken.
	ErrDuplicateTrackerCode = errors.New("tracker code already exists")
)

// Store wraps the applications collection.
type Store struct {
	c *mongo.Collection
}

// New creates an applications Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("applications")}
}

// Create inserts a new application. ID and SubmittedAt are set when empty.
func (s *Store) Create(ctx context.Context, a models.Application) (models.Application, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Application{}, ErrDuplicateTrackerCode
		}
		return models.Application{}, err
	}
	return a, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.Application, error) {
	var a models.Application
	if err := s.c.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByTrackerCode looks up an application by exact tracker code. Callers
// normalize the code first.
func (s *Store) GetByTrackerCode(ctx context.Context, code string) (*models.Application, error) {
	return s.findOne(ctx, bson.M{"trackerCode": code})
}

// GetByID loads an application by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// HasApplied reports whether userID has an application for scholarshipID that
// still stands. Rejected applications do not count, so the student may apply
// again.
func (s *Store) HasApplied(ctx context.Context, userID, scholarshipID string) (bool, error) {
	filter := bson.M{
		"userId":        userID,
		"scholarshipId": scholarshipID,
		"status":        bson.M{"$ne": models.StatusRejected},
	}
	err := s.c.FindOne(ctx, filter,
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

// listProjection leaves out embedded files, which can be large.
var listProjection = bson.M{"files": 0, "formData": 0}

// ListByUser returns a user's applications, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Application, error) {
	return s.find(ctx, bson.M{"userId": userID}, limit)
}

// ListFilter narrows List.
type ListFilter struct {
	Status string
	Limit  int64
}

// List returns applications for the admin view, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Application, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return s.find(ctx, filter, f.Limit)
}

func (s *Store) find(ctx context.Context, filter bson.M, limit int64) ([]models.Application, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetProjection(listProjection)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Application{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Review sets the status and remarks and returns the updated application.
func (s *Store) Review(ctx context.Context, id primitive.ObjectID, status, remarks, reviewer string, now time.Time) (*models.Application, error) {
	reviewedAt := now.UTC()
	update := bson.M{"$set": bson.M{
		"status":       status,
		"adminRemarks": remarks,
		"reviewedAt":   reviewedAt,
		"reviewedBy":   reviewer,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(listProjection)

	var a models.Application
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CountByStatus returns application counts keyed by stored status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$status"}, {Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] += r.N
	}
	return out, nil
}

// ScholarshipCount is one row of CountByScholarship.
type ScholarshipCount struct {
	ScholarshipID   string `bson:"scholarshipId"`
	ScholarshipName string `bson:"scholarshipName"`
	Count           int64  `bson:"count"`
}

// CountByScholarship groups applications by scholarship, largest first.
func (s *Store) CountByScholarship(ctx context.Context) ([]ScholarshipCount, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "id", Value: "$scholarshipId"}, {Key: "name", Value: "$scholarshipName"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "scholarshipId", Value: "$_id.id"},
			{Key: "scholarshipName", Value: "$_id.name"},
			{Key: "count", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "scholarshipName", Value: 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []ScholarshipCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
