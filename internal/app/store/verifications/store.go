// internal/app/store/verifications/store.go
package verifications

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no verification matches.
var ErrNotFound = errors.New("verification not found")

// Store wraps the verifications collection.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

// New creates a verifications Store.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{c: db.Collection("verifications"), log: logger}
}

// Create inserts a submission.
func (s *Store) Create(ctx context.Context, v models.Verification) (models.Verification, error) {
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if v.SubmittedAt.IsZero() {
		v.SubmittedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Verification{}, err
	}
	return v, nil
}

// summaryProjection leaves out the document images.
var summaryProjection = bson.M{"idFront": 0, "idBack": 0, "cor": 0}

// Latest returns the user's most recent submission, or ErrNotFound.
//
// The ordered query needs the userId+submittedAt index. If it fails for any
// reason other than cancellation, Latest retries once with an unordered query
// and picks the newest in memory.
func (s *Store) Latest(ctx context.Context, userID string) (*models.Verification, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetProjection(summaryProjection)

	var v models.Verification
	err := s.c.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&v)
	switch {
	case err == nil:
		return &v, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrNotFound
	case ctx.Err() != nil:
		return nil, err
	}

	s.log.Warn("ordered verification query failed, using in-memory fallback",
		zap.String("user_id", userID), zap.Error(err))
	list, ferr := s.findAll(ctx, bson.M{"userId": userID}, options.Find().SetProjection(summaryProjection))
	if ferr != nil {
		return nil, ferr
	}
	latest := newest(list)
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

// newest returns the entry with the greatest SubmittedAt, or nil.
func newest(list []models.Verification) *models.Verification {
	if len(list) == 0 {
		return nil
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].SubmittedAt.After(list[j].SubmittedAt) })
	return &list[0]
}

// GetByID loads a submission including its document images.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Verification, error) {
	var v models.Verification
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List returns submissions for review, newest first, without images.
func (s *Store) List(ctx context.Context, status string, limit int64) ([]models.Verification, error) {
	if limit <= 0 {
		limit = 100
	}
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(summaryProjection)
	return s.findAll(ctx, filter, opts)
}

func (s *Store) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Verification, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Verification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Review records an admin decision and returns the updated submission.
func (s *Store) Review(ctx context.Context, id primitive.ObjectID, status, remarks string, now time.Time) (*models.Verification, error) {
	update := bson.M{"$set": bson.M{
		"status":        status,
		"reviewRemarks": remarks,
		"reviewedAt":    now.UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(summaryProjection)

	var v models.Verification
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// CountByStatus returns verification counts keyed by status.
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
		out[r.Status] = r.N
	}
	return out, nil
}
