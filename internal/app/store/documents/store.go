// internal/app/store/documents/store.go
package documents

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

var ErrNotFound = errors.New("document not found")

// Store wraps the studentDocuments collection. Every read and delete is
// scoped to the owning user.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("studentDocuments")}
}

func (s *Store) Create(ctx context.Context, d models.StudentDocument) (models.StudentDocument, error) {
	d.ID = primitive.NewObjectID()
	d.UploadedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.StudentDocument{}, err
	}
	return d, nil
}

// ListByUser returns metadata only; the content is fetched with Get.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.StudentDocument, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "uploadedAt", Value: -1}}).
		SetProjection(bson.M{"dataURI": 0})
	cur, err := s.c.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.StudentDocument{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, userID string, id primitive.ObjectID) (*models.StudentDocument, error) {
	var d models.StudentDocument
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Store) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
