package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/scholarhub/internal/app/system/normalize"
	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no user has the requested uid.
var ErrNotFound = errors.New("user not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Collection exposes the underlying collection for multi-document transactions.
func (s *Store) Collection() *mongo.Collection { return s.c }

// GetByID loads a user by uid.
func (s *Store) GetByID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the most recently active user with the given email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// SignInProfile is what the identity provider tells us on each sign-in.
type SignInProfile struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	Provider    string
	Role        string
}

// UpsertOnSignIn merges the provider profile into the user document, creating
// it on first sign-in, and marks the user online. Fields the student filled
// in themselves (course, year level …) are never overwritten here.
func (s *Store) UpsertOnSignIn(ctx context.Context, p SignInProfile, now time.Time) (models.User, error) {
	now = now.UTC()
	update := bson.M{
		"$set": bson.M{
			"email":       normalize.Email(p.Email),
			"displayName": normalize.Name(p.DisplayName),
			"photoURL":    p.PhotoURL,
			"provider":    normalize.Provider(p.Provider),
			"role":        normalize.Role(p.Role),
			"status":      models.PresenceOnline,
			"lastSeen":    now,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"fullName":                 normalize.Name(p.DisplayName),
			"applicationFormCompleted": false,
			"profileCompleted":         false,
			"createdAt":                now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": p.UID}, update, opts).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// SetPresence records a heartbeat or sign-out.
func (s *Store) SetPresence(ctx context.Context, uid, status string, now time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"status":   status,
		"lastSeen": now.UTC(),
	}})
	return err
}

// MarkStaleOffline flips users still marked online whose lastSeen is before
// cutoff. Returns the number of users changed.
func (s *Store) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": models.PresenceOnline, "lastSeen": bson.M{"$lt": cutoff.UTC()}},
		bson.M{"$set": bson.M{"status": models.PresenceOffline}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountOnline returns how many users are currently marked online.
func (s *Store) CountOnline(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.PresenceOnline})
}

// CountByRole returns the number of users with role.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": role})
}

// SetApplicationFormCompleted flags that the user has submitted an application form.
func (s *Store) SetApplicationFormCompleted(ctx context.Context, uid string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"applicationFormCompleted": true,
		"updatedAt":                time.Now().UTC(),
	}})
	return err
}

// ProfileMirror is the subset of the profile form copied onto the user document.
type ProfileMirror struct {
	FullName      string
	StudentNumber string
	Course        string
	Major         string
	YearLevel     string
	Campus        string
}

// UpdateProfileMirror copies profile fields onto the user and sets profileCompleted.
func (s *Store) UpdateProfileMirror(ctx context.Context, uid string, p ProfileMirror) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"fullName":         normalize.Name(p.FullName),
		"studentNumber":    p.StudentNumber,
		"course":           p.Course,
		"major":            p.Major,
		"yearLevel":        p.YearLevel,
		"campus":           p.Campus,
		"profileCompleted": true,
		"updatedAt":        time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// NamesByIDs returns display names keyed by uid for the users that exist.
func (s *Store) NamesByIDs(ctx context.Context, uids []string) (map[string]string, error) {
	out := make(map[string]string, len(uids))
	if len(uids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"fullName": 1, "displayName": 1, "email": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": uids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.User
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	for _, u := range list {
		out[u.UID] = u.Name()
	}
	return out, nil
}
