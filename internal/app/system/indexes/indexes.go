// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	sets := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"applications", ensureApplications},
		{"applicationForms", ensureApplicationForms},
		{"verifications", ensureVerifications},
		{"announcements", ensureAnnouncements},
		{"testimonials", ensureTestimonials},
		{"scholarships", ensureScholarships},
		{"studentDocuments", ensureStudentDocuments},
		{"oauthStates", ensureOAuthStates},
		{"auditEvents", ensureAuditEvents},
		{"loginRecords", ensureLoginRecords},
	}

	var problems []string
	for _, s := range sets {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name        string `bson:"name"`
	Key         bson.D `bson:"key"`
	Unique      *bool  `bson:"unique,omitempty"`
	ExpireAfter *int32 `bson:"expireAfterSeconds,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

func int32Val(i *int32) int32 {
	if i == nil {
		return -1
	}
	return *i
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB returns IndexOptionsConflict when an index with the same keys
// already exists under a different name or with different options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

type desired struct {
	model       mongo.IndexModel
	name        string
	sig         string
	unique      *bool
	expireAfter *int32
}

func describe(m mongo.IndexModel) desired {
	d := desired{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = m.Options.Unique
		d.expireAfter = m.Options.ExpireAfterSeconds
	}
	return d
}

func (d desired) sameOptions(ex existingIndex) bool {
	return boolVal(d.unique) == boolVal(ex.Unique) && int32Val(d.expireAfter) == int32Val(ex.ExpireAfter)
}

// recreate drops ex and creates d in its place.
func recreate(ctx context.Context, coll *mongo.Collection, ex existingIndex, d desired) error {
	if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
		return fmt.Errorf("drop %s failed: %w", ex.Name, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, d.model); err != nil {
		if isDuplicateKeyErr(err) && boolVal(d.unique) {
			return fmt.Errorf("cannot create unique index %s (duplicates present on %s)", d.name, d.sig)
		}
		return err
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		d := describe(m)
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig),
			zap.Bool("unique", boolVal(d.unique)),
		}

		ex, found := listExisting(ctx, coll)[d.sig]
		switch {
		case found && d.sameOptions(ex) && (d.name == "" || ex.Name == d.name):
			zap.L().Debug("reusing existing index", fields...)
			continue

		case found:
			// Same keys, but the name or options differ: drop and recreate.
			if err := recreate(ctx, coll, ex, d); err != nil {
				zap.L().Warn("index recreate failed", append(fields, zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), d.name, err))
				continue
			}
			zap.L().Info("index dropped and recreated",
				append(fields, zap.String("from", ex.Name), zap.Duration("took", time.Since(start)))...)
			continue
		}

		_, err := coll.Indexes().CreateOne(ctx, m)
		if isOptionsConflictErr(err) {
			// Lost a race with another instance; reconcile against what is there now.
			if ex, ok := listExisting(ctx, coll)[d.sig]; ok {
				if d.sameOptions(ex) {
					continue
				}
				err = recreate(ctx, coll, ex, d)
			}
		}
		if err != nil {
			if isDuplicateKeyErr(err) && boolVal(d.unique) {
				err = fmt.Errorf("cannot create unique index (duplicates present)")
			}
			zap.L().Warn("index ensure failed", append(fields, zap.Error(err))...)
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), d.name, err))
			continue
		}
		zap.L().Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		// Not unique: the same mailbox may sign in through two providers.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_users_email"),
		},
		// Presence sweep and online counts.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "lastSeen", Value: 1}},
			Options: options.Index().SetName("idx_users_status_lastseen"),
		},
	})
}

func ensureApplications(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("applications"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trackerCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_applications_trackercode"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("idx_applications_user_submitted"),
		},
		// Admin list filtered by status, newest first.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("idx_applications_status_submitted"),
		},
	})
}

func ensureApplicationForms(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("applicationForms"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "applicationId", Value: 1}},
			Options: options.Index().SetName("idx_applicationforms_application"),
		},
	})
}

func ensureVerifications(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("verifications"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("idx_verifications_user_submitted"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("idx_verifications_status_submitted"),
		},
	})
}

func ensureAnnouncements(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("announcements"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "endDate", Value: -1}},
			Options: options.Index().SetName("idx_announcements_enddate"),
		},
	})
}

func ensureTestimonials(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("testimonials"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "featuredOnLanding", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_testimonials_featured_created"),
		},
	})
}

func ensureScholarships(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("scholarships"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_scholarships_name"),
		},
	})
}

func ensureStudentDocuments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("studentDocuments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "uploadedAt", Value: -1}},
			Options: options.Index().SetName("idx_studentdocuments_user_uploaded"),
		},
	})
}

func ensureOAuthStates(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("oauthStates"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_oauthstates_state"),
		},
		// TTL: Mongo removes a state once expiresAt passes.
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_oauthstates_expires"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("auditEvents"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_audit_created"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_audit_category_created"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_created"),
		},
	})
}

// Dashboards read recent sign-ins from loginRecords.
func ensureLoginRecords(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("loginRecords"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_logins_user_created"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_logins_created"),
		},
	})
}
