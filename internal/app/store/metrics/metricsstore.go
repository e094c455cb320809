package metricsstore

import (
	"context"

	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	Students      int64 `json:"students"`
	Admins        int64 `json:"admins"`
	UsersOnline   int64 `json:"usersOnline"`
	Scholarships  int64 `json:"scholarships"`
	Applications  int64 `json:"applications"`
	Verifications int64 `json:"verifications"`
	Testimonials  int64 `json:"testimonials"`
	Featured      int64 `json:"featuredTestimonials"`
	Documents     int64 `json:"documents"`
}

// FetchDashboardCounts returns the high-level counts used by the dashboard.
// Tolerant: a failed count is reported as 0.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts
	count := func(coll string, filter bson.M, dst *int64) {
		if n, err := db.Collection(coll).CountDocuments(ctx, filter); err == nil {
			*dst = n
		}
	}

	count("users", bson.M{"role": models.RoleStudent}, &out.Students)
	count("users", bson.M{"role": models.RoleAdmin}, &out.Admins)
	count("users", bson.M{"status": models.PresenceOnline}, &out.UsersOnline)
	count("scholarships", bson.M{}, &out.Scholarships)
	count("applications", bson.M{}, &out.Applications)
	count("verifications", bson.M{}, &out.Verifications)
	count("testimonials", bson.M{}, &out.Testimonials)
	count("testimonials", bson.M{"featuredOnLanding": true}, &out.Featured)
	count("studentDocuments", bson.M{}, &out.Documents)

	return out
}
