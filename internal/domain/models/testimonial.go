// internal/domain/models/testimonial.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Testimonial is a scholar's published feedback. Immutable after creation
// except for the landing-page flag.
type Testimonial struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"userId" json:"userId"`
	Name              string             `bson:"name" json:"name"`
	Testimonial       string             `bson:"testimonial" json:"testimonial"`
	Rating            int                `bson:"rating" json:"rating"` // 1..5
	Scholarship       string             `bson:"scholarship,omitempty" json:"scholarship,omitempty"`
	Course            string             `bson:"course,omitempty" json:"course,omitempty"`
	Campus            string             `bson:"campus,omitempty" json:"campus,omitempty"`
	FeaturedOnLanding bool               `bson:"featuredOnLanding,omitempty" json:"featuredOnLanding"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
