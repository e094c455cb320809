// internal/domain/models/applicationform.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationForm is the snapshot of the form a student filled in when applying.
type ApplicationForm struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	ApplicationID primitive.ObjectID `bson:"applicationId" json:"applicationId"`
	ScholarshipID string             `bson:"scholarshipId" json:"scholarshipId"`
	FormData      map[string]string  `bson:"formData" json:"formData"`
	SubmittedAt   time.Time          `bson:"submittedAt" json:"submittedAt"`
}
