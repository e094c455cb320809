// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application statuses. Status is stored as a free-form string; these are the
// values admin review may set. Anything else is displayed as pending.
const (
	StatusPending     = "pending"
	StatusUnderReview = "under-review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

// ApplicationStatuses lists the statuses an admin may assign, in workflow order.
var ApplicationStatuses = []string{StatusPending, StatusUnderReview, StatusApproved, StatusRejected}

// AttachedFile is a file embedded in a document as a base64 data URI.
type AttachedFile struct {
	Name    string `bson:"name" json:"name"`
	DataURI string `bson:"dataURI" json:"dataURI"`
}

// Application is a student's submission for one scholarship.
//
// ScholarshipID is stored as a string because older records carry ids that are
// not ObjectIDs. BenefitAmount/Benefit may be empty; they are resolved at read
// time (see system/benefit).
type Application struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	ScholarshipID   string             `bson:"scholarshipId,omitempty" json:"scholarshipId,omitempty"`
	ScholarshipName string             `bson:"scholarshipName" json:"scholarshipName"`
	TrackerCode     string             `bson:"trackerCode" json:"trackerCode"`
	Status          string             `bson:"status" json:"status"`
	SubmittedAt     time.Time          `bson:"submittedAt" json:"submittedAt"`

	BenefitAmount string `bson:"benefitAmount,omitempty" json:"benefitAmount,omitempty"`
	Benefit       string `bson:"benefit,omitempty" json:"benefit,omitempty"`

	FormData map[string]string `bson:"formData,omitempty" json:"formData,omitempty"`
	Files    []AttachedFile    `bson:"files,omitempty" json:"files,omitempty"`

	AdminRemarks string     `bson:"adminRemarks,omitempty" json:"adminRemarks,omitempty"`
	ReviewedAt   *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy   string     `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
}
