// internal/domain/models/verification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verification statuses.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationDeclined = "declined"
)

// Verification is one identity-verification submission. The three document
// fields hold base64 data URIs.
type Verification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"userId" json:"userId"`
	FullName       string             `bson:"fullName" json:"fullName"`
	Email          string             `bson:"email" json:"email"`
	SecondaryEmail string             `bson:"secondaryEmail,omitempty" json:"secondaryEmail,omitempty"`
	StudentNumber  string             `bson:"studentNumber,omitempty" json:"studentNumber,omitempty"`
	Course         string             `bson:"course,omitempty" json:"course,omitempty"`
	Campus         string             `bson:"campus,omitempty" json:"campus,omitempty"`
	YearLevel      string             `bson:"yearLevel" json:"yearLevel"`
	Address        string             `bson:"address" json:"address"`

	IDFront string `bson:"idFront" json:"idFront,omitempty"`
	IDBack  string `bson:"idBack" json:"idBack,omitempty"`
	COR     string `bson:"cor" json:"cor,omitempty"`

	Status        string     `bson:"status" json:"status"`
	SubmittedAt   time.Time  `bson:"submittedAt" json:"submittedAt"`
	ReviewedAt    *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewRemarks string     `bson:"reviewRemarks,omitempty" json:"reviewRemarks,omitempty"`
}
