// internal/domain/models/scholarship.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Requirement is one item a scholarship asks applicants to provide.
type Requirement struct {
	Label    string `bson:"label" json:"label"`
	Required bool   `bson:"required" json:"required"`
}

// Scholarship is a program students can apply to. Either BenefitAmount or the
// older Amount field may carry the monetary value.
type Scholarship struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Benefit       string             `bson:"benefit,omitempty" json:"benefit,omitempty"`
	BenefitAmount string             `bson:"benefitAmount,omitempty" json:"benefitAmount,omitempty"`
	Amount        string             `bson:"amount,omitempty" json:"amount,omitempty"`
	Requirements  []Requirement      `bson:"requirements,omitempty" json:"requirements,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
