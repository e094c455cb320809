// internal/domain/models/profileform.go
package models

import "time"

// StudentProfileForm holds the student's profile details. There is one
// document per user; its _id is the user's uid.
type StudentProfileForm struct {
	UserID         string    `bson:"_id" json:"userId"`
	FullName       string    `bson:"fullName" json:"fullName"`
	StudentNumber  string    `bson:"studentNumber" json:"studentNumber"`
	Course         string    `bson:"course" json:"course"`
	Major          string    `bson:"major,omitempty" json:"major,omitempty"`
	YearLevel      string    `bson:"yearLevel" json:"yearLevel"`
	Campus         string    `bson:"campus" json:"campus"`
	ContactNumber  string    `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	SecondaryEmail string    `bson:"secondaryEmail,omitempty" json:"secondaryEmail,omitempty"`
	Address        string    `bson:"address,omitempty" json:"address,omitempty"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
