// internal/domain/models/user.go
package models

import "time"

// Presence values stored in User.Status.
const (
	PresenceOnline  = "online"
	PresenceOffline = "offline"
)

// Roles stored in User.Role.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is a signed-in account. The _id is the identity provider subject
// prefixed by the provider name ("google:1234", "microsoft:abcd").
//
// NOTE:
//   - Created on first sign-in by a merge-upsert; profile fields are then
//     refreshed on every sign-in.
//   - Status/LastSeen are presence, not an account state.
type User struct {
	UID           string `bson:"_id" json:"uid"`
	Email         string `bson:"email" json:"email"`
	FullName      string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	DisplayName   string `bson:"displayName,omitempty" json:"displayName,omitempty"`
	StudentNumber string `bson:"studentNumber,omitempty" json:"studentNumber,omitempty"`
	Course        string `bson:"course,omitempty" json:"course,omitempty"`
	Major         string `bson:"major,omitempty" json:"major,omitempty"`
	YearLevel     string `bson:"yearLevel,omitempty" json:"yearLevel,omitempty"`
	Campus        string `bson:"campus,omitempty" json:"campus,omitempty"`
	PhotoURL      string `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Provider      string `bson:"provider,omitempty" json:"provider,omitempty"`
	Role          string `bson:"role" json:"role"`     // student | admin
	Status        string `bson:"status" json:"status"` // online | offline

	ApplicationFormCompleted bool `bson:"applicationFormCompleted" json:"applicationFormCompleted"`
	ProfileCompleted         bool `bson:"profileCompleted" json:"profileCompleted"`

	LastSeen  *time.Time `bson:"lastSeen,omitempty" json:"lastSeen,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Name returns the best available human name for the user.
func (u User) Name() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
