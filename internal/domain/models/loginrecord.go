// internal/domain/models/loginrecord.go
package models

import "time"

// LoginRecord captures a single successful sign-in.
// CreatedAt is indexed for recent-activity views.
type LoginRecord struct {
	UserID    string    `bson:"userId"`
	CreatedAt time.Time `bson:"createdAt"`
	IP        string    `bson:"ip"`
	Provider  string    `bson:"provider"`
}
