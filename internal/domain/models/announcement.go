// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel values accepted in Announcement.TargetScholarships meaning "every scholarship".
const (
	TargetAll             = "all"
	TargetAllScholarships = "allScholarships"
)

// Announcement is an admin notice. Its effective status (active, incoming,
// archived) is derived from the dates at read time and never stored.
//
// TargetScholarships is decoded from either a string sentinel or an array;
// see Targets.
type Announcement struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Description        string             `bson:"description" json:"description"`
	TargetScholarships interface{}        `bson:"targetScholarships,omitempty" json:"targetScholarships,omitempty"`
	TargetYearLevel    string             `bson:"targetYearLevel,omitempty" json:"targetYearLevel,omitempty"`
	StartDate          *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate            time.Time          `bson:"endDate" json:"endDate"`
	Venue              string             `bson:"venue,omitempty" json:"venue,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Targets normalizes TargetScholarships. It returns (nil, true) when the
// announcement is addressed to every scholarship.
func (a Announcement) Targets() (names []string, everyone bool) {
	switch v := a.TargetScholarships.(type) {
	case nil:
		return nil, true
	case string:
		if v == "" || v == TargetAll || v == TargetAllScholarships {
			return nil, true
		}
		return []string{v}, false
	case []string:
		return targetsFromList(v)
	case primitive.A:
		list := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
		return targetsFromList(list)
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
		return targetsFromList(list)
	}
	return nil, true
}

func targetsFromList(list []string) ([]string, bool) {
	if len(list) == 0 {
		return nil, true
	}
	for _, s := range list {
		if s == TargetAll || s == TargetAllScholarships {
			return nil, true
		}
	}
	return list, false
}
