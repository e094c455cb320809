// Package annstatus derives the effective status of an announcement.
// The status is never stored; every view computes it with Effective.
package annstatus

import (
	"time"

	"github.com/dalemusser/scholarhub/internal/domain/models"
)

// Status is the derived state of an announcement.
type Status string

const (
	Active   Status = "active"
	Incoming Status = "incoming"
	Archived Status = "archived"
)

// Grace is how long an announcement stays active after its end date.
const Grace = 48 * time.Hour

// Effective returns the status at now:
//   - start set and now before start: incoming
//   - now at or before end+Grace: active
//   - otherwise archived
func Effective(start *time.Time, end, now time.Time) Status {
	if start != nil && !start.IsZero() && now.Before(*start) {
		return Incoming
	}
	if !now.After(end.Add(Grace)) {
		return Active
	}
	return Archived
}

// Of is Effective applied to an announcement.
func Of(a models.Announcement, now time.Time) Status {
	return Effective(a.StartDate, a.EndDate, now)
}
