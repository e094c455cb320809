// Package appstatus maps an application status to how it is presented.
package appstatus

import (
	"strings"

	"github.com/dalemusser/scholarhub/internal/domain/models"
)

// Presentation is the display form of a status.
type Presentation struct {
	Status      string `json:"status"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var presentations = map[string]Presentation{
	models.StatusPending: {
		Status:      models.StatusPending,
		Label:       "Pending",
		Color:       "amber",
		Icon:        "clock",
		Description: "Your application has been received and is waiting to be reviewed.",
	},
	models.StatusUnderReview: {
		Status:      models.StatusUnderReview,
		Label:       "Under Review",
		Color:       "blue",
		Icon:        "search",
		Description: "The scholarship office is currently reviewing your application.",
	},
	models.StatusApproved: {
		Status:      models.StatusApproved,
		Label:       "Approved",
		Color:       "emerald",
		Icon:        "check-circle",
		Description: "Congratulations! Your application has been approved.",
	},
	models.StatusRejected: {
		Status:      models.StatusRejected,
		Label:       "Rejected",
		Color:       "red",
		Icon:        "x-circle",
		Description: "Unfortunately your application was not approved this time.",
	},
}

// Present returns the presentation for status. Unknown or empty values get the
// pending presentation.
func Present(status string) Presentation {
	if p, ok := presentations[strings.ToLower(strings.TrimSpace(status))]; ok {
		return p
	}
	return presentations[models.StatusPending]
}

// IsKnown reports whether status is one of the four workflow statuses.
func IsKnown(status string) bool {
	_, ok := presentations[status]
	return ok
}
