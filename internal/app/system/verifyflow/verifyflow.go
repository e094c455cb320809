// Package verifyflow holds the rules of the three-step identity verification wizard.
package verifyflow

import (
	"strings"

	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/domain/models"
)

// Wizard steps.
const (
	StepDetails   = 1
	StepDocuments = 2
	StepReview    = 3
)

// YearLevels are the accepted year level options.
var YearLevels = []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "5th Year"}

// Views returned to the client.
const (
	ViewTerminal = "terminal"
	ViewWizard   = "wizard"
)

// Input is what the wizard has collected so far.
type Input struct {
	YearLevel  string
	Address    string
	HasIDFront bool
	HasIDBack  bool
	HasCOR     bool
}

// IsYearLevel reports whether v is one of YearLevels.
func IsYearLevel(v string) bool {
	for _, y := range YearLevels {
		if y == v {
			return true
		}
	}
	return false
}

// ValidateStep checks the fields owned by step. Step 3 is a review step and
// has nothing of its own to check.
func ValidateStep(step int, in Input) error {
	switch step {
	case StepDetails:
		if strings.TrimSpace(in.YearLevel) == "" {
			return apperr.Validation("yearLevel", "Please select your year level.")
		}
		if !IsYearLevel(in.YearLevel) {
			return apperr.Validation("yearLevel", "Please select a valid year level.")
		}
		if strings.TrimSpace(in.Address) == "" {
			return apperr.Validation("address", "Please enter your address.")
		}
		return nil
	case StepDocuments:
		if !in.HasIDFront {
			return apperr.Validation("idFront", "Please upload the front of your school ID.")
		}
		if !in.HasIDBack {
			return apperr.Validation("idBack", "Please upload the back of your school ID.")
		}
		if !in.HasCOR {
			return apperr.Validation("cor", "Please upload your Certificate of Registration.")
		}
		return nil
	case StepReview:
		return nil
	}
	return apperr.Validation("step", "Unknown verification step.")
}

// ValidateAll runs every step in order and returns the first failure.
func ValidateAll(in Input) error {
	for step := StepDetails; step <= StepReview; step++ {
		if err := ValidateStep(step, in); err != nil {
			return err
		}
	}
	return nil
}

// Blocks reports whether the latest verification keeps the student out of
// the wizard. Declined submissions do not block; the student may resubmit.
func Blocks(latest *models.Verification) bool {
	if latest == nil {
		return false
	}
	switch latest.Status {
	case models.VerificationPending, models.VerificationVerified:
		return true
	}
	return false
}

// View picks the screen to show for the latest verification.
func View(latest *models.Verification) string {
	if Blocks(latest) {
		return ViewTerminal
	}
	return ViewWizard
}
