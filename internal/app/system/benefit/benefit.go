// Package benefit resolves the benefit amount and description shown for an
// application. Every caller that displays benefit data goes through Resolve.
package benefit

import (
	"strings"

	"github.com/dalemusser/scholarhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotAvailable is shown when no source in the chain has a value.
const NotAvailable = "N/A"

// Entry is one row of the static fallback table.
type Entry struct {
	Amount  string
	Benefit string
}

// Table maps an exact scholarship name to fallback benefit data.
type Table map[string]Entry

// Static is the built-in fallback table for the institution's long-running programs.
var Static = Table{
	"Merit Scholarship": {
		Amount:  "Up to ₱80,000/year (SUC)",
		Benefit: "Free tuition and miscellaneous fees with a semestral book allowance",
	},
	"Tertiary Education Subsidy (TES)": {
		Amount:  "₱20,000/semester",
		Benefit: "Financial assistance for education and living expenses",
	},
	"CHED Tulong Dunong Program": {
		Amount:  "₱7,500/semester",
		Benefit: "Grant-in-aid for tuition and school fees",
	},
	"DOST-SEI Undergraduate Scholarship": {
		Amount:  "₱40,000/year",
		Benefit: "Tuition subsidy, book allowance and monthly stipend",
	},
}

// Target is what the chain resolves for: the fields stored on an application.
type Target struct {
	ScholarshipID   string
	ScholarshipName string
	BenefitAmount   string
	Benefit         string
}

// FromApplication builds a Target from a stored application.
func FromApplication(a models.Application) Target {
	return Target{
		ScholarshipID:   a.ScholarshipID,
		ScholarshipName: a.ScholarshipName,
		BenefitAmount:   a.BenefitAmount,
		Benefit:         a.Benefit,
	}
}

// Result holds the resolved values. Neither field is ever empty.
type Result struct {
	Amount  string `json:"benefitAmount"`
	Benefit string `json:"benefit"`
}

// Resolve runs the chain independently for the amount and the description:
//
//  1. value stored on the application
//  2. live scholarship matched by id (raw id or its hex string)
//  3. live scholarship matched by name
//  4. static table entry for the exact name
//  5. "N/A"
//
// Empty strings count as absent at every step. The live amount reads
// benefitAmount first, then the older amount field.
func Resolve(t Target, live []models.Scholarship, static Table) Result {
	byID := findByID(live, t.ScholarshipID)
	byName := findByName(live, t.ScholarshipName)
	st, hasStatic := static[t.ScholarshipName]

	amount := first(
		t.BenefitAmount,
		liveAmount(byID),
		liveAmount(byName),
		staticField(hasStatic, st.Amount),
	)
	desc := first(
		t.Benefit,
		liveBenefit(byID),
		liveBenefit(byName),
		staticField(hasStatic, st.Benefit),
	)
	return Result{Amount: amount, Benefit: desc}
}

// ForScholarship resolves benefit data for a scholarship on its own, as shown
// on scholarship listings: the document's own fields, then the static table.
func ForScholarship(s models.Scholarship, static Table) Result {
	return Resolve(Target{
		ScholarshipID:   s.ID.Hex(),
		ScholarshipName: s.Name,
	}, []models.Scholarship{s}, static)
}

func findByID(live []models.Scholarship, id string) *models.Scholarship {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	oid, oidErr := primitive.ObjectIDFromHex(id)
	for i := range live {
		s := &live[i]
		if s.ID.IsZero() {
			continue
		}
		if oidErr == nil && s.ID == oid {
			return s
		}
		if s.ID.Hex() == id {
			return s
		}
	}
	return nil
}

func findByName(live []models.Scholarship, name string) *models.Scholarship {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	for i := range live {
		if live[i].Name == name {
			return &live[i]
		}
	}
	return nil
}

func liveAmount(s *models.Scholarship) string {
	if s == nil {
		return ""
	}
	if v := strings.TrimSpace(s.BenefitAmount); v != "" {
		return s.BenefitAmount
	}
	return s.Amount
}

func liveBenefit(s *models.Scholarship) string {
	if s == nil {
		return ""
	}
	return s.Benefit
}

func staticField(ok bool, v string) string {
	if !ok {
		return ""
	}
	return v
}

func first(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return NotAvailable
}
