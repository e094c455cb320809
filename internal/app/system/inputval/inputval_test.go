package inputval

import (
	"errors"
	"testing"

	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
)

func TestValidate(t *testing.T) {
	type reviewInput struct {
		Status  string `json:"status" validate:"required,appstatus" label:"Status"`
		Remarks string `json:"adminRemarks" validate:"max=10" label:"Remarks"`
	}

	tests := []struct {
		name      string
		in        reviewInput
		wantField string
		wantFirst string
	}{
		{"valid", reviewInput{Status: "approved"}, "", ""},
		{"missing status", reviewInput{}, "status", "Status is required."},
		{"unknown status", reviewInput{Status: "archived"}, "status", "Status must be one of: pending, under-review, approved, rejected."},
		{"remarks too long", reviewInput{Status: "rejected", Remarks: "far too long for this"}, "adminRemarks", "Remarks must be at most 10 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.in)
			if tt.wantFirst == "" {
				if res.HasErrors() {
					t.Fatalf("unexpected errors: %v", res.Errors)
				}
				return
			}
			if res.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", res.First(), tt.wantFirst)
			}
			if res.Errors[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", res.Errors[0].Field, tt.wantField)
			}
		})
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type trackInput struct {
		Code string `json:"code" validate:"required,trackercode" label:"Tracking code"`
	}
	type idInput struct {
		ID string `json:"id" validate:"required,objectid" label:"Scholarship"`
	}
	type yearInput struct {
		YearLevel string `json:"yearLevel" validate:"required,yearlevel" label:"Year level"`
	}
	type ratingInput struct {
		Rating int `json:"rating" validate:"min=1,max=5" label:"Rating"`
	}

	tests := []struct {
		name    string
		in      any
		wantErr bool
	}{
		{"tracker ok", trackInput{Code: "MINSU-2025-0101-123456"}, false},
		{"tracker bad", trackInput{Code: "MINSU-2025-0101-123"}, true},
		{"objectid ok", idInput{ID: "507f1f77bcf86cd799439011"}, false},
		{"objectid bad", idInput{ID: "merit"}, true},
		{"year ok", yearInput{YearLevel: "4th Year"}, false},
		{"year bad", yearInput{YearLevel: "Senior"}, true},
		{"rating ok", ratingInput{Rating: 5}, false},
		{"rating zero", ratingInput{Rating: 0}, true},
		{"rating six", ratingInput{Rating: 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.in).HasErrors(); got != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestResult_Err(t *testing.T) {
	r := &Result{}
	if r.Err() != nil {
		t.Error("Err() on empty result should be nil")
	}
	r.Errors = []FieldError{{Field: "to", Message: "A valid email address is required."}, {Message: "second"}}
	err := r.Err()
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Field != "to" {
		t.Errorf("Err() = %v, want validation error on field to", err)
	}
	if r.All() != "A valid email address is required.; second" {
		t.Errorf("All() = %q", r.All())
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"juan@minsu.edu.ph", true},
		{"juan+apps@minsu.edu.ph", true},
		{"", false},
		{"   ", false},
		{"juan", false},
		{"juan@", false},
		{"@minsu.edu.ph", false},
	}
	for _, tt := range tests {
		if got := IsValidEmail(tt.in); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID(" 507f1f77bcf86cd799439011 ") {
		t.Error("trimmed id should be valid")
	}
	if IsValidObjectID("507f1f77bcf86cd79943901") {
		t.Error("23 chars should be invalid")
	}
}
