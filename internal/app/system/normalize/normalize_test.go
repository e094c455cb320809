package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"student@minsu.edu.ph", "student@minsu.edu.ph"},
		{"STUDENT@MINSU.EDU.PH", "student@minsu.edu.ph"},
		{"  Juan.Dela@Minsu.Edu.Ph  ", "juan.dela@minsu.edu.ph"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Juan Dela Cruz", "Juan Dela Cruz"},
		{"  Juan   Dela  Cruz ", "Juan Dela Cruz"},
		{"", ""},
		{"MARIA CLARA", "MARIA CLARA"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"admin", "admin"},
		{" ADMIN ", "admin"},
		{"student", "student"},
		{"", "student"},
		{"superadmin", "student"},
	}
	for _, tt := range tests {
		if got := Role(tt.input); got != tt.want {
			t.Errorf("Role(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDomain(t *testing.T) {
	if got := Domain(" @MINSU.edu.ph "); got != "minsu.edu.ph" {
		t.Errorf("Domain() = %q", got)
	}
}

func TestQueryParam(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	if got := QueryParam(string(long)); len(got) != 200 {
		t.Errorf("QueryParam length = %d, want 200", len(got))
	}
	if got := QueryParam("  approved "); got != "approved" {
		t.Errorf("QueryParam() = %q", got)
	}
}
