// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/dalemusser/scholarhub/internal/domain/models"
)

// Email lowercases and trims an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a person's name, preserving case, and collapses inner whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role maps stored role values to student or admin; anything unrecognized is student.
func Role(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), models.RoleAdmin) {
		return models.RoleAdmin
	}
	return models.RoleStudent
}

// Provider lowercases an identity provider name.
func Provider(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Domain lowercases a domain and strips a leading "@".
func Domain(s string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "@")
}

// QueryParam trims a query string value and caps its length.
func QueryParam(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
