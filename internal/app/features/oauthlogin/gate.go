// internal/app/features/oauthlogin/gate.go
package oauthlogin

import (
	"strings"

	"github.com/dalemusser/scholarhub/internal/app/system/normalize"
	"github.com/dalemusser/scholarhub/internal/domain/models"
)

// Classify applies the sign-in gate. The configured admin address gets the
// admin role, institutional addresses get the student role, and everything
// else is refused.
func Classify(email, adminEmail, domain string) (role string, ok bool) {
	email = normalize.Email(email)
	if email == "" {
		return "", false
	}
	if adminEmail != "" && email == normalize.Email(adminEmail) {
		return models.RoleAdmin, true
	}
	domain = normalize.Domain(domain)
	if domain != "" && strings.HasSuffix(email, "@"+domain) {
		return models.RoleStudent, true
	}
	return "", false
}
