// internal/domain/models/authproviders.go
package models

import "strings"

// AuthProvider is an identity provider option offered on the sign-in screen.
type AuthProvider struct {
	Value string // The value stored on the user and used in /auth/{provider}
	Label string // The display label in the UI
}

// AllAuthProviders contains every identity provider the portal can delegate to.
var AllAuthProviders = []AuthProvider{
	{Value: "google", Label: "Google"},
	{Value: "microsoft", Label: "Microsoft"},
}

// IsValidAuthProvider checks if a value names a supported provider.
func IsValidAuthProvider(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, p := range AllAuthProviders {
		if p.Value == value {
			return true
		}
	}
	return false
}

// AuthProviderLabel returns the display label for a provider value,
// or the value itself when unknown.
func AuthProviderLabel(value string) string {
	for _, p := range AllAuthProviders {
		if p.Value == value {
			return p.Label
		}
	}
	return value
}
