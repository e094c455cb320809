// internal/app/features/oauthlogin/providers.go
package oauthlogin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
)

// Profile is the subset of the provider's user info we keep.
type Profile struct {
	Subject  string
	Email    string
	Name     string
	Picture  string
	TenantID string // Entra directory that issued the token; empty for Google
}

// ProfileFunc loads the signed-in user's profile. client carries the access
// token; token is the full exchange result including any ID token.
type ProfileFunc func(ctx context.Context, client *http.Client, token *oauth2.Token) (Profile, error)

// Provider is one configured identity provider.
type Provider struct {
	Name    string
	Config  *oauth2.Config
	Profile ProfileFunc

	// Tenant, when set, is the only directory whose users may sign in.
	// Profiles from any other tenant are refused.
	Tenant string

	requireTenant bool
}

// Configured reports whether the provider has client credentials, and for
// Microsoft a single-tenant ID.
func (p *Provider) Configured() bool {
	if p == nil || p.Config == nil || p.Config.ClientID == "" || p.Config.ClientSecret == "" {
		return false
	}
	if p.requireTenant {
		if _, err := uuid.Parse(p.Tenant); err != nil {
			return false
		}
	}
	return true
}

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	graphMeURL        = "https://graph.microsoft.com/v1.0/me"
)

// NewGoogle returns the Google provider.
func NewGoogle(clientID, clientSecret, baseURL string) *Provider {
	return &Provider{
		Name: "google",
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		Profile: googleProfile,
	}
}

// NewMicrosoft returns the Microsoft provider for one Entra tenant. tenant
// must be the directory's GUID: the multi-tenant "common" and
// "organizations" endpoints leave the provider unconfigured.
func NewMicrosoft(clientID, clientSecret, tenant, baseURL string) *Provider {
	tenant = strings.ToLower(strings.TrimSpace(tenant))
	return &Provider{
		Name: "microsoft",
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/microsoft/callback",
			Scopes:       []string{"openid", "email", "profile", "User.Read"},
			Endpoint:     microsoft.AzureADEndpoint(tenant),
		},
		Profile:       microsoftProfileFrom(graphMeURL),
		Tenant:        tenant,
		requireTenant: true,
	}
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func googleProfile(ctx context.Context, client *http.Client, _ *oauth2.Token) (Profile, error) {
	var info googleUserInfo
	if err := getJSON(ctx, client, googleUserInfoURL, &info); err != nil {
		return Profile{}, err
	}
	return Profile{Subject: info.ID, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}

type graphUser struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// microsoftProfileFrom reads the Graph /me document at graphURL. The email
// is the userPrincipalName, which the tenant's admins assign; mail is
// user-editable in some directories and is ignored. Guest accounts
// (#EXT# principals) get no email and fail the domain gate.
func microsoftProfileFrom(graphURL string) ProfileFunc {
	return func(ctx context.Context, client *http.Client, token *oauth2.Token) (Profile, error) {
		tid, err := tenantFromIDToken(token)
		if err != nil {
			return Profile{}, err
		}
		var me graphUser
		if err := getJSON(ctx, client, graphURL, &me); err != nil {
			return Profile{}, err
		}
		email := me.UserPrincipalName
		if strings.Contains(strings.ToUpper(email), "#EXT#") {
			email = ""
		}
		return Profile{Subject: me.ID, Email: email, Name: me.DisplayName, TenantID: tid}, nil
	}
}

// tenantFromIDToken returns the tid claim of the ID token returned with the
// access token. The token comes straight from the token endpoint over TLS,
// so its signature is not checked here.
func tenantFromIDToken(token *oauth2.Token) (string, error) {
	raw, _ := token.Extra("id_token").(string)
	if raw == "" {
		return "", fmt.Errorf("token response has no id_token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", fmt.Errorf("parse id_token: %w", err)
	}
	tid, _ := claims["tid"].(string)
	if tid == "" {
		return "", fmt.Errorf("id_token has no tid claim")
	}
	return strings.ToLower(tid), nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode user info: %w", err)
	}
	return nil
}
