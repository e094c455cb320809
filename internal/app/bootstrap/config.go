// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mail providers accepted by mail_provider.
const (
	mailLog      = "log"
	mailSMTP     = "smtp"
	mailSES      = "ses"
	mailSendGrid = "sendgrid"
)

// appConfigKeys defines the configuration keys for ScholarHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, admin_email, etc.
//   - Environment variables: SCHOLARHUB_MONGO_URI, SCHOLARHUB_ADMIN_EMAIL, etc.
//   - Command-line flags: --mongo_uri, --admin_email, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "scholarhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "scholarhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL for OAuth callbacks and email links"},
	{Name: "site_name", Default: "MinSU Scholarship Portal", Desc: "Name used in email subjects and bodies"},

	// Sign-in gate
	{Name: "institution_domain", Default: "minsu.edu.ph", Desc: "Email domain students must sign in with"},
	{Name: "admin_email", Default: "", Desc: "Email address of the administrator account"},

	// Identity providers
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "microsoft_client_id", Default: "", Desc: "Microsoft OAuth2 client ID"},
	{Name: "microsoft_client_secret", Default: "", Desc: "Microsoft OAuth2 client secret"},
	{Name: "microsoft_tenant", Default: "", Desc: "Institution's Microsoft Entra tenant ID (GUID); required with microsoft_client_id"},

	// Email delivery
	{Name: "mail_provider", Default: mailLog, Desc: "Email provider: 'log', 'smtp', 'ses' or 'sendgrid'"},
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@minsu.edu.ph", Desc: "From email address"},
	{Name: "mail_from_name", Default: "MinSU Scholarships", Desc: "From display name"},
	{Name: "mail_ses_region", Default: "", Desc: "AWS region for SES"},
	{Name: "mail_sendgrid_key", Default: "", Desc: "SendGrid API key"},

	// Rate limiting
	{Name: "redis_url", Default: "", Desc: "Redis URL for shared rate limits (blank keeps limits in memory)"},
	{Name: "track_rate_limit", Default: 30, Desc: "Tracking lookups allowed per minute per client IP"},
	{Name: "trusted_proxy_hops", Default: 0, Desc: "Reverse proxies that append X-Forwarded-For (0 ignores the header)"},

	{Name: "presence_timeout", Default: "5m", Desc: "Mark users offline after this long without a heartbeat"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, SCHOLARHUB_* for app) and
// command-line flags with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SCHOLARHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		BaseURL:  strings.TrimRight(appValues.String("base_url"), "/"),
		SiteName: appValues.String("site_name"),

		InstitutionDomain: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(appValues.String("institution_domain")), "@")),
		AdminEmail:        strings.ToLower(strings.TrimSpace(appValues.String("admin_email"))),

		GoogleClientID:        appValues.String("google_client_id"),
		GoogleClientSecret:    appValues.String("google_client_secret"),
		MicrosoftClientID:     appValues.String("microsoft_client_id"),
		MicrosoftClientSecret: appValues.String("microsoft_client_secret"),
		MicrosoftTenant:       strings.ToLower(strings.TrimSpace(appValues.String("microsoft_tenant"))),

		MailProvider:    strings.ToLower(appValues.String("mail_provider")),
		MailSMTPHost:    appValues.String("mail_smtp_host"),
		MailSMTPPort:    appValues.Int("mail_smtp_port"),
		MailSMTPUser:    appValues.String("mail_smtp_user"),
		MailSMTPPass:    appValues.String("mail_smtp_pass"),
		MailFrom:        appValues.String("mail_from"),
		MailFromName:    appValues.String("mail_from_name"),
		MailSESRegion:   appValues.String("mail_ses_region"),
		MailSendGridKey: appValues.String("mail_sendgrid_key"),

		RedisURL:         appValues.String("redis_url"),
		TrackRateLimit:   appValues.Int("track_rate_limit"),
		TrustedProxyHops: appValues.Int("trusted_proxy_hops"),

		PresenceTimeout: appValues.Duration("presence_timeout", 5*time.Minute),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before any connection is attempted. The
// sign-in gate needs both the admin address and the institution domain,
// and the selected mail provider must have its credentials.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(appCfg)
}

// validateApp holds the checks that do not need a logger.
func validateApp(appCfg AppConfig) error {
	if appCfg.AdminEmail == "" {
		return fmt.Errorf("admin_email is required")
	}
	if !strings.Contains(appCfg.AdminEmail, "@") {
		return fmt.Errorf("admin_email %q is not an email address", appCfg.AdminEmail)
	}
	if appCfg.InstitutionDomain == "" {
		return fmt.Errorf("institution_domain is required")
	}
	if appCfg.TrackRateLimit < 0 {
		return fmt.Errorf("track_rate_limit must not be negative")
	}
	if appCfg.TrustedProxyHops < 0 {
		return fmt.Errorf("trusted_proxy_hops must not be negative")
	}
	// Multi-tenant endpoints let any Entra directory assert any address.
	if appCfg.MicrosoftClientID != "" {
		if _, err := uuid.Parse(appCfg.MicrosoftTenant); err != nil {
			return fmt.Errorf("microsoft_tenant must be the institution's tenant ID, got %q", appCfg.MicrosoftTenant)
		}
	}

	switch appCfg.MailProvider {
	case mailLog:
	case mailSMTP:
		if appCfg.MailSMTPHost == "" || appCfg.MailSMTPPort <= 0 {
			return fmt.Errorf("mail_provider smtp requires mail_smtp_host and mail_smtp_port")
		}
	case mailSES:
		if appCfg.MailSESRegion == "" {
			return fmt.Errorf("mail_provider ses requires mail_ses_region")
		}
	case mailSendGrid:
		if appCfg.MailSendGridKey == "" {
			return fmt.Errorf("mail_provider sendgrid requires mail_sendgrid_key")
		}
	default:
		return fmt.Errorf("unknown mail_provider %q (want log, smtp, ses or sendgrid)", appCfg.MailProvider)
	}
	if appCfg.MailProvider != mailLog && appCfg.MailFrom == "" {
		return fmt.Errorf("mail_from is required when mail_provider is %s", appCfg.MailProvider)
	}
	return nil
}
