// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// Values come from environment variables (SCHOLARHUB_*), config files or
// flags, loaded in LoadConfig. WAFFLE's CoreConfig covers ports, TLS,
// logging and CORS; everything below is ScholarHub's own.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // e.g. mongodb://localhost:27017
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret for signing session cookies (must be strong in production)
	SessionName   string // cookie name (default: scholarhub-session)
	SessionDomain string // cookie domain (blank means current host)

	// BaseURL is the public origin used for OAuth callbacks and links in email.
	BaseURL  string
	SiteName string

	// Sign-in gate
	InstitutionDomain string // students must sign in with an address at this domain
	AdminEmail        string // the single administrator account

	// Identity providers. A provider with an empty client ID is disabled.
	GoogleClientID        string
	GoogleClientSecret    string
	MicrosoftClientID     string
	MicrosoftClientSecret string
	MicrosoftTenant       string // institution's Entra tenant ID; required when Microsoft is enabled

	// Email delivery
	MailProvider    string // log, smtp, ses or sendgrid
	MailSMTPHost    string
	MailSMTPPort    int
	MailSMTPUser    string
	MailSMTPPass    string
	MailFrom        string
	MailFromName    string
	MailSESRegion   string
	MailSendGridKey string

	// Rate limiting for public tracking lookups. Empty RedisURL keeps the
	// counters in process memory.
	RedisURL       string
	TrackRateLimit int // lookups per minute per client IP

	// TrustedProxyHops is how many reverse proxies append X-Forwarded-For.
	// Zero keys rate limits and audit entries on the socket address.
	TrustedProxyHops int

	// PresenceTimeout is how long a user stays "online" without a heartbeat.
	PresenceTimeout time.Duration

	// Audit logging: all, db, log or off
	AuditLogAuth  string
	AuditLogAdmin string
}
