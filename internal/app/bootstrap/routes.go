// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	announcementsfeature "github.com/dalemusser/scholarhub/internal/app/features/announcements"
	applicationsfeature "github.com/dalemusser/scholarhub/internal/app/features/applications"
	auditlogfeature "github.com/dalemusser/scholarhub/internal/app/features/auditlog"
	dashboardfeature "github.com/dalemusser/scholarhub/internal/app/features/dashboard"
	emailfeature "github.com/dalemusser/scholarhub/internal/app/features/email"
	healthfeature "github.com/dalemusser/scholarhub/internal/app/features/health"
	"github.com/dalemusser/scholarhub/internal/app/features/oauthlogin"
	profilefeature "github.com/dalemusser/scholarhub/internal/app/features/profile"
	scholarshipsfeature "github.com/dalemusser/scholarhub/internal/app/features/scholarships"
	sessionfeature "github.com/dalemusser/scholarhub/internal/app/features/session"
	testimonialsfeature "github.com/dalemusser/scholarhub/internal/app/features/testimonials"
	"github.com/dalemusser/scholarhub/internal/app/features/tracking"
	verificationfeature "github.com/dalemusser/scholarhub/internal/app/features/verification"
	"github.com/dalemusser/scholarhub/internal/app/store/applications"
	"github.com/dalemusser/scholarhub/internal/app/store/audit"
	loginstore "github.com/dalemusser/scholarhub/internal/app/store/logins"
	"github.com/dalemusser/scholarhub/internal/app/store/oauthstate"
	"github.com/dalemusser/scholarhub/internal/app/store/scholarships"
	userstore "github.com/dalemusser/scholarhub/internal/app/store/users"
	"github.com/dalemusser/scholarhub/internal/app/system/auditlog"
	"github.com/dalemusser/scholarhub/internal/app/system/auth"
	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"github.com/dalemusser/scholarhub/internal/app/system/metrics"
	"github.com/dalemusser/scholarhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. ScholarHub builds the session manager, mailer,
// audit logger and rate limiter once and hands them to each feature.
//
// Layout:
//
//	/health, /metrics            probes
//	/auth/{provider}[/callback]  sign-in
//	/logout, /api/me, /api/presence
//	/api/...                     student and public API
//	/api/admin/...               admin API (RequireAdmin)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, 0, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// LoadSessionUser re-reads the user on every request so role changes
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))
	sessionMgr.SetAdminEmail(appCfg.AdminEmail)

	sender, err := newMailSender(context.Background(), appCfg, logger)
	if err != nil {
		logger.Error("mail sender init failed", zap.Error(err))
		return nil, err
	}
	mail := mailer.New(sender, appCfg.MailFrom, appCfg.MailFromName, logger)
	logger.Info("mailer ready", zap.String("provider", mail.Provider()))

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	limiter, stopLimiter := newTrackLimiter(deps.Redis, appCfg.TrackRateLimit)
	bg.addStop(stopLimiter)

	users := userstore.New(db)
	trackSvc := tracking.NewService(applications.New(db), scholarships.New(db), logger)

	r := chi.NewRouter()
	r.Use(ratelimit.TrustedProxies(appCfg.TrustedProxyHops))
	r.Use(metrics.Middleware)

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Probes
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Sign-in and session
	loginHandler := oauthlogin.NewHandler(
		sessionMgr, auditLog, oauthstate.New(db), users, loginstore.New(db),
		appCfg.AdminEmail, appCfg.InstitutionDomain, logger,
		oauthlogin.NewGoogle(appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL),
		oauthlogin.NewMicrosoft(appCfg.MicrosoftClientID, appCfg.MicrosoftClientSecret, appCfg.MicrosoftTenant, appCfg.BaseURL),
	)
	r.Mount("/auth", oauthlogin.Routes(loginHandler))

	sessionHandler := sessionfeature.NewHandler(sessionMgr, auditLog, users, logger)
	sessionfeature.Mount(r, sessionHandler, sessionMgr)

	// Public tracking
	trackHandler := tracking.NewHandler(trackSvc, logger)
	r.Mount("/api/track", tracking.Routes(trackHandler, limiter))

	// Applications
	appsHandler := applicationsfeature.NewHandler(db, trackSvc, mail, auditLog, appCfg.SiteName, appCfg.BaseURL, logger)
	r.Mount("/api/applications", applicationsfeature.Routes(appsHandler, sessionMgr))
	r.Mount("/api/admin/applications", applicationsfeature.AdminRoutes(appsHandler, sessionMgr))

	// Verification
	verifyHandler := verificationfeature.NewHandler(db, mail, auditLog, appCfg.SiteName, appCfg.BaseURL, appCfg.AdminEmail, logger)
	r.Mount("/api/verification", verificationfeature.Routes(verifyHandler, sessionMgr))
	r.Mount("/api/admin/verifications", verificationfeature.AdminRoutes(verifyHandler, sessionMgr))

	// Announcements and calendar
	annHandler := announcementsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/api/announcements", announcementsfeature.Routes(annHandler))
	r.Mount("/api/calendar", announcementsfeature.CalendarRoutes(annHandler))
	r.Mount("/api/admin/announcements", announcementsfeature.AdminRoutes(annHandler, sessionMgr))

	// Testimonials
	testHandler := testimonialsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/api/testimonials", testimonialsfeature.Routes(testHandler, sessionMgr))
	r.Mount("/api/admin/testimonials", testimonialsfeature.AdminRoutes(testHandler, sessionMgr))

	// Scholarships
	schHandler := scholarshipsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/api/scholarships", scholarshipsfeature.Routes(schHandler))
	r.Mount("/api/admin/scholarships", scholarshipsfeature.AdminRoutes(schHandler, sessionMgr))

	// Profile and documents
	profileHandler := profilefeature.NewHandler(db, logger)
	r.Mount("/api/profile", profilefeature.Routes(profileHandler, sessionMgr))
	r.Mount("/api/documents", profilefeature.DocumentRoutes(profileHandler, sessionMgr))

	// Email API
	emailHandler := emailfeature.NewHandler(sessionMgr, mail, logger)
	r.Mount("/api/send-email", emailfeature.Routes(emailHandler))

	// Admin reporting
	dashHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/api/admin/dashboard", dashboardfeature.Routes(dashHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/api/admin/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
