// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/scholarhub/internal/app/store/audit"
	"github.com/dalemusser/scholarhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-in and sign-out events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin review and content actions. Same values as Auth.
	Admin string
}

// Logger writes audit events to MongoDB and zap according to Config.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) setting(category string) string {
	switch category {
	case audit.CategoryAuth:
		return l.config.Auth
	case audit.CategoryAdmin:
		return l.config.Admin
	}
	return "all"
}

// Log records an audit event. A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.setting(event.Category)
	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func fromRequest(r *http.Request, e audit.Event) audit.Event {
	if r != nil {
		e.IP = ratelimit.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a completed sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, provider, role string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    userID,
		Success:   true,
		Details:   map[string]string{"provider": provider, "role": role},
	}))
}

// LoginRejected logs a sign-in refused by the institution-domain gate.
func (l *Logger) LoginRejected(ctx context.Context, r *http.Request, provider, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginDomainNotAllowed,
		Success:       false,
		FailureReason: "domain_not_allowed",
		Details:       map[string]string{"provider": provider, "email": email},
	}))
}

// LoginFailed logs a provider-side failure (bad state, code exchange, profile fetch).
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, provider, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"provider": provider},
	}))
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		Success:   true,
	}))
}

// --- Admin Events ---

// ApplicationReviewed logs an admin status change on an application.
func (l *Logger) ApplicationReviewed(ctx context.Context, r *http.Request, actorID, applicantID, trackerCode, status string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventApplicationReviewed,
		ActorID:   actorID,
		UserID:    applicantID,
		Success:   true,
		Details:   map[string]string{"tracker_code": trackerCode, "status": status},
	}))
}

// VerificationReviewed logs an admin decision on a verification.
func (l *Logger) VerificationReviewed(ctx context.Context, r *http.Request, actorID, studentID, verificationID, status string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventVerificationReviewed,
		ActorID:   actorID,
		UserID:    studentID,
		Success:   true,
		Details:   map[string]string{"verification_id": verificationID, "status": status},
	}))
}

// AnnouncementChanged logs create, update, or delete of an announcement.
// eventType is one of the audit.EventAnnouncement* constants.
func (l *Logger) AnnouncementChanged(ctx context.Context, r *http.Request, actorID, eventType, announcementID, title string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"announcement_id": announcementID, "title": title},
	}))
}

// ScholarshipSaved logs a scholarship create or update.
func (l *Logger) ScholarshipSaved(ctx context.Context, r *http.Request, actorID, scholarshipID, name string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventScholarshipSaved,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"scholarship_id": scholarshipID, "name": name},
	}))
}

// TestimonialFeatured logs a change to a testimonial's landing-page flag.
func (l *Logger) TestimonialFeatured(ctx context.Context, r *http.Request, actorID, testimonialID string, featured bool) {
	v := "false"
	if featured {
		v = "true"
	}
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventTestimonialFeatured,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"testimonial_id": testimonialID, "featured": v},
	}))
}
