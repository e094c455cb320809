// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dalemusser/scholarhub/internal/app/system/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoRecipient is returned when an Email has no usable To address.
var ErrNoRecipient = errors.New("mailer: no recipient")

// Email is one outgoing message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
	Template string // metrics label; "custom" when empty
}

// Message is an Email addressed and stamped by the Mailer, ready for a Sender.
type Message struct {
	Email
	ID       string
	From     string
	FromName string
}

// Sender delivers a Message through one provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Mailer stamps and dispatches email through the configured Sender.
type Mailer struct {
	sender   Sender
	from     string
	fromName string
	log      *zap.Logger
}

// New creates a Mailer. from is the envelope sender address.
func New(sender Sender, from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{sender: sender, from: from, fromName: fromName, log: logger}
}

// Provider returns the name of the active sender.
func (m *Mailer) Provider() string { return m.sender.Name() }

// Send delivers e. Failures are logged, counted, and returned.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	to := strings.TrimSpace(e.To)
	if to == "" {
		return ErrNoRecipient
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("mailer: bad recipient %q: %w", to, err)
	}
	e.To = to
	if e.Template == "" {
		e.Template = "custom"
	}

	msg := Message{
		Email:    e,
		ID:       uuid.NewString(),
		From:     m.from,
		FromName: m.fromName,
	}
	err := m.sender.Send(ctx, msg)
	metrics.EmailsSent.WithLabelValues(e.Template, metrics.Result(err)).Inc()
	if err != nil {
		m.log.Error("email send failed",
			zap.String("provider", m.sender.Name()),
			zap.String("template", e.Template),
			zap.String("message_id", msg.ID),
			zap.Error(err))
		return fmt.Errorf("send via %s: %w", m.sender.Name(), err)
	}
	m.log.Info("email sent",
		zap.String("provider", m.sender.Name()),
		zap.String("template", e.Template),
		zap.String("message_id", msg.ID))
	return nil
}

// SendBestEffort sends e and only logs a failure. Used where the triggering
// write has already committed and must not be reported as failed.
func (m *Mailer) SendBestEffort(ctx context.Context, e Email) bool {
	if m == nil {
		return false
	}
	if err := m.Send(ctx, e); err != nil {
		m.log.Warn("best-effort email not delivered",
			zap.String("template", e.Template),
			zap.Error(err))
		return false
	}
	return true
}

// LogSender writes messages to the log instead of delivering them (dev).
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Name() string { return "log" }

func (s LogSender) Send(_ context.Context, msg Message) error {
	s.Log.Info("email (log provider)",
		zap.String("message_id", msg.ID),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTMLBody)),
		zap.String("text", msg.TextBody))
	return nil
}
