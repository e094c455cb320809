package testutil

import (
	"context"
	"sync"

	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"go.uber.org/zap"
)

// MailSink is a mailer.Sender that records messages instead of sending them.
type MailSink struct {
	mu   sync.Mutex
	msgs []mailer.Message
	Err  error // returned from every Send when set
}

func (s *MailSink) Name() string { return "sink" }

func (s *MailSink) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.Err
}

// Messages returns a copy of everything sent so far.
func (s *MailSink) Messages() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.msgs...)
}

// NewMailer returns a Mailer backed by a fresh MailSink.
func NewMailer() (*mailer.Mailer, *MailSink) {
	sink := &MailSink{}
	return mailer.New(sink, "noreply@minsu.edu.ph", "ScholarHub", zap.NewNop()), sink
}
