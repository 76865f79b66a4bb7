// Package mail sends outbound notification emails over SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/config"
)

// Sender delivers a plain-text email to a single recipient.
type Sender interface {
	Send(to string, subject string, body string) error
}

// SMTPSender sends email via unauthenticated SMTP. It is intended for
// relay setups such as Mailpit in development or an internal relay in
// production.
type SMTPSender struct {
	addr string
	from string
}

// NewSMTPSender creates a sender from mail configuration
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		from = "no-reply@eqb.local"
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%s", strings.TrimSpace(cfg.Host), strings.TrimSpace(cfg.Port)),
		from: from,
	}
}

func (s *SMTPSender) Send(to string, subject string, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	// Minimal RFC 5322 message; enough for Mailpit and most SMTP relays.
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}

var _ Sender = (*SMTPSender)(nil)

// NoopSender discards outgoing mail. Used when mail is disabled.
type NoopSender struct{}

func (NoopSender) Send(string, string, string) error { return nil }

var _ Sender = NoopSender{}

// RecordingSender captures sent messages in memory. Test helper.
type RecordingSender struct {
	mu       sync.Mutex
	Messages []RecordedMessage
}

// RecordedMessage is a single captured email.
type RecordedMessage struct {
	To      string
	Subject string
	Body    string
}

func (r *RecordingSender) Send(to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, RecordedMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (r *RecordingSender) Sent() []RecordedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedMessage, len(r.Messages))
	copy(out, r.Messages)
	return out
}

var _ Sender = (*RecordingSender)(nil)
