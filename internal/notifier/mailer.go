// Package notifier turns queued registration notices into emails.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"campushub/internal/queue"
	"campushub/internal/registrations"
)

// Sender delivers one email. Satisfied by SMTPSender; tests plug in a
// recorder.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail over a plain-auth SMTP relay.
type SMTPSender struct {
	Addr string // host:port
	Host string
	From string
	Pass string
}

func (s SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.From, to, subject, body)
	auth := smtp.PlainAuth("", s.From, s.Pass, s.Host)
	if err := smtp.SendMail(s.Addr, auth, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// Worker consumes the queue and mails registration confirmations.
type Worker struct {
	queue  queue.Queue
	sender Sender
	log    zerolog.Logger
}

// NewWorker wires a notification worker.
func NewWorker(q queue.Queue, sender Sender, log zerolog.Logger) *Worker {
	return &Worker{queue: q, sender: sender, log: log}
}

// Run consumes until the context is cancelled. Malformed or
// undeliverable messages are logged and skipped, never retried.
func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.queue.Consume(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(msg)
		}
	}
}

func (w *Worker) handle(msg queue.Message) {
	if msg.Type != queue.TypeRegistration {
		w.log.Debug().Str("type", msg.Type).Msg("skipping message")
		return
	}
	var n registrations.Notice
	if err := json.Unmarshal(msg.Body, &n); err != nil {
		w.log.Warn().Err(err).Msg("malformed notice")
		return
	}
	if !strings.Contains(n.Contact, "@") {
		w.log.Debug().Str("event_id", n.EventID).Msg("no email contact, skipping")
		return
	}
	subject, body := composeRegistration(n)
	if err := w.sender.Send(n.Contact, subject, body); err != nil {
		w.log.Warn().Err(err).Str("to", n.Contact).Msg("email delivery failed")
		return
	}
	w.log.Info().Str("to", n.Contact).Str("event_id", n.EventID).Msg("confirmation sent")
}

func composeRegistration(n registrations.Notice) (subject, body string) {
	subject = fmt.Sprintf("Registration confirmed: %s", n.EventTitle)
	if n.TeamName != "" {
		body = fmt.Sprintf("Hi %s,\n\nyour team %q is registered for %s. See you there!", n.Registrant, n.TeamName, n.EventTitle)
		return subject, body
	}
	body = fmt.Sprintf("Hi %s,\n\nyou are registered for %s. See you there!", n.Registrant, n.EventTitle)
	return subject, body
}
