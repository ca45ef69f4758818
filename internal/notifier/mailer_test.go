package notifier

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"campushub/internal/queue"
	"campushub/internal/registrations"
)

type recordedMail struct {
	to, subject, body string
}

type recorder struct {
	sent chan recordedMail
}

func (r *recorder) Send(to, subject, body string) error {
	r.sent <- recordedMail{to: to, subject: subject, body: body}
	return nil
}

func TestWorkerSendsConfirmation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewInMemory(4)
	rec := &recorder{sent: make(chan recordedMail, 4)}
	w := NewWorker(q, rec, zerolog.Nop())
	go func() { _ = w.Run(ctx) }()

	body, _ := json.Marshal(registrations.Notice{
		EventID:    "ev1",
		EventTitle: "Tech Fest",
		Registrant: "Asha",
		Contact:    "asha@example.edu",
		TeamName:   "Watts Up",
	})
	if err := q.Publish(ctx, queue.Message{Type: queue.TypeRegistration, Body: body}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case mail := <-rec.sent:
		if mail.to != "asha@example.edu" {
			t.Fatalf("to = %q", mail.to)
		}
		if !strings.Contains(mail.subject, "Tech Fest") {
			t.Fatalf("subject = %q", mail.subject)
		}
		if !strings.Contains(mail.body, "Watts Up") {
			t.Fatalf("body = %q", mail.body)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no mail sent")
	}
}

func TestWorkerSkipsNonEmailContacts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewInMemory(4)
	rec := &recorder{sent: make(chan recordedMail, 4)}
	w := NewWorker(q, rec, zerolog.Nop())
	go func() { _ = w.Run(ctx) }()

	phone, _ := json.Marshal(registrations.Notice{EventID: "ev1", EventTitle: "T", Registrant: "R", Contact: "9876543210"})
	email, _ := json.Marshal(registrations.Notice{EventID: "ev1", EventTitle: "T", Registrant: "R", Contact: "r@x.edu"})

	// phone first; the later email arriving proves the phone was skipped
	_ = q.Publish(ctx, queue.Message{Type: "unknown", Body: []byte("junk")})
	_ = q.Publish(ctx, queue.Message{Type: queue.TypeRegistration, Body: []byte("not json")})
	_ = q.Publish(ctx, queue.Message{Type: queue.TypeRegistration, Body: phone})
	_ = q.Publish(ctx, queue.Message{Type: queue.TypeRegistration, Body: email})

	select {
	case mail := <-rec.sent:
		if mail.to != "r@x.edu" {
			t.Fatalf("to = %q", mail.to)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("email notice not delivered")
	}
	select {
	case mail := <-rec.sent:
		t.Fatalf("unexpected extra mail: %+v", mail)
	case <-time.After(100 * time.Millisecond):
	}
}
