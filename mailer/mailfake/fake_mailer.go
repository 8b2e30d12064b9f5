// Package fakemailer provides an in-memory Mailer for tests.
package fakemailer

import (
	"context"
	"sync"

	"github.com/lynkr/lynkr-server/mailer"
)

type SentMail struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

type FakeMailer struct {
	mu sync.Mutex

	sent []SentMail

	// FailNext makes the next Send calls return SendErr.
	FailNext int
	SendErr  error
}

var _ mailer.Mailer = (*FakeMailer)(nil)

func New() *FakeMailer {
	return &FakeMailer{}
}

func (f *FakeMailer) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailNext > 0 {
		f.FailNext--
		return f.SendErr
	}

	f.sent = append(f.sent, SentMail{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	return nil
}

// Sent returns a copy of everything sent so far.
func (f *FakeMailer) Sent() []SentMail {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]SentMail, len(f.sent))
	copy(out, f.sent)
	return out
}

// LastTo returns the recipient of the most recent mail, or "".
func (f *FakeMailer) LastTo() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].To
}
