package mailer

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lynkr/lynkr-server/internal/config"
)

// SMTPMailer delivers mail over authenticated SMTP with STARTTLS.
type SMTPMailer struct {
	config config.MailConfig
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	if cfg == nil {
		return nil, errors.New("[NewSMTPMailer] nil config")
	}
	if cfg.GetSmtpHost() == "" {
		return nil, errors.New("[NewSMTPMailer] SMTP host not configured")
	}
	return &SMTPMailer{config: cfg}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "[SMTPMailer Send] context cancelled")
	}

	msg, err := buildMessage(m.config.GetMailFrom(), to, subject, htmlBody, textBody)
	if err != nil {
		return errors.Wrap(err, "[SMTPMailer Send] failed to build message")
	}

	host := m.config.GetSmtpHost()
	addr := host + ":" + m.config.GetSmtpPort()
	auth := smtp.PlainAuth("", m.config.GetSmtpAccount(), m.config.GetSmtpPassword(), host)

	if err := smtp.SendMail(addr, auth, envelopeAddress(m.config.GetMailFrom()), []string{to}, msg); err != nil {
		return errors.Wrapf(err, "[SMTPMailer Send] failed to send to %s", addr)
	}
	return nil
}

// buildMessage assembles a multipart/alternative MIME message so clients
// without HTML rendering fall back to the text part.
func buildMessage(from, to, subject, htmlBody, textBody string) ([]byte, error) {
	var sb strings.Builder
	var body strings.Builder

	writer := multipart.NewWriter(&body)

	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(textBody)); err != nil {
		return nil, err
	}

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", writer.Boundary()))
	sb.WriteString("\r\n")
	sb.WriteString(body.String())

	return []byte(sb.String()), nil
}

// envelopeAddress strips a display name from a "Name <addr>" From header for
// the SMTP MAIL FROM command.
func envelopeAddress(from string) string {
	if start := strings.Index(from, "<"); start >= 0 {
		if end := strings.Index(from[start:], ">"); end > 0 {
			return from[start+1 : start+end]
		}
	}
	return from
}

// LogMailer writes outgoing mail to the log instead of sending it. Used in
// DEV where no SMTP credentials are configured.
type LogMailer struct{}

var _ Mailer = LogMailer{}

func (LogMailer) Send(_ context.Context, to, subject, _, textBody string) error {
	log.Info().
		Str("to", to).
		Str("subject", subject).
		Msg("mail delivery skipped, logging body instead")
	log.Info().Msg(textBody)
	return nil
}
