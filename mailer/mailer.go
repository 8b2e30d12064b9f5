// Package mailer sends transactional email. Handlers depend on the Mailer
// interface; the SMTP implementation and a dev log-only implementation live
// here, a recording fake for tests lives in mailfake.
package mailer

import (
	"context"
	"fmt"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// VerificationEmail builds the subject and bodies for an email-verification
// message. verifyURL must already embed the raw token.
func VerificationEmail(appName, verifyURL string) (subject, htmlBody, textBody string) {
	subject = "Confirm your email address"

	htmlBody = fmt.Sprintf(`<div style="font-family: system-ui, sans-serif; line-height: 1.5;">
<h2>Welcome to %[1]s</h2>
<p>Please confirm your email address by clicking the link below:</p>
<p><a href="%[2]s">Verify Email</a></p>
<p>If the link doesn't work, copy and paste this URL into your browser:</p>
<p>%[2]s</p>
<p>The link expires in 15 minutes. If you didn't request this, you can safely ignore this email.</p>
</div>`, appName, verifyURL)

	textBody = fmt.Sprintf(`Welcome to %[1]s!

Please confirm your email address by visiting the following link:
%[2]s

The link will expire in 15 minutes. If you need a new link, kindly request a new verification email.

If you didn't request this, you can safely ignore this email.
`, appName, verifyURL)

	return subject, htmlBody, textBody
}
