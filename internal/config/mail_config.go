package config

type Mail struct{}

var _ MailConfig = Mail{}

func (Mail) GetSmtpHost() string {
	return GetEnv("SMTP_HOST", "")
}

func (Mail) GetSmtpPort() string {
	return GetEnv("SMTP_PORT", "587")
}

func (Mail) GetSmtpAccount() string {
	return GetEnv("SMTP_ACCOUNT", "")
}

func (Mail) GetSmtpPassword() string {
	return GetEnv("SMTP_PASSWORD", "")
}

func (Mail) GetMailFrom() string {
	return GetEnv("MAIL_FROM", "Lynkr <noreply@localhost>")
}
