package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration once at startup so a misconfigured server
// refuses to boot instead of failing on its first request. DEV gets defaults
// for everything; outside DEV the public URLs and SMTP credentials are
// mandatory.
func Validate(c Config) error {
	if c.GetEnv() == "DEV" {
		return nil
	}

	var missing []string
	if GetEnv(baseURLVar, "") == "" {
		missing = append(missing, baseURLVar)
	}
	if GetEnv(frontendURLVar, "") == "" {
		missing = append(missing, frontendURLVar)
	}
	if c.GetSmtpHost() == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.GetSmtpAccount() == "" {
		missing = append(missing, "SMTP_ACCOUNT")
	}
	if c.GetSmtpPassword() == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
