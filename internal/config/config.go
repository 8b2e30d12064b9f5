package config

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	MailConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetFrontendURL() string
	GetDatabasePath() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type MailConfig interface {
	GetSmtpHost() string
	GetSmtpPort() string
	GetSmtpAccount() string
	GetSmtpPassword() string
	GetMailFrom() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Mail
}

func New() Config {
	return mainConfig{}
}
