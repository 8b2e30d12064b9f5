package config

import (
	"strconv"
	"time"
)

type SecurityConfig interface {
	GetGeneratedSlugLength() int
	GetMaxSlugAttempts() int
	GetRateLimitRequests() int
	GetRateLimitWindow() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetGeneratedSlugLength() int {
	return getEnvInt("GENERATED_SLUG_LENGTH", 7)
}

func (Security) GetMaxSlugAttempts() int {
	return getEnvInt("MAX_SLUG_ATTEMPTS", 5)
}

func (Security) GetRateLimitRequests() int {
	return getEnvInt("RATE_LIMIT_REQUESTS", 50)
}

func (Security) GetRateLimitWindow() time.Duration {
	return time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 300)) * time.Second
}

func getEnvInt(envVar string, defaultValue int) int {
	v, err := strconv.Atoi(GetEnv(envVar, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
