// Package config defines the global configuration for the Kudosky
// notification service. Configuration is loaded once at process
// initialization and is immutable thereafter, following 12-Factor
// principles: OS environment first, with a .env file for local development.
//
// Any missing required value or invalid format causes startup to fail
// immediately (fail fast). The one deliberate exception is the email
// provider credential: its absence is tolerated at load time and is
// surfaced as a configuration error on the first send attempt, matching
// the dispatch contract.
package config

import (
	"time"

	"kudosnotify/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret
// type used throughout configuration to prevent accidental logging of
// sensitive values.
type SecretString = types.SecretString

// Run modes for the service entry point.
const (
	RunModeHTTP   = "http"
	RunModeLambda = "lambda"
)

// Config is the top-level configuration struct. It is populated once
// during process initialization and never modified. Sub-components
// receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	RunMode     string `envconfig:"RUN_MODE" default:"http" validate:"oneof=http lambda"`

	// Domain Configurations
	Server   ServerConfig
	Database DatabaseConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server and public URL configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	// AppBaseURL is the public application URL used for email
	// call-to-action links (no trailing slash).
	AppBaseURL string `envconfig:"APP_BASE_URL" default:"https://kudosky.com" validate:"required,url"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL" validate:"required"`

	// Tuning Parameters
	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `envconfig:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
}

// EmailConfig holds the outbound email provider settings.
type EmailConfig struct {
	// ResendAPIKey is deliberately not validated as required: the service
	// starts without it, and dispatch fails fast with a configuration
	// error instead.
	ResendAPIKey SecretString `envconfig:"RESEND_API_KEY"`

	// BaseURL overrides the provider API base URL; used by tests.
	BaseURL string `envconfig:"RESEND_BASE_URL" default:"https://api.resend.com" validate:"required,url"`

	// FromAddress is the fixed sender identity for every outbound email.
	FromAddress string `envconfig:"EMAIL_FROM" default:"Kudosky <no-reply@kudosky.com>" validate:"required"`

	// UnsubscribeAddress backs the List-Unsubscribe header on bulk sends.
	UnsubscribeAddress string `envconfig:"EMAIL_UNSUBSCRIBE" default:"unsubscribe@kudosky.com" validate:"required,email"`

	// Per-attempt bound on the provider call so the retry loop cannot
	// hang indefinitely.
	Timeout time.Duration `envconfig:"EMAIL_TIMEOUT" default:"10s"`

	// Bounded retry: MaxAttempts total attempts with linearly increasing
	// backoff (attempt number x RetryBaseWait between attempts).
	MaxAttempts   int           `envconfig:"EMAIL_MAX_ATTEMPTS" default:"3" validate:"min=1"`
	RetryBaseWait time.Duration `envconfig:"EMAIL_RETRY_BASE_WAIT" default:"1s"`
}
