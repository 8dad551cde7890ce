// Package config loads configuration from the environment.
package config

import "github.com/kelseyhightower/envconfig"

// Database holds the Turso/libsql connection settings. Local file or
// in-memory URLs need no auth token.
type Database struct {
	URL       string `envconfig:"WORKHUB_DATABASE_URL" required:"true"`
	AuthToken string `envconfig:"WORKHUB_AUTH_TOKEN"`
}

// Workbench holds the time-accounting service settings.
type Workbench struct {
	Database Database

	// AutoStopOnStart controls the policy for StartTimer while another
	// timer is live: stop it implicitly (default, matches mobile and
	// desktop client expectations) or reject the start.
	AutoStopOnStart bool `envconfig:"WORKHUB_AUTO_STOP_ON_START" default:"true"`

	DefaultPageSize int `envconfig:"WORKHUB_DEFAULT_PAGE_SIZE" default:"50"`
}

// Metrics holds the OTLP exporter settings.
type Metrics struct {
	Enabled  bool   `envconfig:"WORKHUB_OTEL_ENABLED" default:"false"`
	Endpoint string `envconfig:"WORKHUB_OTEL_ENDPOINT"`
	Insecure bool   `envconfig:"WORKHUB_OTEL_INSECURE" default:"false"`
}

// Load reads the workbench configuration from environment variables.
func Load() (*Workbench, error) {
	var cfg Workbench
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadMetrics reads the exporter configuration from environment variables.
func LoadMetrics() (Metrics, error) {
	var cfg Metrics
	if err := envconfig.Process("", &cfg); err != nil {
		return Metrics{}, err
	}
	return cfg, nil
}
