// Package config defines the dashboard's configuration and how it is loaded.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// SandboxID names the hosted sandbox the API is published from. Empty
	// means the API runs on localhost.
	SandboxID string `koanf:"sandbox_id"`

	// SandboxDomain is the domain sandboxes are published under.
	SandboxDomain string `koanf:"sandbox_domain"`

	// PageSize is the users page size; it must match the API's.
	PageSize int `koanf:"page_size"`

	// FetchTimeoutMS bounds each upstream request.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// UpstreamRPS and UpstreamBurst shape outbound traffic to the API.
	UpstreamRPS   float64 `koanf:"upstream_rps"`
	UpstreamBurst int     `koanf:"upstream_burst"`

	// MaxViews bounds the number of mounted views.
	MaxViews int `koanf:"max_views"`

	// EventQueueSize bounds the view event queue.
	EventQueueSize int `koanf:"event_queue_size"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":3000",
		SandboxDomain:  "app.github.dev",
		PageSize:       10,
		FetchTimeoutMS: 10_000,
		UpstreamRPS:    20,
		UpstreamBurst:  10,
		MaxViews:       256,
		EventQueueSize: 1024,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}
