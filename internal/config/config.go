// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/content-quality/internal/schemas"
)

// Defaults applied by MergeWithDefaults
const (
	DefaultPort                 = 8080
	DefaultMinScore             = 50
	DefaultRemoteTimeoutSeconds = 30
	DefaultMonitorDelayMS       = 1000
	DefaultMonitorConcurrency   = 4
	DefaultAlertThreshold       = 50
	DefaultAlertDrop            = 10
	DefaultBatchLimit           = 100
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from flags and
// the environment.
type Config struct {
	// Connections
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP listen port

	// Quality
	MinScore             int  `json:"min_score,omitempty"`              // Score below which content is improved
	UseRemote            bool `json:"use_remote,omitempty"`             // Use the remote enhancer when an API key is set
	RemoteTimeoutSeconds int  `json:"remote_timeout_seconds,omitempty"` // Timeout of one remote call

	// Monitor
	MonitorDelayMS     int `json:"monitor_delay_ms,omitempty"`    // Spacing between remote calls in a batch
	MonitorConcurrency int `json:"monitor_concurrency,omitempty"` // Articles assessed in parallel
	AlertThreshold     int `json:"alert_threshold,omitempty"`     // Average below which a run alerts
	AlertDrop          int `json:"alert_drop,omitempty"`          // Average drop versus the last run that alerts
	BatchLimit         int `json:"batch_limit,omitempty"`         // Articles per run

	Verbose bool `json:"verbose,omitempty"` // Print detailed output
}

// LoadConfig loads configuration from a JSON file. The file is checked
// against the config schema before it is decoded.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse config JSON: %s is not valid JSON", path)
	}
	if err := schemas.Validate(schemas.Config, data); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"min_score", c.MinScore},
		{"alert_threshold", c.AlertThreshold},
		{"alert_drop", c.AlertDrop},
	} {
		if f.value < 0 || f.value > 100 {
			return fmt.Errorf("config error: '%s' must be between 0 and 100", f.name)
		}
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"remote_timeout_seconds", c.RemoteTimeoutSeconds},
		{"monitor_delay_ms", c.MonitorDelayMS},
		{"monitor_concurrency", c.MonitorConcurrency},
		{"batch_limit", c.BatchLimit},
	} {
		if f.value < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", f.name)
		}
	}
	if c.UseRemote && c.APIKey == "" {
		return fmt.Errorf("config error: 'use_remote' requires an API key")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from
// defaults and then from the built-in defaults
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	result.Port = firstPositive(result.Port, defaults.Port, DefaultPort)
	result.MinScore = firstPositive(result.MinScore, defaults.MinScore, DefaultMinScore)
	result.RemoteTimeoutSeconds = firstPositive(result.RemoteTimeoutSeconds, defaults.RemoteTimeoutSeconds, DefaultRemoteTimeoutSeconds)
	result.MonitorDelayMS = firstPositive(result.MonitorDelayMS, defaults.MonitorDelayMS, DefaultMonitorDelayMS)
	result.MonitorConcurrency = firstPositive(result.MonitorConcurrency, defaults.MonitorConcurrency, DefaultMonitorConcurrency)
	result.AlertThreshold = firstPositive(result.AlertThreshold, defaults.AlertThreshold, DefaultAlertThreshold)
	result.AlertDrop = firstPositive(result.AlertDrop, defaults.AlertDrop, DefaultAlertDrop)
	result.BatchLimit = firstPositive(result.BatchLimit, defaults.BatchLimit, DefaultBatchLimit)

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// RemoteTimeout returns the remote call timeout as a duration
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSeconds) * time.Second
}

// MonitorDelay returns the spacing between remote calls as a duration
func (c *Config) MonitorDelay() time.Duration {
	return time.Duration(c.MonitorDelayMS) * time.Millisecond
}

// RemoteEnabled reports whether remote enhancement is both requested and possible
func (c *Config) RemoteEnabled() bool {
	return c.UseRemote && c.APIKey != ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
