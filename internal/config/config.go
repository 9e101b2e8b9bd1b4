// Package config loads fasttab settings from an optional .env file and the
// environment, applies defaults and validates the result.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/firstat/fasttab/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Log    LogConfig
	Server ServerConfig
	Output OutputConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level logged (default: info)
	Level string `env:"FASTTAB_LOG_LEVEL" default:"info"`

	// Format is console or json (default: console)
	Format string `env:"FASTTAB_LOG_FORMAT" default:"console"`
}

// ServerConfig holds web shell settings.
type ServerConfig struct {
	// Addr is the listen address (default: :8501)
	Addr string `env:"FASTTAB_ADDR" default:":8501"`

	// MaxUploadBytes bounds an uploaded spreadsheet (default: 50 MiB)
	MaxUploadBytes int64 `env:"FASTTAB_MAX_UPLOAD_BYTES" default:"52428800"`

	// SessionTTL expires idle sessions (default: 1h)
	SessionTTL time.Duration `env:"FASTTAB_SESSION_TTL" default:"1h"`
}

// OutputConfig holds result settings shared by both shells.
type OutputConfig struct {
	// Dir is where the command line writes workbooks (default: .)
	Dir string `env:"FASTTAB_OUT_DIR" default:"."`

	// MissingLabel stands in for empty cells in result sheets (default: Missing)
	MissingLabel string `env:"FASTTAB_MISSING_LABEL" default:"Missing"`
}

// Validate checks that the configuration is usable.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Sprintf("FASTTAB_LOG_FORMAT (%q) must be console or json", c.Log.Format))
	}
	if c.Server.Addr == "" {
		errs = append(errs, "FASTTAB_ADDR must not be empty")
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, "FASTTAB_MAX_UPLOAD_BYTES must be positive")
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, "FASTTAB_SESSION_TTL must be positive")
	}
	if c.Output.Dir == "" {
		errs = append(errs, "FASTTAB_OUT_DIR must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
