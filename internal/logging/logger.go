// Package logging builds zerolog loggers for the command-line and web
// shells.
//
// Library packages never log globally; they receive a logger through
// their options. This package only decides where output goes and how it
// looks.
package logging

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New creates a logger writing to w.
//
// Level values: "trace", "debug", "info", "warn", "error" (default: "info").
// Format values: "console", "json" (default: "console").
func New(level, format string, w io.Writer) zerolog.Logger {
	if strings.ToLower(format) != FormatJSON {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel converts a level name to a zerolog level, falling back to
// info for unknown names.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// ValidFormat reports whether format names a known output format.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatConsole, FormatJSON:
		return true
	default:
		return false
	}
}

// FromContext returns the logger stored in ctx unchanged. Without a stored
// logger it returns base, enriched with chi's request id when present.
func FromContext(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return *l
	}
	if id := middleware.GetReqID(ctx); id != "" {
		return base.With().Str("request_id", id).Logger()
	}
	return base
}
