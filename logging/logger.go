// ABOUTME: Structured levelled logging built on charmbracelet/log
// ABOUTME: Provides a global logger plus context-scoped request loggers
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

type ctxKey struct{}

// L is the process-wide logger. Init replaces it; request handlers should
// prefer FromContext so request ids travel with the log lines.
var L = New("info", "text", os.Stderr)

// New builds a logger writing to w. Format is one of text, json or logfmt.
func New(level, format string, w io.Writer) *charmlog.Logger {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Level:           parseLevel(level),
		Prefix:          "reicrm",
	})

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(charmlog.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(charmlog.LogfmtFormatter)
	default:
		logger.SetFormatter(charmlog.TextFormatter)
	}

	return logger
}

// Init replaces the global logger.
func Init(level, format string) {
	L = New(level, format, os.Stderr)
}

// FromContext returns the logger stored in ctx, or L.
func FromContext(ctx context.Context) *charmlog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*charmlog.Logger); ok {
			return l
		}
	}
	return L
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func parseLevel(level string) charmlog.Level {
	parsed, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return charmlog.InfoLevel
	}
	return parsed
}
