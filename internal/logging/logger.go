// Package logging defines the structured-logging interface used by the
// client. Implementations wrap slog or zerolog; New picks one from config.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key–value pairs, e.g.:
//
//	log.Info(ctx, "files loaded", "page", 0, "total", 12)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a Logger writing to w. "json" yields slog's JSON handler,
// "console" a zerolog console writer.
func New(format, level string, w io.Writer) (Logger, error) {
	var (
		l   Logger
		err error
	)

	switch strings.ToLower(format) {
	case FormatJSON:
		l, err = NewJSONLogger(w, level)
	case FormatConsole, "":
		l, err = NewConsoleLogger(w, level)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Nop discards everything. Handy as a default in tests and constructors.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
