// Package logger wraps slog.Logger with the fields of an expansion run.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Logger struct {
	*slog.Logger
}

// New builds a logger writing to stderr. format is "text" or "json", level
// one of debug, info, warn or error.
func New(format, level string) (*Logger, error) {
	return NewWithWriter(os.Stderr, format, level)
}

func NewWithWriter(w io.Writer, format, level string) (*Logger, error) {

	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	options := &slog.HandlerOptions{Level: l}

	var handler slog.Handler
	switch format {
	case FormatText, "":
		handler = slog.NewTextHandler(w, options)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, options)
	default:
		return nil, fmt.Errorf("unknown log format '%s'", format)
	}

	return &Logger{Logger: slog.New(handler)}, nil
}

// Noop discards everything.
func Noop() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return 0, fmt.Errorf("unknown log level '%s'", level)
	}
	return l, nil
}

// WithRequest tags every line with a request id.
func (l *Logger) WithRequest(id string) *Logger {
	return &Logger{Logger: l.Logger.With("request", id)}
}

// Run is the subset of a run report worth logging.
type Run struct {
	Representation string
	Backend        string
	Hash           string
	Lossy          bool
	Itemsets       int
	Items          int
	Count          int
	Calls          int
	Workers        int
	Elapsed        time.Duration
}

// LogRun logs the outcome of an expansion.
func (l *Logger) LogRun(ctx context.Context, run Run, err error) {
	if err != nil {
		l.ErrorContext(ctx, "expansion failed",
			"representation", run.Representation,
			"backend", run.Backend,
			"error", err,
		)
		return
	}

	if run.Lossy {
		l.WarnContext(ctx, "lossy representation, count is approximate",
			"representation", run.Representation,
			"hash", run.Hash,
		)
	}

	l.InfoContext(ctx, "expansion completed",
		"representation", run.Representation,
		"backend", run.Backend,
		"hash", run.Hash,
		"itemsets", run.Itemsets,
		"items", run.Items,
		"count", run.Count,
		"calls", run.Calls,
		"workers", run.Workers,
		"elapsed", run.Elapsed,
	)
}

// LogLoad logs the outcome of reading a batch.
func (l *Logger) LogLoad(ctx context.Context, location string, itemsets int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"input", location,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "batch loaded",
		"input", location,
		"itemsets", itemsets,
	)
}
