// Package log provides logging routines based on slog package.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

type LogLevel = slog.Level

const (
	DebugLevel = slog.LevelDebug
	InfoLevel  = slog.LevelInfo
	WarnLevel  = slog.LevelWarn
	ErrorLevel = slog.LevelError
)

// Option is a logger option.
type Option func(*options)

type options struct {
	level     LogLevel
	json      bool
	addSource bool
	output    io.Writer
	otelName  string
}

func defaultOptions() *options {
	return &options{
		level:  InfoLevel,
		output: os.Stderr,
	}
}

// WithLevel sets the log level.
// The default log level is InfoLevel.
func WithLevel(level LogLevel) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithJSON switches the output to JSON lines.
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithDevMode sets the logger to development mode: human-readable output at
// DebugLevel with source locations.
func WithDevMode() Option {
	return func(o *options) {
		o.json = false
		o.level = DebugLevel
		o.addSource = true
	}
}

// WithOutput sets where records are written. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithOTel also sends records to the global OpenTelemetry logger provider
// under the given instrumentation scope name.
func WithOTel(name string) Option {
	return func(o *options) {
		o.otelName = name
	}
}

// ParseLevel maps "debug", "info", "warn" or "error" to a level.
func ParseLevel(s string) (LogLevel, error) {
	var level LogLevel
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func newHandler(o *options) slog.Handler {
	replace := func(groups []string, a slog.Attr) slog.Attr {
		// Remove the directory from the source's filename.
		if a.Key == slog.SourceKey {
			if s, ok := a.Value.Any().(*slog.Source); ok {
				s.File = filepath.Base(s.File)
			}
		}
		return a
	}
	opts := &slog.HandlerOptions{
		AddSource:   o.addSource,
		Level:       o.level,
		ReplaceAttr: replace,
	}
	if o.json {
		return slog.NewJSONHandler(o.output, opts)
	}
	return slog.NewTextHandler(o.output, opts)
}

// Init builds the logger, installs it as the slog default and returns it.
func Init(opts ...Option) *slog.Logger {
	sOpts := defaultOptions()
	for _, opt := range opts {
		opt(sOpts)
	}

	local := newHandler(sOpts)
	var handler slog.Handler = local
	if sOpts.otelName != "" {
		handler = newFanout(sOpts.level, local, otelslog.NewHandler(sOpts.otelName))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	// OpenTelemetry's own diagnostics stay local so exporter failures cannot
	// feed back into the exporter.
	otel.SetLogger(logr.FromSlogHandler(local))

	return logger
}

// Disable discards everything logged through the default logger.
func Disable() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func logf(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	logger := slog.Default()
	if !logger.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip [Callers, logf, Infof]
	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	_ = logger.Handler().Handle(ctx, r)
}

// Debugf logs a debug message.
func Debugf(format string, args ...any) {
	logf(slog.LevelDebug, format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...any) {
	logf(slog.LevelInfo, format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	logf(slog.LevelWarn, format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	logf(slog.LevelError, format, args...)
}
