// Package log builds the process slog.Logger and the raw report dumper.
//
// Without a log file, records below error go to stdout and errors to stderr.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below Debug and enables per-report raw dumps.
const LevelTrace slog.Level = -8

// Config holds the logging flags shared by every command.
type Config struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"MOUSEKEYS_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"MOUSEKEYS_LOG_FILE"`
	RawFile string `help:"Write a hex dump of every report to this file" env:"MOUSEKEYS_LOG_RAW_FILE"`
}

// ParseLevel maps a level name to its slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MultiHandler fans records out to every handler.
type MultiHandler []slog.Handler

func (m MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (m MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(MultiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m MultiHandler) WithGroup(name string) slog.Handler {
	out := make(MultiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}

// LevelFilter passes only levels accepted by Pass on to H.
type LevelFilter struct {
	Pass func(slog.Level) bool
	H    slog.Handler
}

func (f LevelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return f.Pass(level) && f.H.Enabled(ctx, level)
}

func (f LevelFilter) Handle(ctx context.Context, r slog.Record) error {
	if !f.Pass(r.Level) {
		return nil
	}
	return f.H.Handle(ctx, r)
}

func (f LevelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return LevelFilter{Pass: f.Pass, H: f.H.WithAttrs(attrs)}
}

func (f LevelFilter) WithGroup(name string) slog.Handler {
	return LevelFilter{Pass: f.Pass, H: f.H.WithGroup(name)}
}

// SetupLogger returns a logger writing to the console and, when logFile is
// set, to that file. The closers belong to the caller.
func SetupLogger(logLevel, logFile string) (*slog.Logger, []io.Closer, error) {
	return setup(ParseLevel(logLevel), logFile, os.Stdout, os.Stderr)
}

func setup(level slog.Level, logFile string, stdout, stderr io.Writer) (*slog.Logger, []io.Closer, error) {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: traceName}
	var handlers MultiHandler
	var closers []io.Closer

	if logFile == "" {
		handlers = append(handlers,
			LevelFilter{Pass: func(l slog.Level) bool { return l < slog.LevelError }, H: slog.NewTextHandler(stdout, opts)},
			LevelFilter{Pass: func(l slog.Level) bool { return l >= slog.LevelError }, H: slog.NewTextHandler(stderr, opts)},
		)
	} else {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f)
		handlers = append(handlers,
			slog.NewTextHandler(stderr, opts),
			slog.NewTextHandler(f, opts),
		)
	}
	return slog.New(handlers), closers, nil
}

func traceName(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}
