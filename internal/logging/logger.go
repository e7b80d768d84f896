package logging

import (
	"io"
	"log/slog"
	"strings"
)

type LoggerService interface {
	Log(value string, args ...any)
	LogError(value string, err error, args ...any)
	LogWarning(value string, args ...any)
	LogSuccess(value string, args ...any)
	With(args ...any) LoggerService
}

type Options struct {
	Verbose bool
	JSON    bool
}

type Logger struct {
	log *slog.Logger
}

func NewLogger(w io.Writer, opts Options) *Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return &Logger{log: slog.New(h)}
}

// Discard returns a logger that drops everything, used by tests.
func Discard() *Logger {
	return &Logger{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Slog exposes the underlying logger so it can be installed as the process default.
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l.log
}

func (l *Logger) Log(value string, args ...any) {
	if l == nil {
		return
	}
	l.log.Info(formatMessage(value), args...)
}

func (l *Logger) LogError(value string, err error, args ...any) {
	if l == nil {
		return
	}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.log.Error(formatMessage(value), args...)
}

func (l *Logger) LogWarning(value string, args ...any) {
	if l == nil {
		return
	}
	l.log.Warn(formatMessage(value), args...)
}

func (l *Logger) LogSuccess(value string, args ...any) {
	if l == nil {
		return
	}
	l.log.Info(formatMessage(value), append(args, "result", "success")...)
}

func (l *Logger) With(args ...any) LoggerService {
	if l == nil {
		return nil
	}
	return &Logger{log: l.log.With(args...)}
}

func formatMessage(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		v = "-"
	}
	return v
}
