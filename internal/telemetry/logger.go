package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Log formats accepted by NewLogger.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// LoggerOptions configures NewLogger.
type LoggerOptions struct {
	Debug   bool
	Format  string    // LogFormatJSON (default) or LogFormatText
	LogFile string    // optional, appended to in JSON
	Output  io.Writer // console sink; nil discards console output
}

// NewLogger builds a logger that writes to opts.Output and, if set, to
// opts.LogFile. The returned close function releases the log file.
func NewLogger(opts LoggerOptions) (*slog.Logger, func() error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if opts.Output != nil {
		if opts.Format == LogFormatText {
			handlers = append(handlers, slog.NewTextHandler(opts.Output, handlerOpts))
		} else {
			handlers = append(handlers, slog.NewJSONHandler(opts.Output, handlerOpts))
		}
	}

	closeFn := func() error { return nil }
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			handlers = append(handlers, slog.NewJSONHandler(f, handlerOpts))
			closeFn = f.Close
		} else {
			slog.Error("Failed to open log file", "path", opts.LogFile, "error", err)
		}
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.NewTextHandler(io.Discard, handlerOpts)
	case 1:
		handler = handlers[0]
	default:
		handler = &multiHandler{handlers: handlers}
	}

	return slog.New(handler), closeFn
}

// InitLogger installs a stderr logger as the slog default. stdout is left
// for the report.
func InitLogger(debug bool, format, logFile string) func() error {
	logger, closeFn := NewLogger(LoggerOptions{
		Debug:   debug,
		Format:  format,
		LogFile: logFile,
		Output:  os.Stderr,
	})
	slog.SetDefault(logger)
	return closeFn
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// LogDebug logs a debug message.
func LogDebug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// LogInfo logs an info message.
func LogInfo(msg string, args ...any) {
	slog.Info(msg, args...)
}

// LogWarn logs a warning.
func LogWarn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

// LogError logs an error message.
func LogError(msg string, err error, args ...any) {
	slog.Error(msg, append(args, "error", err)...)
}

// LogInfof logs an info message with formatting.
func LogInfof(format string, args ...any) {
	if slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		slog.Info(fmt.Sprintf(format, args...))
	}
}
