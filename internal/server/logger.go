package server

import (
	"analytics-proxy/internal/config"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
)

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupLogger logs to stderr, and in production also appends each level to its own file in
// the log directory. The returned closer releases those files.
func setupLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}

	var handlers []slog.Handler

	if cfg.Log.Format == "json" {
		handlers = append(handlers, slog.NewJSONHandler(os.Stderr, opts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, opts))
	}

	closer := multiCloser{}
	if cfg.IsProduction() {
		fileHandlers, files, err := newLevelFileHandlers(cfg.Log.Directory, opts.Level.Level())
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, fileHandlers...)
		closer = files
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if cfg.IsDevelopment() {
		handler = NewStackTraceHandler(handler)
	}

	return slog.New(handler), closer, nil
}

// newLevelFileHandlers opens <dir>/<level>.log for every level at or above minLevel.
func newLevelFileHandlers(dir string, minLevel slog.Level) ([]slog.Handler, multiCloser, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var handlers []slog.Handler
	var files multiCloser
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if level < minLevel {
			continue
		}

		name := filepath.Join(dir, fmt.Sprintf("%s.log", levelFileName(level)))
		file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			_ = files.Close()
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		files = append(files, file)

		handlers = append(handlers, &LevelHandler{
			level:   level,
			handler: slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
		})
	}

	return handlers, files, nil
}

func levelFileName(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "debug"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	default:
		return "info"
	}
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var firstErr error
	for _, c := range m {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LevelHandler passes on only records of exactly one level.
type LevelHandler struct {
	level   slog.Level
	handler slog.Handler
}

func (h *LevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level == h.level
}

func (h *LevelHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level != h.level {
		return nil
	}
	return h.handler.Handle(ctx, r)
}

func (h *LevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelHandler{level: h.level, handler: h.handler.WithAttrs(attrs)}
}

func (h *LevelHandler) WithGroup(name string) slog.Handler {
	return &LevelHandler{level: h.level, handler: h.handler.WithGroup(name)}
}

type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return NewMultiHandler(handlers...)
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return NewMultiHandler(handlers...)
}

// StackTraceHandler attaches the goroutine stack to error records.
type StackTraceHandler struct {
	handler slog.Handler
}

func NewStackTraceHandler(h slog.Handler) *StackTraceHandler {
	return &StackTraceHandler{handler: h}
}

func (h *StackTraceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *StackTraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		r.Add("stack", string(debug.Stack()))
	}
	return h.handler.Handle(ctx, r)
}

func (h *StackTraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StackTraceHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *StackTraceHandler) WithGroup(name string) slog.Handler {
	return &StackTraceHandler{handler: h.handler.WithGroup(name)}
}
