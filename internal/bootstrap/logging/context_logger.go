package logging

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

type loggerKey struct{}
type attrsKey struct{}

var (
	fallbackLogger *slog.Logger
	fallbackOnce   sync.Once
)

func fallback() *slog.Logger {
	fallbackOnce.Do(func() {
		fallbackLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	})
	return fallbackLogger
}

// WithLogger attaches a logger to the context; nested calls override it.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithAttrs accumulates attrs on the context. Later attrs with the same key
// replace earlier ones.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(attrs) == 0 {
		return ctx
	}
	return context.WithValue(ctx, attrsKey{}, merge(Attrs(ctx), attrs))
}

// Logger returns the context logger, or a process-wide stderr fallback.
func Logger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return fallback()
}

// Attrs returns a copy of the attrs accumulated on the context.
func Attrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, ok := ctx.Value(attrsKey{}).([]slog.Attr)
	if !ok || len(attrs) == 0 {
		return nil
	}
	out := make([]slog.Attr, len(attrs))
	copy(out, attrs)
	return out
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelDebug, msg, attrs...)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelInfo, msg, attrs...)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelWarn, msg, attrs...)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelError, msg, attrs...)
}

func log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	Logger(ctx).LogAttrs(ctx, level, msg, merge(Attrs(ctx), attrs)...)
}

func merge(base, extra []slog.Attr) []slog.Attr {
	if len(base) == 0 {
		out := make([]slog.Attr, len(extra))
		copy(out, extra)
		return out
	}
	if len(extra) == 0 {
		out := make([]slog.Attr, len(base))
		copy(out, base)
		return out
	}

	merged := make([]slog.Attr, 0, len(base)+len(extra))
	index := make(map[string]int, len(base)+len(extra))
	for _, set := range [][]slog.Attr{base, extra} {
		for _, attr := range set {
			if attr.Key != "" {
				if i, ok := index[attr.Key]; ok {
					merged[i] = attr
					continue
				}
			}
			merged = append(merged, attr)
			if attr.Key != "" {
				index[attr.Key] = len(merged) - 1
			}
		}
	}
	return merged
}
