// Package logger sets up the process-wide slog logger and carries
// request-scoped loggers through a context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey struct{}

// New builds a logger writing JSON in production and text otherwise.
func New(w io.Writer, production bool) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Setup installs the logger as the slog default and returns it.
func Setup(production bool) *slog.Logger {
	l := New(os.Stdout, production)
	slog.SetDefault(l)
	return l
}

// Inject stores log in ctx.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromCtx returns the request logger stored in ctx, or the default logger.
func FromCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return slog.Default()
}

// For returns the request logger tagged with a component name, e.g. "auth".
func For(ctx context.Context, component string) *slog.Logger {
	return FromCtx(ctx).With("component", component)
}
