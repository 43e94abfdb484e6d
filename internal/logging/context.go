package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// The viewer hands its logger to background goroutines (the reload
// worker, the file watcher) through the context they were started with,
// so they never need a reference to the interactive side.

type ctxKey struct{}

// WithLogger attaches logger to ctx for code running off the
// interactive path.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger attached with WithLogger. A context
// without one yields the silent logger: stderr belongs to the terminal
// display while the viewer runs, so unconfigured goroutines must not
// write there.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Discard()
	}
	if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Discard()
}
