package extension

import (
	"context"
	"log/slog"
)

// options are shared by the file, reader and writer connectors.
type options struct {
	logger    *slog.Logger
	ctx       context.Context
	ctxCancel context.CancelFunc
}

func makeDefaultOptions() options {
	return options{
		logger:    slog.Default(),
		ctx:       context.Background(),
		ctxCancel: func() {},
	}
}

// Opt configures a connector.
type Opt func(*options)

// WithLogger sets the connector logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Opt {
	return func(o *options) {
		o.logger = logger
	}
}

// WithContext stops a source connector once ctx is done.
func WithContext(ctx context.Context) Opt {
	return func(o *options) {
		o.ctx = ctx
	}
}

// WithContextCancel is called by a sink connector when a write fails, so
// the upstream source stops producing.
func WithContextCancel(ctxCancel context.CancelFunc) Opt {
	return func(o *options) {
		o.ctxCancel = ctxCancel
	}
}
