package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/systour/systour/config"
)

var Default = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// RunID identifies one invocation of the tool in log records.
var RunID = uuid.New().String()

// Init replaces Default according to the configuration. Log records go to
// stderr so they never interleave with demo output on stdout.
func Init(cfg config.Common) error {
	logger, err := New(cfg, os.Stderr)
	if err != nil {
		return err
	}

	Default = logger
	slog.SetDefault(logger)

	return nil
}

// New builds a logger writing to w.
func New(cfg config.Common, w io.Writer) (*slog.Logger, error) {
	var opts = &slog.HandlerOptions{}
	var handler slog.Handler

	switch l := cfg.LogLevel; l {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %v", l)
	}

	switch f := cfg.LogFormat; f {
	case "logfmt":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %v", f)
	}

	logger := slog.New(handler).With("run", RunID)

	// sorted for stable attribute order
	keys := make([]string, 0, len(cfg.LogFields))
	for k := range cfg.LogFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logger = logger.With(k, cfg.LogFields[k])
	}

	return logger, nil
}
