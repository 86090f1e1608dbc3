package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/systour/systour/config"
	"github.com/systour/systour/extension"
	"github.com/systour/systour/flow"
	"github.com/systour/systour/logger"
	"github.com/systour/systour/monitor"
	"github.com/systour/systour/server"
)

func monitorDemo(cCtx *cli.Context) error {
	mc := cfg.Monitor
	if cCtx.IsSet("interval") {
		mc.Interval = config.Duration(cCtx.Duration("interval"))
	}
	if cCtx.IsSet("duration") {
		mc.Duration = config.Duration(cCtx.Duration("duration"))
	}
	if cCtx.IsSet("count") {
		mc.Count = cCtx.Int("count")
	}
	if cCtx.IsSet("format") {
		mc.Format = cCtx.String("format")
	}

	format, err := monitor.Formatter(mc.Format)
	if err != nil {
		return err
	}
	if err := checkMonitorConfig(mc.Interval.Std(), mc.Duration.Std(), mc.Count); err != nil {
		return err
	}

	ctx, cancel := signalContext(cCtx)
	defer cancel()

	if cCtx.Bool("serve-metrics") {
		httpServer, err := server.Http(cfg.Common.HttpAddr)
		if err != nil {
			return err
		}
		go func() {
			if err := httpServer.Serve(); err != nil {
				logger.Default.Error("http server failed",
					"error", err,
				)
			}
		}()
		logger.Default.Info("serving metrics", "addr", httpServer.Addr())
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Default.Warn("http server stopped with error",
					"error", err,
				)
			}
		}()
	}

	sink, err := extension.NewWriterSink(extension.NopCloser(os.Stdout),
		extension.WithLogger(logger.Default))
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, "=== OS Monitor Demo ===\n\n")

	m := monitor.New(monitor.Config{
		Interval:   mc.Interval.Std(),
		MaxSamples: mc.Count,
		Duration:   mc.Duration.Std(),
	}, monitor.WithContext(ctx), monitor.WithLogger(logger.Default))
	defer m.Close()

	m.Via(flow.NewMap(format, 1)).To(sink)

	fmt.Fprintln(os.Stdout, "Stopping OS monitor...")
	return nil
}

// checkMonitorConfig rejects the settings monitor.New panics on.
func checkMonitorConfig(interval, duration time.Duration, count int) error {
	if interval <= 0 {
		return fmt.Errorf("monitor interval must be positive, got %v", interval)
	}
	if duration < 0 {
		return fmt.Errorf("monitor duration must not be negative, got %v", duration)
	}
	if count < 0 {
		return fmt.Errorf("monitor sample count must not be negative, got %d", count)
	}
	return nil
}
