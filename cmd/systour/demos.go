package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/systour/systour/demo"
	"github.com/systour/systour/logger"
	"github.com/systour/systour/monitor"
	"github.com/systour/systour/sysinfo"
)

// collectInfo returns whatever system information could be read, logging
// the parts that could not.
func collectInfo(ctx context.Context) *sysinfo.Info {
	info, err := sysinfo.NewCollector().Collect(ctx)
	if err != nil {
		logger.Default.Warn("system information is incomplete",
			"error", err,
		)
	}
	return info
}

func readProcess(ctx context.Context) (*sysinfo.ProcessInfo, error) {
	proc, err := sysinfo.ReadProcess(ctx)
	if proc == nil {
		return nil, err
	}
	if err != nil {
		logger.Default.Warn("process information is incomplete",
			"error", err,
		)
	}
	return proc, nil
}

func pathDemo(cCtx *cli.Context) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("executable path: %w", err)
	}
	demo.Path(os.Stdout, exe)
	return nil
}

func processDemo(cCtx *cli.Context) error {
	ctx, cancel := signalContext(cCtx)
	defer cancel()

	proc, err := readProcess(ctx)
	if err != nil {
		return err
	}
	if err := demo.Process(os.Stdout, proc); err != nil {
		return err
	}
	if err := demo.ExitAfter(ctx, os.Stdout, cCtx.Duration("exit-after")); err != nil {
		logger.Default.Info("interrupted", "error", err)
	}
	return nil
}

func sysinfoDemo(cCtx *cli.Context) error {
	info := collectInfo(cCtx.Context)
	if !cCtx.Bool("json") {
		sysinfo.Print(os.Stdout, info)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

func importDemo(cCtx *cli.Context) error {
	demo.Import(os.Stdout, collectInfo(cCtx.Context))
	return nil
}

func completeDemo(cCtx *cli.Context) error {
	interval, samples := cCtx.Duration("interval"), cCtx.Int("samples")
	if err := checkMonitorConfig(interval, 0, samples); err != nil {
		return err
	}

	ctx, cancel := signalContext(cCtx)
	defer cancel()

	info := collectInfo(ctx)
	proc, err := readProcess(ctx)
	if err != nil {
		return err
	}

	// first sample lands after one interval, once the static sections are printed
	m := monitor.New(monitor.Config{
		Interval:   interval,
		MaxSamples: samples,
	}, monitor.WithContext(ctx), monitor.WithLogger(logger.Default))
	defer m.Close()

	return demo.Complete(ctx, os.Stdout, info, proc, m)
}
