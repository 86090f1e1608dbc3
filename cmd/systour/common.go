package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/systour/systour/config"
	"github.com/systour/systour/logger"
)

var cfg *config.Config

func initApp(cCtx *cli.Context) error {
	c, err := config.ReadConfig(cCtx.String("config"))
	if err != nil {
		return fmt.Errorf("error reading configuration file: %v", err.Error())
	}

	if cCtx.IsSet("log-level") {
		c.Common.LogLevel = cCtx.String("log-level")
	}
	if cCtx.IsSet("log-format") {
		c.Common.LogFormat = cCtx.String("log-format")
	}

	if err := logger.Init(c.Common); err != nil {
		return fmt.Errorf("logger initialization failed: %v", err.Error())
	}

	cfg = c
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cCtx *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cCtx.Context, syscall.SIGINT, syscall.SIGTERM)
}

func defaultPalettePort() string {
	addr := config.Default.Palette.Addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return addr
}
