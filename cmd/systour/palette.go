package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/systour/systour/logger"
	"github.com/systour/systour/palette"
	"github.com/systour/systour/server"
)

func paletteServe(cCtx *cli.Context) error {
	addr := cfg.Palette.Addr
	if cCtx.IsSet("addr") {
		addr = cCtx.String("addr")
	}

	ctx, cancel := signalContext(cCtx)
	defer cancel()

	log := logger.Default.With("component", "palette")
	p := palette.New(
		palette.WithTextSwapDelay(cfg.Palette.TextSwapDelay.Std()),
		palette.WithLogger(log),
	)
	defer p.Close()

	httpServer, err := server.Http(addr)
	if err != nil {
		return err
	}
	palette.NewHandler(p, log).Routes(httpServer)

	for _, line := range palette.Traversal() {
		fmt.Fprintln(os.Stdout, line)
	}
	fmt.Fprintln(os.Stdout)
	for _, line := range palette.Reflection() {
		fmt.Fprintln(os.Stdout, line)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve()
	}()
	log.Info("palette page is up", "addr", httpServer.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	return httpServer.Shutdown(shutdownCtx)
}

func paletteWatch(cCtx *cli.Context) error {
	ctx, cancel := signalContext(cCtx)
	defer cancel()

	return palette.Watch(ctx, cCtx.String("url"), os.Stdout,
		logger.Default.With("component", "palette-watch"))
}
