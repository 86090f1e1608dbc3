package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/systour/systour/fsdemo"
	"github.com/systour/systour/logger"
)

// fsEnv builds the activity environment from the fs command flags, falling
// back to the tour configuration.
func fsEnv(cCtx *cli.Context) *fsdemo.Env {
	dir := cfg.Tour.Dir
	if cCtx.IsSet("dir") {
		dir = cCtx.String("dir")
	}

	env := fsdemo.NewEnv(dir, os.Stdout)
	env.Logger = logger.Default.With("dir", dir)
	if cfg.Tour.Self != "" {
		env.Self = cfg.Tour.Self
	}
	if cCtx.IsSet("self") {
		env.Self = cCtx.String("self")
	}
	return env
}

func fsTour(cCtx *cli.Context) error {
	ctx, cancel := signalContext(cCtx)
	defer cancel()

	env := fsEnv(cCtx)
	if cCtx.Bool("seed") {
		created, err := fsdemo.Seed(env.Fs)
		if err != nil {
			return fmt.Errorf("seeding inputs: %w", err)
		}
		if len(created) > 0 {
			env.Logger.Info("seeded inputs", "files", created)
		}
	}

	step := cfg.Tour.Step.Std()
	if cCtx.IsSet("step") {
		step = cCtx.Duration("step")
	}
	if step < 0 {
		return fmt.Errorf("tour step must not be negative, got %v", step)
	}

	return fsdemo.Tour(ctx, env, step)
}

func fsRun(cCtx *cli.Context) error {
	names := cCtx.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("no activities given, known: %s", strings.Join(fsdemo.Names(), ", "))
	}

	ctx, cancel := signalContext(cCtx)
	defer cancel()

	return fsdemo.Run(ctx, fsEnv(cCtx), names...)
}

func fsList(cCtx *cli.Context) error {
	for _, a := range fsdemo.Activities() {
		fmt.Fprintf(os.Stdout, "%-14s %s\n", a.Name, a.Title)
	}
	return nil
}

func fsSeed(cCtx *cli.Context) error {
	created, err := fsdemo.Seed(fsEnv(cCtx).Fs)
	if err != nil {
		return err
	}
	if len(created) == 0 {
		fmt.Fprintln(os.Stdout, "All sample inputs already exist.")
		return nil
	}
	for _, name := range created {
		fmt.Fprintln(os.Stdout, "created", name)
	}
	return nil
}
