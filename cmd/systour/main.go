package main

import (
	"os"
	"runtime/debug"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/systour/systour/logger"
)

var Version = "v.0.0.0"

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Default.Error(
				"unexpected panic recovered",
				"error", r,
				"stack_trace", string(debug.Stack()),
			)
			os.Exit(2)
		}
	}()

	if err := newApp().Run(os.Args); err != nil {
		logger.Default.Error("we're failed",
			"error", err,
		)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "systour",
		Usage:   "a guided tour of paths, processes, the OS, files and a small web page",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "",
				Usage:   "path to configuration file (json, toml, yaml supported)",
				EnvVars: []string{"SYSTOUR_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level override (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format override (logfmt, json)",
			},
		},
		Before: initApp,
		Commands: []*cli.Command{
			{
				Name:   "path",
				Usage:  "path walkthrough for the running executable",
				Action: pathDemo,
			},
			{
				Name:  "process",
				Usage: "process walkthrough, exits after a delay",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "exit-after",
						Value: 3 * time.Second,
						Usage: "delay before exiting",
					},
				},
				Action: processDemo,
			},
			{
				Name:  "sysinfo",
				Usage: "print system information",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print as json",
					},
				},
				Action: sysinfoDemo,
			},
			{
				Name:   "import",
				Usage:  "system information through the sysinfo package",
				Action: importDemo,
			},
			{
				Name:  "complete",
				Usage: "every walkthrough followed by live monitoring",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "samples",
						Value: 5,
						Usage: "live monitoring samples",
					},
					&cli.DurationFlag{
						Name:  "interval",
						Value: time.Second,
						Usage: "live monitoring interval",
					},
				},
				Action: completeDemo,
			},
			{
				Name:  "monitor",
				Usage: "poll OS stats until the duration or sample count is reached",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "sampling interval (default from config)",
					},
					&cli.DurationFlag{
						Name:  "duration",
						Usage: "stop after this long, 0 for no limit (default from config)",
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "stop after this many samples, 0 for no limit (default from config)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "output format (block, line)",
					},
					&cli.BoolFlag{
						Name:  "serve-metrics",
						Usage: "serve prometheus metrics on common.http_addr while running",
					},
				},
				Action: monitorDemo,
			},
			{
				Name:  "fs",
				Usage: "file activities",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "working directory of the activities (default from config)",
					},
					&cli.StringFlag{
						Name:  "self",
						Usage: "file the quick reference reads (default notes.txt)",
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:  "tour",
						Usage: "run every activity on a timer",
						Flags: []cli.Flag{
							&cli.DurationFlag{
								Name:  "step",
								Usage: "delay between activities (default from config)",
							},
							&cli.BoolFlag{
								Name:  "seed",
								Value: true,
								Usage: "write missing sample inputs first",
							},
						},
						Action: fsTour,
					},
					{
						Name:      "run",
						Usage:     "run the named activities now",
						UsageText: "run hexdump roundtrip",
						Action:    fsRun,
					},
					{
						Name:   "list",
						Usage:  "list activities",
						Action: fsList,
					},
					{
						Name:   "seed",
						Usage:  "write missing sample input files",
						Action: fsSeed,
					},
				},
			},
			{
				Name:  "palette",
				Usage: "background palette page",
				Subcommands: []*cli.Command{
					{
						Name:  "serve",
						Usage: "serve the palette page",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "addr",
								Usage: "listen address (default from config)",
							},
						},
						Action: paletteServe,
					},
					{
						Name:  "watch",
						Usage: "follow the snapshot feed of a running palette",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "url",
								Value: "ws://localhost" + defaultPalettePort() + "/ws",
								Usage: "feed url",
							},
						},
						Action: paletteWatch,
					},
				},
			},
		},
	}
}
