package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})
	defer runner.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApp(runner)
	if err := app.Run(ctx, os.Args); err != nil {
		runner.Close()
		if errors.Is(err, shared.ErrCancelled) {
			logger.Warn("cancelled")
			os.Exit(0)
		}
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "readtrack",
		Usage:   "Track books, reading progress, goals and reviews from the terminal",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Env files to load before reading the config",
				Value: []string{".env"},
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Override api.base_url",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}
