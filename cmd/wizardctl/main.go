// Package main is wizardctl, an operator tool for wizard snapshots and the
// entity catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"onboarding/internal/infrastructure/storage"
	"onboarding/pkg/logger"
)

// env is shared by all subcommands.
type env struct {
	log     *logger.Logger
	backend *storage.Backend
}

// prepare runs after the command line is parsed.
func (e *env) prepare(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	log, err := logger.New(logger.Config{Level: cmd.String("log-level"), Development: true})
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	e.log = log
	return logger.WithLogger(ctx, log), nil
}

// store opens the snapshot backend on first use.
func (e *env) store(ctx context.Context, cmd *cli.Command) (*storage.Backend, error) {
	if e.backend != nil {
		return e.backend, nil
	}
	b, err := storage.Open(ctx, storage.Config{
		Kind:        cmd.String("backend"),
		DatabaseURL: cmd.String("database-url"),
		RedisURL:    cmd.String("redis-url"),
	}, e.log)
	if err != nil {
		return nil, fmt.Errorf("unable to open snapshot backend: %w", err)
	}
	e.backend = b
	return b, nil
}

func (e *env) destroy(_ context.Context, _ *cli.Command) error {
	if e.backend != nil {
		e.backend.Close()
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	e := &env{}
	app := &cli.Command{
		Name:            "wizardctl",
		Usage:           "inspect and seed account opening wizard snapshots",
		HideHelpCommand: true,
		Before:          e.prepare,
		After:           e.destroy,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Value: storage.KindMemory, Sources: cli.EnvVars("SNAPSHOT_BACKEND"),
				Usage: "snapshot backend `KIND` (memory, postgres, redis)"},
			&cli.StringFlag{Name: "database-url", Sources: cli.EnvVars("DATABASE_URL"), Usage: "postgres connection `URL`"},
			&cli.StringFlag{Name: "redis-url", Sources: cli.EnvVars("REDIS_URL"), Usage: "redis connection `URL`"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Sources: cli.EnvVars("LOG_LEVEL"), Usage: "log `LEVEL`"},
		},
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "Stores a dataset as a session snapshot",
				ArgsUsage: "[SESSION_ID]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read the dataset from `FILE` (YAML or JSON) instead of the built-in defaults"},
				},
				Action: e.seed,
			},
			{
				Name:      "inspect",
				Usage:     "Prints completion of a stored session",
				ArgsUsage: "SESSION_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "data", Usage: "also print the merged dataset"},
				},
				Action: e.inspect,
			},
			{
				Name:      "delete",
				Usage:     "Removes a stored session snapshot",
				ArgsUsage: "SESSION_ID",
				Action:    e.remove,
			},
			{
				Name:  "catalog",
				Usage: "Works with entity catalogs",
				Commands: []*cli.Command{
					{
						Name:      "dump",
						Usage:     "Prints the built-in catalog (YAML)",
						ArgsUsage: "[DESTINATION]",
						Action:    dumpCatalog,
					},
					{
						Name:      "check",
						Usage:     "Validates a catalog file",
						ArgsUsage: "FILE",
						Action:    checkCatalog,
					},
				},
			},
		},
	}

	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wizardctl: %v\n", err)
		os.Exit(1)
	}
}
