// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taibuivan/khatmah/internal/platform/config"
	"github.com/taibuivan/khatmah/internal/platform/migration"
)

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrations(rootOpts, cmd, func(runner *migration.Runner) error {
				return runner.Up()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down <steps>",
		Short: "Roll back the given number of migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := strconv.Atoi(args[0])
			if err != nil || steps < 1 {
				return wrapExit(ExitCommandError, "steps must be a positive integer", err)
			}
			return withMigrations(rootOpts, cmd, func(runner *migration.Runner) error {
				return runner.Down(steps)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrations(rootOpts, cmd, func(*migration.Runner) error { return nil })
		},
	})

	return cmd
}

// migrationState is printed after every migrate subcommand.
type migrationState struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func withMigrations(opts *RootOptions, cmd *cobra.Command, run func(*migration.Runner) error) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return wrapExit(ExitCommandError, "load configuration", err)
	}

	runner, err := migration.Open(cfg.DatabaseURL, cfg.MigrationPath, opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return wrapExit(ExitCommandError, "open migrations", err)
	}
	defer runner.Close()

	if err := run(runner); err != nil {
		return wrapExit(ExitFailure, "migrate", err)
	}

	version, dirty, err := runner.Version()
	if err != nil {
		return wrapExit(ExitFailure, "read schema version", err)
	}

	return newPrinter(opts, cmd).Success(migrationState{Version: version, Dirty: dirty},
		Field{"version", version},
		Field{"dirty", dirty},
	)
}
