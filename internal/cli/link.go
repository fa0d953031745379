// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/khatmah/internal/platform/config"
	pgstore "github.com/taibuivan/khatmah/internal/platform/postgres"
	"github.com/taibuivan/khatmah/internal/social/link"
)

// linkStatementTimeout bounds each statement the link commands run.
const linkStatementTimeout = 10 * time.Second

// NewLinkCommand creates the link command.
func NewLinkCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "link <user-a> <user-b>",
		Short: "Pair two readers so they can share a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(rootOpts, cmd, func(ctx context.Context, directory link.Directory) error {
				created, err := directory.Link(ctx, args[0], args[1])
				if err != nil {
					return wrapExit(ExitFailure, "link", err)
				}
				return printLink(rootOpts, cmd, created)
			})
		},
	}
}

// NewUnlinkCommand creates the unlink command.
func NewUnlinkCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <user>",
		Short: "Dissolve the pair a reader belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(rootOpts, cmd, func(ctx context.Context, directory link.Directory) error {
				removed, err := directory.Unlink(ctx, args[0])
				if err != nil {
					return wrapExit(ExitFailure, "unlink", err)
				}
				return printLink(rootOpts, cmd, removed)
			})
		},
	}
}

func printLink(rootOpts *RootOptions, cmd *cobra.Command, pair *link.Link) error {
	return newPrinter(rootOpts, cmd).Success(pair,
		Field{"pair", link.PairKey(pair.UserA, pair.UserB)},
		Field{"created_at", pair.CreatedAt.Format(time.RFC3339)},
	)
}

func withDirectory(opts *RootOptions, cmd *cobra.Command, run func(context.Context, link.Directory) error) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return wrapExit(ExitCommandError, "load configuration", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, linkStatementTimeout, opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return wrapExit(ExitCommandError, "connect to postgres", err)
	}
	defer pool.Close()

	return run(ctx, link.NewPostgresDirectory(pool))
}
