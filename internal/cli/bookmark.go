// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/khatmah/internal/bootstrap"
	"github.com/taibuivan/khatmah/internal/platform/config"
)

// NewBookmarkCommand creates the bookmark command group.
func NewBookmarkCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Inspect and repair bookmarks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sync <owner-id>",
		Short: "Reconcile an owner's bookmark across both tiers",
		Long: `Reconcile an owner's bookmark now: the newer tier wins, the other is
repaired, and a missing absolute page is backfilled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBookmarkSync(rootOpts, cmd, args[0])
		},
	})

	return cmd
}

func runBookmarkSync(opts *RootOptions, cmd *cobra.Command, ownerID string) error {
	cfg, err := config.Load()
	if err != nil {
		return wrapExit(ExitCommandError, "load configuration", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger(cmd.ErrOrStderr())

	infra, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		return wrapExit(ExitCommandError, "open storage tiers", err)
	}
	defer infra.Close()

	services := bootstrap.NewServices(infra, cfg, logger)
	bookmark, err := services.Bookmarks.Sync(ctx, ownerID)
	if err != nil {
		return wrapExit(ExitFailure, "bookmark sync", err)
	}
	if bookmark == nil {
		return wrapExit(ExitFailure, "no bookmark in either tier for "+ownerID, nil)
	}

	page := 0
	if bookmark.AbsolutePage != nil {
		page = *bookmark.AbsolutePage
	}
	return newPrinter(opts, cmd).Success(bookmark,
		Field{"owner", bookmark.OwnerID},
		Field{"unit", bookmark.UnitNumber},
		Field{"position", bookmark.PositionInUnit},
		Field{"page", page},
		Field{"updated_at", bookmark.UpdatedAt.Format(time.RFC3339Nano)},
	)
}
