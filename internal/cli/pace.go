// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/khatmah/internal/platform/clock"
	"github.com/taibuivan/khatmah/internal/quran"
	"github.com/taibuivan/khatmah/internal/reading/pacing"
)

// PaceOptions are the flags of the pace command.
type PaceOptions struct {
	Start string
	End   string
	Days  int
	Page  int
	At    string
}

// NewPaceCommand creates the pace command.
func NewPaceCommand(rootOpts *RootOptions) *cobra.Command {
	return newPaceCommand(rootOpts, clock.System{})
}

func newPaceCommand(rootOpts *RootOptions, now clock.Clock) *cobra.Command {
	opts := &PaceOptions{}

	cmd := &cobra.Command{
		Use:   "pace",
		Short: "Project a completion schedule",
		Long: `Project where a reader should be on a schedule, without touching storage.

The schedule is --start plus either --end or --days. Instants are RFC 3339;
--start and --at default to now.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPace(rootOpts, opts, now, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "schedule start (RFC 3339)")
	cmd.Flags().StringVar(&opts.End, "end", "", "schedule end (RFC 3339)")
	cmd.Flags().IntVar(&opts.Days, "days", 0, "schedule length in days, instead of --end")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "current absolute page")
	cmd.Flags().StringVar(&opts.At, "at", "", "instant to project at (RFC 3339)")
	cmd.MarkFlagsMutuallyExclusive("end", "days")
	cmd.MarkFlagsOneRequired("end", "days")

	return cmd
}

func runPace(rootOpts *RootOptions, opts *PaceOptions, now clock.Clock, cmd *cobra.Command) error {
	start, err := parseInstant("start", opts.Start, now)
	if err != nil {
		return err
	}
	at, err := parseInstant("at", opts.At, now)
	if err != nil {
		return err
	}

	end := start.Add(time.Duration(opts.Days) * 24 * time.Hour)
	if opts.End != "" {
		if end, err = time.Parse(time.RFC3339, opts.End); err != nil {
			return wrapExit(ExitCommandError, "--end must be an RFC 3339 instant", err)
		}
	}

	if !quran.ValidPage(opts.Page) {
		return wrapExit(ExitCommandError, fmt.Sprintf("--page must be between 1 and %d", quran.TotalPages), nil)
	}

	pacer, err := pacing.New(start, end)
	if err != nil {
		return wrapExit(ExitCommandError, "invalid schedule", err)
	}

	report := pacer.Report(opts.Page, at)
	return newPrinter(rootOpts, cmd).Success(report,
		Field{"expected_page", report.ExpectedPage},
		Field{"status", fmt.Sprintf("%s (%d)", report.Status.Kind, report.Status.Magnitude)},
		Field{"daily_goal", report.DailyGoal},
		Field{"daily_quota", report.DailyQuota},
		Field{"total_days", report.TotalDays},
		Field{"days_elapsed", report.DaysElapsed},
		Field{"days_remaining", report.DaysRemaining},
		Field{"percent_complete", report.PercentComplete},
	)
}

// parseInstant reads an RFC 3339 flag, defaulting to now.
func parseInstant(flag, raw string, now clock.Clock) (time.Time, error) {
	if raw == "" {
		return now.Now().UTC(), nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, wrapExit(ExitCommandError, "--"+flag+" must be an RFC 3339 instant", err)
	}
	return value, nil
}
