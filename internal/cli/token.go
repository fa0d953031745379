// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/khatmah/internal/platform/config"
	"github.com/taibuivan/khatmah/internal/platform/constants"
	"github.com/taibuivan/khatmah/internal/platform/sec"
)

// TokenOptions are the flags of the token command.
type TokenOptions struct {
	DisplayName string
	TimeToLive  time.Duration
}

type issuedToken struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for a reader",
		Long: `Sign an access token for local testing and support sessions.

Requires JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(rootOpts, opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.DisplayName, "name", "", "display name claim")
	cmd.Flags().DurationVar(&opts.TimeToLive, "ttl", time.Hour, "token lifetime")

	return cmd
}

func runToken(rootOpts *RootOptions, opts *TokenOptions, cmd *cobra.Command, userID string) error {
	if opts.TimeToLive <= 0 {
		return wrapExit(ExitCommandError, "--ttl must be positive", nil)
	}

	cfg, err := config.LoadSigning()
	if err != nil {
		return wrapExit(ExitCommandError, "load configuration", err)
	}
	if cfg.JWTPrivKeyPath == "" {
		return wrapExit(ExitCommandError, "JWT_PRIVATE_KEY_PATH is required to sign tokens", nil)
	}

	signer, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return wrapExit(ExitCommandError, "load signing keys", err)
	}

	expiresAt := time.Now().Add(opts.TimeToLive).UTC()
	token, err := signer.GenerateAccessToken(userID, opts.DisplayName, opts.TimeToLive)
	if err != nil {
		return wrapExit(ExitFailure, "sign token", err)
	}

	return newPrinter(rootOpts, cmd).Success(issuedToken{UserID: userID, Token: token, ExpiresAt: expiresAt},
		Field{"user_id", userID},
		Field{"expires_at", expiresAt.Format(time.RFC3339)},
		Field{"token", token},
	)
}
