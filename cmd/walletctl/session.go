package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainsafe/token-wallet/pkg/auth"
)

const secretEnv = "WALLET_AUTH_JWT_SECRET"

func (c *cli) sessionCmd() *cobra.Command {
	var (
		userID int64
		email  string
		ttl    time.Duration
	)

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a session token with the server secret from " + secretEnv,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user-id is required")
			}
			sessions, err := auth.NewSessionManager(os.Getenv(secretEnv), ttl)
			if err != nil {
				return fmt.Errorf("%s: %w", secretEnv, err)
			}
			token, err := sessions.Issue(auth.Identity{UserID: userID, Email: email})
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, token)
			return nil
		},
	}
	issue.Flags().Int64Var(&userID, "user-id", 0, "user id to embed in the token")
	issue.Flags().StringVar(&email, "email", "", "email to embed in the token")
	issue.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session token utilities",
	}
	cmd.AddCommand(issue)
	return cmd
}
