package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sentiment-service/internal/middleware"
)

var tokenFlags struct {
	username string
	role     string
	ttl      time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the dataset API",
	RunE:  runToken,
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenFlags.username, "user", "operator", "Username recorded in the token")
	f.StringVar(&tokenFlags.role, "role", "admin", "Role recorded in the token")
	f.DurationVar(&tokenFlags.ttl, "ttl", 24*time.Hour, "Token lifetime")
}

func runToken(cmd *cobra.Command, _ []string) error {
	token, expires, err := middleware.IssueToken(cfg.Auth.JWTSecret, tokenFlags.username, tokenFlags.role, tokenFlags.ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
	return nil
}
