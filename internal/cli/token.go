package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"salonbook/backend/internal/auth"
	"salonbook/backend/internal/config"
)

// NewTokenCmd issues a signed access token for manual testing against a
// running server.
func NewTokenCmd() *cobra.Command {
	var (
		sub   string
		role  string
		email string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokens(cfg.JWTSecret)
			if err != nil {
				return err
			}
			raw, exp, err := tokens.Issue(auth.Actor{UserID: sub, Email: email, Role: auth.Role(role)}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "", "user id (required)")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleUser), "user, owner or admin")
	cmd.Flags().StringVar(&email, "email", "", "email address notifications are sent to")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
