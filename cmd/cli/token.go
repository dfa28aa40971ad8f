package cli

import (
	"fmt"

	"github.com/i2p-business/i2p/internal/auth"
	"github.com/i2p-business/i2p/internal/config"

	"github.com/spf13/cobra"
)

func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [session-id]",
		Short: "Issue a bearer token for a session",
		Long:  `Issue a signed bearer token bound to the given session. Requires JWT_SECRET.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, err := auth.NewSessionTokenIssuer(cfg.JWTSecret, cfg.SessionTTL).Issue(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	return cmd
}
