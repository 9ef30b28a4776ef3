package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andrewpaige1/lernkarten-api/auth"
	"github.com/andrewpaige1/lernkarten-api/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an HS256 bearer token for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.Auth.Secret == "" {
			return errors.New("token: no signing secret configured (set LERN_JWT_SECRET)")
		}

		subject, _ := cmd.Flags().GetString("subject")
		nickname, _ := cmd.Flags().GetString("nickname")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl == 0 {
			ttl = cfg.Auth.TokenTTL
		}

		token, err := auth.CreateToken(cfg.Auth.Secret, subject, nickname, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("subject", "dev|local", "token subject (user id)")
	tokenCmd.Flags().String("nickname", "dev", "nickname claim")
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (defaults to auth.token_ttl)")
}
