package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowflake-ladder/snowflake/internal/identity"
	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

var tokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Issue a signed identity token",
	Long: "Issue a token that lets the holder save the given user's profile on a server\n" +
		"configured with the same auth.secret.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := usernameArg(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Auth.Secret == "" {
			return errors.New("auth.secret (or SNOWFLAKE_AUTH_SECRET) must be set to issue tokens")
		}

		ttl := cfg.Auth.TokenTTL
		if d, _ := cmd.Flags().GetDuration("ttl"); d > 0 {
			ttl = d
		}
		name, _ := cmd.Flags().GetString("name")

		tok, err := identity.IssueToken([]byte(cfg.Auth.Secret), ladder.Identity{Username: username, DisplayName: name}, ttl)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("name", "", "Display name carried in the token")
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (default auth.token_ttl)")
}
