package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Print a stored profile with its totals and level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := usernameArg(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}
		repo, release, err := openBackend(cmd.Context(), cmd, cfg)
		if err != nil {
			return err
		}
		defer release()

		rec, err := repo.Get(cmd.Context(), username)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no profile stored for %q", username)
		}
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		p, err := ladder.DecodeRecord(reg, rec)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ladder.Summarize(p))
		}
		return printProfile(cmd.OutOrStdout(), p)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <username>",
	Short: "Delete a stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := usernameArg(args)
		if err != nil {
			return err
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to delete %q without --yes", username)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		repo, release, err := openBackend(cmd.Context(), cmd, cfg)
		if err != nil {
			return err
		}
		defer release()

		err = repo.Delete(cmd.Context(), username)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "No profile stored for %s.\n", username)
			return nil
		}
		if err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile for %s.\n", username)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "Print the summary as JSON")
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the deletion")
}
