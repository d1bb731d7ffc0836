package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowflake-ladder/snowflake/internal/app"
	"github.com/snowflake-ladder/snowflake/internal/assessment"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp loads the user's profile and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	id, err := identify(ctx, cfg)
	if err != nil {
		return err
	}

	repo, release, err := openBackend(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer release()

	svc := assessment.New(reg, repo, cfg.DefaultTeam)
	profile, err := svc.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	return app.Run(app.Options{
		Registry: reg,
		Saver:    svc,
		Profile:  profile,
		Welcome:  profile.Points() == 0,
	})
}
