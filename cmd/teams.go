package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams and their track counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TEAM\tTRACKS\tCATEGORIES")
		for _, team := range reg.Teams() {
			cat := reg.ForTeam(team)
			marker := ""
			if team == reg.Fallback() {
				marker = " (default)"
			}
			fmt.Fprintf(w, "%s%s\t%d\t%d\n", team, marker, cat.Len(), len(cat.Categories()))
		}
		return w.Flush()
	},
}

var tracksCmd = &cobra.Command{
	Use:   "tracks [team]",
	Short: "List a team's tracks grouped by category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		team := cfg.DefaultTeam
		if len(args) == 1 {
			team = args[0]
			if _, ok := reg.Lookup(team); !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "Unknown team %q, showing %s.\n", team, reg.Fallback())
			}
		}
		cat := reg.ForTeam(team)
		verbose, _ := cmd.Flags().GetBool("milestones")
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%s (%d tracks)\n", cat.Team(), cat.Len())
		for _, category := range cat.Categories() {
			fmt.Fprintf(out, "\n%s  max %d points\n", category, ladder.MaxCategoryPoints(cat, category))
			for _, t := range cat.ByCategory(category) {
				fmt.Fprintf(out, "  %-22s %s\n", t.ID, t.DisplayName)
				if !verbose {
					continue
				}
				for level := 1; level <= len(t.Milestones); level++ {
					m, _ := t.Milestone(level)
					fmt.Fprintf(out, "      %d. %s\n", level, m.Summary)
				}
			}
		}
		return nil
	},
}

func init() {
	tracksCmd.Flags().BoolP("milestones", "m", false, "Also print each milestone summary")
}
