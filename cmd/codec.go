package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/snowflake-ladder/snowflake/internal/assessment"
	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [TRACK=MILESTONE...]",
	Short: "Print the share code for a set of ratings",
	Long: "Print the share code (the part of a share link after #) for the given ratings.\n" +
		"With --user the stored profile of that user is encoded instead.",
	Example: "  snowflake encode --team Development --name Ada MOBILE=3 SERVERS=2\n  snowflake encode --user ada",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		var p ladder.Profile
		if username, _ := cmd.Flags().GetString("user"); username != "" {
			repo, release, err := openBackend(cmd.Context(), cmd, cfg)
			if err != nil {
				return err
			}
			defer release()
			p, err = assessment.New(reg, repo, cfg.DefaultTeam).Load(cmd.Context(), ladder.Identity{Username: username})
			if err != nil {
				return err
			}
		} else {
			team, _ := cmd.Flags().GetString("team")
			if team == "" {
				team = cfg.DefaultTeam
			}
			name, _ := cmd.Flags().GetString("name")
			p = ladder.NewProfile(reg, team, ladder.Identity{DisplayName: name})
		}

		for _, arg := range args {
			id, level, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("rating %q: want TRACK=MILESTONE", arg)
			}
			p, err = p.SetMilestone(strings.ToUpper(strings.TrimSpace(id)), ladder.ParseMilestone(level))
			if err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), ladder.EncodePositional(p))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <code>",
	Short: "Show the ratings in a share code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		team, _ := cmd.Flags().GetString("team")
		if team == "" {
			team = cfg.DefaultTeam
		}
		p, err := ladder.DecodePositional(reg, team, args[0])
		if err != nil {
			return err
		}
		if username, _ := cmd.Flags().GetString("username"); username != "" {
			id := p.Identity()
			id.Username = username
			p = p.WithIdentity(id)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ladder.EncodeRecord(p))
		}
		return printProfile(cmd.OutOrStdout(), p)
	},
}

func init() {
	encodeCmd.Flags().String("team", "", "Team whose tracks are rated (default from config)")
	encodeCmd.Flags().String("name", "", "Display name to include")
	encodeCmd.Flags().String("user", "", "Encode the stored profile of this username")

	decodeCmd.Flags().String("team", "", "Team assumed when the code does not name one")
	decodeCmd.Flags().String("username", "", "Username to attach to the decoded profile")
	decodeCmd.Flags().Bool("json", false, "Print the stored record form as JSON")
}

// printProfile writes p's ratings and summary as a table.
func printProfile(out io.Writer, p ladder.Profile) error {
	s := ladder.Summarize(p)
	cat := p.Catalog()

	if name := p.Identity().Name(); name != "" {
		fmt.Fprintf(out, "%s\n", name)
	}
	fmt.Fprintf(out, "Team: %s\n\n", s.Team)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRACK\tCATEGORY\tMILESTONE\tPOINTS")
	for _, t := range cat.Tracks() {
		m := p.Milestone(t.ID)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", t.DisplayName, t.Category, m, ladder.Points(m))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	for _, c := range s.Categories {
		fmt.Fprintf(out, "%-14s %3d / %d\n", c.Category, c.Points, ladder.MaxCategoryPoints(cat, c.Category))
	}
	level := "none"
	if s.HasLevel {
		level = s.Level
	}
	fmt.Fprintf(out, "\nTotal %d points, level %s", s.Total, level)
	if s.HasNext {
		fmt.Fprintf(out, ", %d to next level", s.ToNextLevel)
	}
	fmt.Fprintln(out)
	return nil
}
