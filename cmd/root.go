package cmd

import (
	"github.com/spf13/cobra"

	"github.com/snowflake-ladder/snowflake/internal/config"
	"github.com/snowflake-ladder/snowflake/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "snowflake",
	Short: "Career-ladder self-assessment",
	Long:  "Snowflake: rate yourself against your team's career tracks, see your level, and share or store the result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/snowflake/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SNOWFLAKE_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(tracksCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then database.dsn from the config, then SNOWFLAKE_DB env var, then the
// default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Database.DSN != "" {
		return cfg.Database.DSN, nil
	}
	return store.DefaultDBPath()
}
