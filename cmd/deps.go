package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snowflake-ladder/snowflake/internal/assessment"
	"github.com/snowflake-ladder/snowflake/internal/config"
	"github.com/snowflake-ladder/snowflake/internal/identity"
	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/store"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
	"github.com/snowflake-ladder/snowflake/pkg/client"
)

// setupLogging installs the default slog logger. serve logs JSON to
// stdout, the TUI logs nowhere unless --log-file is set, and the other
// commands log text to stderr.
func setupLogging(cmd *cobra.Command) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid --log-level %q", levelName)
	}
	opts := &slog.HandlerOptions{Level: level}

	serving := cmd.Name() == "serve"
	var out io.Writer
	switch path, _ := cmd.Flags().GetString("log-file"); {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = f
	case serving:
		out = os.Stdout
	case isInteractive(cmd):
		out = io.Discard
	default:
		out = os.Stderr
	}

	var handler slog.Handler
	if serving {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "run"
}

// loadRegistry returns the built-in catalogs extended with catalogs.dir.
func loadRegistry(cfg *config.Config) (*tracks.Registry, error) {
	reg, err := tracks.Builtin()
	if err != nil {
		return nil, fmt.Errorf("load built-in tracks: %w", err)
	}
	if cfg.Catalogs.Dir == "" {
		return reg, nil
	}
	reg, err = reg.LoadDir(cfg.Catalogs.Dir)
	if err != nil {
		return nil, fmt.Errorf("load catalogs from %s: %w", cfg.Catalogs.Dir, err)
	}
	slog.Debug("loaded custom catalogs", "dir", cfg.Catalogs.Dir, "teams", len(reg.Teams()))
	return reg, nil
}

// openRepo opens the configured profile store, wrapped in the Redis cache
// when one is configured.
func openRepo(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (store.ProfileRepo, error) {
	var repo store.ProfileRepo
	switch cfg.Database.Driver {
	case config.DriverMemory:
		repo = store.NewMemory()
	case config.DriverPostgres:
		pg, err := store.OpenPostgres(ctx, store.PostgresConfig{
			DSN:          cfg.Database.DSN,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		repo = pg
	default:
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		lite, err := store.OpenSQLite(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		slog.Debug("opened sqlite store", "path", dbPath)
		repo = lite
	}

	if cfg.Redis.Address == "" {
		return repo, nil
	}
	rdb, err := store.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return store.NewCached(repo, rdb, cfg.Redis.TTL), nil
}

// backend is where the CLI reads and writes profiles: the local store or a
// remote server.
type backend interface {
	assessment.Repository
	Delete(ctx context.Context, username string) error
}

// openBackend returns the remote client when client.server_url is set and
// the local store otherwise. The returned func releases it.
func openBackend(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (backend, func(), error) {
	if cfg.Client.ServerURL != "" {
		opts := []client.Option{client.WithTimeout(cfg.Client.Timeout)}
		if cfg.Identity.Token != "" {
			opts = append(opts, client.WithToken(cfg.Identity.Token))
		}
		slog.Debug("using remote profile store", "url", cfg.Client.ServerURL)
		return client.New(cfg.Client.ServerURL, opts...), func() {}, nil
	}
	repo, err := openRepo(ctx, cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() { repo.Close() }, nil
}

// identify resolves who is taking the assessment: a verified token first,
// then the configured username, then the operating-system user.
func identify(ctx context.Context, cfg *config.Config) (ladder.Identity, error) {
	var chain identity.Chain
	if cfg.Auth.Secret != "" {
		chain = append(chain, identity.Token{Secret: []byte(cfg.Auth.Secret), Value: cfg.Identity.Token})
	}
	chain = append(chain,
		identity.Static{Username: cfg.Identity.Username, DisplayName: cfg.Identity.DisplayName},
		identity.System{},
	)
	id, err := chain.Identify(ctx)
	if err != nil {
		return ladder.Identity{}, fmt.Errorf("identify user: %w", err)
	}
	if id.DisplayName == "" {
		id.DisplayName = cfg.Identity.DisplayName
	}
	return id, nil
}

// usernameArg validates a username given on the command line.
func usernameArg(args []string) (string, error) {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return "", fmt.Errorf("username must not be empty")
	}
	return name, nil
}
