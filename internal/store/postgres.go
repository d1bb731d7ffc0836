package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// Postgres is a ProfileRepo backed by PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, pings and migrates the database.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 10
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	}
	poolConfig.MinConns = 2
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	}
	poolConfig.MaxConnLifetime = 30 * time.Minute
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (r *Postgres) Get(ctx context.Context, username string) (ladder.Record, error) {
	var rec ladder.Record
	err := r.pool.QueryRow(ctx, `
		SELECT username, name, team, tracks
		FROM user_value_hashes
		WHERE username = $1
	`, username).Scan(&rec.Username, &rec.Name, &rec.Team, &rec.TracksByTeam)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ladder.Record{}, ErrNotFound
		}
		return ladder.Record{}, fmt.Errorf("get profile %q: %w", username, err)
	}
	return rec, nil
}

func (r *Postgres) Save(ctx context.Context, rec ladder.Record) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_value_hashes (username, name, team, tracks, revision, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (username) DO UPDATE SET
			name = EXCLUDED.name,
			team = EXCLUDED.team,
			tracks = EXCLUDED.tracks,
			revision = EXCLUDED.revision,
			updated_at = EXCLUDED.updated_at
	`, rec.Username, rec.Name, rec.Team, rec.TracksByTeam, uuid.NewString())
	if err != nil {
		return fmt.Errorf("save profile %q: %w", rec.Username, err)
	}
	return nil
}

func (r *Postgres) Delete(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_value_hashes WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Postgres) List(ctx context.Context) ([]ladder.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT username, name, team, tracks
		FROM user_value_hashes
		ORDER BY username
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var recs []ladder.Record
	for rows.Next() {
		var rec ladder.Record
		if err := rows.Scan(&rec.Username, &rec.Name, &rec.Team, &rec.TracksByTeam); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *Postgres) Meta(ctx context.Context, username string) (Meta, error) {
	var m Meta
	err := r.pool.QueryRow(ctx, `
		SELECT revision, updated_at FROM user_value_hashes WHERE username = $1
	`, username).Scan(&m.Revision, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Meta{}, ErrNotFound
		}
		return Meta{}, fmt.Errorf("profile meta %q: %w", username, err)
	}
	return m, nil
}

// Ping checks database connectivity.
func (r *Postgres) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool.
func (r *Postgres) Close() error {
	r.pool.Close()
	return nil
}
