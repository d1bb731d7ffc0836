package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/snowflake-ladder/snowflake/internal/ladder"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const profileTable = "user_value_hashes"

const sqliteSchema = `CREATE TABLE IF NOT EXISTS user_value_hashes (
	username   TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	team       TEXT NOT NULL,
	tracks     TEXT NOT NULL,
	revision   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLite is a ProfileRepo backed by a local SQLite file.
type SQLite struct {
	db  *stdsql.DB
	drv *sql.Driver
	now func() time.Time
}

// OpenSQLite connects to the SQLite database at dsn, applies pragmas and
// creates the profile table.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := stdsql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Pragmas are per connection; one connection keeps them in force.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db, drv: sql.OpenDB(dialect.SQLite, db), now: time.Now}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLite) DB() *stdsql.DB {
	return s.db
}

func (s *SQLite) builder() *sql.DialectBuilder {
	return sql.Dialect(dialect.SQLite)
}

func (s *SQLite) Get(ctx context.Context, username string) (ladder.Record, error) {
	b := s.builder()
	query, args := b.Select("username", "name", "team", "tracks").
		From(b.Table(profileTable)).
		Where(sql.EQ("username", username)).
		Query()

	recs, err := s.queryRecords(ctx, query, args)
	if err != nil {
		return ladder.Record{}, fmt.Errorf("get profile %q: %w", username, err)
	}
	if len(recs) == 0 {
		return ladder.Record{}, ErrNotFound
	}
	return recs[0], nil
}

func (s *SQLite) Save(ctx context.Context, rec ladder.Record) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	query, args := s.builder().Insert(profileTable).
		Columns("username", "name", "team", "tracks", "revision", "updated_at").
		Values(rec.Username, rec.Name, rec.Team, rec.TracksByTeam, uuid.NewString(), s.now().UnixMilli()).
		OnConflict(sql.ConflictColumns("username"), sql.ResolveWithNewValues()).
		Query()

	var res stdsql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save profile %q: %w", rec.Username, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, username string) error {
	query, args := s.builder().Delete(profileTable).
		Where(sql.EQ("username", username)).
		Query()

	var res stdsql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete profile %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", username, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) List(ctx context.Context) ([]ladder.Record, error) {
	b := s.builder()
	query, args := b.Select("username", "name", "team", "tracks").
		From(b.Table(profileTable)).
		OrderBy("username").
		Query()

	recs, err := s.queryRecords(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return recs, nil
}

func (s *SQLite) Meta(ctx context.Context, username string) (Meta, error) {
	b := s.builder()
	query, args := b.Select("revision", "updated_at").
		From(b.Table(profileTable)).
		Where(sql.EQ("username", username)).
		Query()

	var rows sql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return Meta{}, fmt.Errorf("profile meta %q: %w", username, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Meta{}, fmt.Errorf("profile meta %q: %w", username, err)
		}
		return Meta{}, ErrNotFound
	}
	var m Meta
	var millis int64
	if err := rows.Scan(&m.Revision, &millis); err != nil {
		return Meta{}, fmt.Errorf("profile meta %q: %w", username, err)
	}
	m.UpdatedAt = time.UnixMilli(millis).UTC()
	return m, nil
}

func (s *SQLite) queryRecords(ctx context.Context, query string, args []any) ([]ladder.Record, error) {
	var rows sql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []ladder.Record
	for rows.Next() {
		var rec ladder.Record
		if err := rows.Scan(&rec.Username, &rec.Name, &rec.Team, &rec.TracksByTeam); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.drv.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *stdsql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
