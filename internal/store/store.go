// Package store persists profile records.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

// ErrNotFound is returned when no record exists for a username.
var ErrNotFound = errors.New("profile not found")

// Meta describes the stored version of a record.
type Meta struct {
	Revision  string    `json:"revision"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileRepo stores one record per username.
type ProfileRepo interface {
	// Get returns the record for username or ErrNotFound.
	Get(ctx context.Context, username string) (ladder.Record, error)

	// Save inserts or replaces the record keyed by rec.Username.
	Save(ctx context.Context, rec ladder.Record) error

	// Delete removes the record for username. Deleting a missing record
	// returns ErrNotFound.
	Delete(ctx context.Context, username string) error

	// List returns every record ordered by username.
	List(ctx context.Context) ([]ladder.Record, error)

	// Meta returns the revision and update time of username's record.
	Meta(ctx context.Context, username string) (Meta, error)

	Ping(ctx context.Context) error
	Close() error
}

func checkRecord(rec ladder.Record) error {
	if rec.Username == "" {
		return fmt.Errorf("save record: empty username: %w", ladder.ErrInvalidRecord)
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SNOWFLAKE_DB environment variable
// 2. $XDG_DATA_HOME/snowflake/snowflake.db
// 3. ~/.local/share/snowflake/snowflake.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SNOWFLAKE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "snowflake", "snowflake.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
