package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

// Memory is an in-process ProfileRepo. Contents are lost on exit.
type Memory struct {
	mu      sync.RWMutex
	records map[string]ladder.Record
	meta    map[string]Meta
}

// NewMemory returns an empty Memory repo.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]ladder.Record),
		meta:    make(map[string]Meta),
	}
}

func (m *Memory) Get(_ context.Context, username string) (ladder.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[username]
	if !ok {
		return ladder.Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) Save(_ context.Context, rec ladder.Record) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Username] = rec
	m.meta[rec.Username] = Meta{Revision: uuid.NewString(), UpdatedAt: time.Now().UTC()}
	return nil
}

func (m *Memory) Delete(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[username]; !ok {
		return ErrNotFound
	}
	delete(m.records, username)
	delete(m.meta, username)
	return nil
}

func (m *Memory) List(context.Context) ([]ladder.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]ladder.Record, 0, len(m.records))
	for _, rec := range m.records {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b ladder.Record) int {
		return strings.Compare(a.Username, b.Username)
	})
	return recs, nil
}

func (m *Memory) Meta(_ context.Context, username string) (Meta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	meta, ok := m.meta[username]
	if !ok {
		return Meta{}, ErrNotFound
	}
	return meta, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
