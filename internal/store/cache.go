package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

// RedisClient is the subset of *redis.Client used by Cached.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// Cached is a Redis cache in front of another ProfileRepo. Saves write
// through; misses are filled only when the key is still absent, so a fill
// racing a Save or Delete never overwrites the newer state. Delete leaves a
// short-lived tombstone for the same reason. Cache failures are logged and
// never fail a request.
type Cached struct {
	inner ProfileRepo
	rdb   RedisClient
	ttl   time.Duration
}

// NewCached wraps inner with a cache whose entries expire after ttl.
func NewCached(inner ProfileRepo, rdb RedisClient, ttl time.Duration) *Cached {
	return &Cached{inner: inner, rdb: rdb, ttl: ttl}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, address, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// tombstone marks a deleted profile until tombstoneTTL passes.
const (
	tombstone    = "-"
	tombstoneTTL = 30 * time.Second
)

func cacheKey(username string) string {
	return "snowflake:profile:" + username
}

func (c *Cached) Get(ctx context.Context, username string) (ladder.Record, error) {
	key := cacheKey(username)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && string(raw) == tombstone:
		return c.inner.Get(ctx, username)
	case err == nil:
		rec, perr := ladder.ParseRecord(raw)
		if perr == nil {
			return rec, nil
		}
		slog.Warn("discarding unreadable cache entry", "username", username, "error", perr)
		c.invalidate(ctx, username)
	case !errors.Is(err, redis.Nil):
		slog.Warn("profile cache read failed", "username", username, "error", err)
	}

	rec, err := c.inner.Get(ctx, username)
	if err != nil {
		return ladder.Record{}, err
	}
	if data, err := json.Marshal(rec); err == nil {
		if err := c.rdb.SetNX(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Warn("profile cache fill failed", "username", username, "error", err)
		}
	}
	return rec, nil
}

func (c *Cached) Save(ctx context.Context, rec ladder.Record) error {
	if err := c.inner.Save(ctx, rec); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err == nil {
		err = c.rdb.Set(ctx, cacheKey(rec.Username), data, c.ttl).Err()
	}
	if err != nil {
		slog.Warn("profile cache write failed", "username", rec.Username, "error", err)
		c.invalidate(ctx, rec.Username)
	}
	return nil
}

func (c *Cached) Delete(ctx context.Context, username string) error {
	err := c.inner.Delete(ctx, username)
	if serr := c.rdb.Set(ctx, cacheKey(username), tombstone, tombstoneTTL).Err(); serr != nil {
		slog.Warn("profile cache tombstone failed", "username", username, "error", serr)
		c.invalidate(ctx, username)
	}
	return err
}

func (c *Cached) List(ctx context.Context) ([]ladder.Record, error) {
	return c.inner.List(ctx)
}

func (c *Cached) Meta(ctx context.Context, username string) (Meta, error) {
	return c.inner.Meta(ctx, username)
}

func (c *Cached) Ping(ctx context.Context) error {
	if err := c.inner.Ping(ctx); err != nil {
		return err
	}
	return c.rdb.Ping(ctx).Err()
}

// Close closes the wrapped repo and the Redis client when it is closable.
func (c *Cached) Close() error {
	err := c.inner.Close()
	if closer, ok := c.rdb.(io.Closer); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}

func (c *Cached) invalidate(ctx context.Context, username string) {
	if err := c.rdb.Del(ctx, cacheKey(username)).Err(); err != nil {
		slog.Warn("profile cache invalidation failed", "username", username, "error", err)
	}
}
