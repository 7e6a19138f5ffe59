package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ttpr0/go-raptor/structs"
)

// Cache is an optional result cache for computed journeys, keyed by
// the query parameters that produced them. It sits entirely outside
// the engine's query path -- the core has no persisted state per its
// own design, so a cache hit or miss never touches τ, best, or Q, it
// only short-circuits whether Engine.ComputeAll runs at all.
type Cache struct {
	pool *pgxpool.Pool
}

// Open connects to postgres and verifies reachability with a bounded
// ping, matching the fail-fast connect-once idiom used elsewhere in
// the pack for pgx-backed stores.
func Open(ctx context.Context, dsn string) (*Cache, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping cache pool: %w", err)
	}
	return &Cache{pool: pool}, nil
}

func (c *Cache) Close() {
	c.pool.Close()
}

// EnsureSchema creates the cache table if it does not already exist.
func (c *Cache) EnsureSchema(ctx context.Context) error {
	_, err := c.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS raptor_query_cache (
			cache_key   text PRIMARY KEY,
			paths       jsonb NOT NULL,
			computed_at timestamptz NOT NULL DEFAULT now()
		)`)
	return err
}

// Key deterministically identifies a query by its stop areas, datetime
// and direction. The forbidden-lines filter is not part of it;
// Manager.Route appends that string to the key itself.
func Key(departureArea, destinationArea structs.StopAreaID, dt structs.DateTime, clockwise bool) string {
	direction := "fwd"
	if !clockwise {
		direction = "rev"
	}
	return fmt.Sprintf("%d:%d:%s:%s", departureArea, destinationArea, dt.String(), direction)
}

// Get returns the cached paths for key, or ok=false on a miss.
func (c *Cache) Get(ctx context.Context, key string) (paths []structs.Path, ok bool, err error) {
	var raw []byte
	err = c.pool.QueryRow(ctx, `SELECT paths FROM raptor_query_cache WHERE cache_key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache: %w", err)
	}
	if err := json.Unmarshal(raw, &paths); err != nil {
		return nil, false, fmt.Errorf("decode cached paths: %w", err)
	}
	return paths, true, nil
}

// Put stores paths under key, overwriting any prior entry.
func (c *Cache) Put(ctx context.Context, key string, paths []structs.Path) error {
	raw, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("encode paths: %w", err)
	}
	_, err = c.pool.Exec(ctx, `
		INSERT INTO raptor_query_cache (cache_key, paths, computed_at)
		VALUES ($1, $2, now())
		ON CONFLICT (cache_key) DO UPDATE SET paths = EXCLUDED.paths, computed_at = EXCLUDED.computed_at
	`, key, raw)
	if err != nil {
		return fmt.Errorf("upsert cache: %w", err)
	}
	return nil
}
