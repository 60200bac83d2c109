package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"cratematch/internal/logging"
	"cratematch/internal/matching"
	"cratematch/internal/services"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS search_cache (
	cache_key  TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	cached_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_cache_cached_at ON search_cache(cached_at);
`

// Cache stores raw search responses in SQLite, keyed by query text and result
// limit. Entries expire after the configured TTL. A file lock serializes
// writers across processes; if the lock cannot be acquired the cache degrades
// to read-only rather than failing the run.
type Cache struct {
	db       *sql.DB
	lock     *flock.Flock
	ttl      time.Duration
	logger   *slog.Logger
	readOnly bool
}

// OpenCache opens (or creates) the cache database at path.
func OpenCache(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "searchcache")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "searchcache", "open", "create cache directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "searchcache", "open", "open cache database", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, services.Wrap(services.ErrBackend, "searchcache", "open", fmt.Sprintf("apply %s", pragma), err)
		}
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, services.Wrap(services.ErrBackend, "searchcache", "open", "apply cache schema", err)
	}

	c := &Cache{
		db:     db,
		lock:   flock.New(path + ".lock"),
		ttl:    ttl,
		logger: logger,
	}
	ok, err := c.lock.TryLock()
	if err != nil || !ok {
		// Another process owns the cache; keep serving stale-free reads but
		// skip writes so the two runs cannot interleave.
		c.readOnly = true
		logger.Warn("cache lock unavailable, running read-only", logging.Error(err))
	}
	return c, nil
}

// Close releases the writer lock and the database handle.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	if !c.readOnly {
		if err := c.lock.Unlock(); err != nil {
			c.logger.Warn("failed to release cache lock", logging.Error(err))
		}
	}
	return c.db.Close()
}

func cacheKey(query string, limit int) string {
	return fmt.Sprintf("%s|%d", query, limit)
}

// Lookup returns the cached candidates for a query if a fresh entry exists.
func (c *Cache) Lookup(ctx context.Context, query string, limit int) ([]matching.Candidate, bool) {
	if c == nil {
		return nil, false
	}
	row := c.db.QueryRowContext(ctx,
		"SELECT payload, cached_at FROM search_cache WHERE cache_key = ?",
		cacheKey(query, limit))

	var payload, cachedAtRaw string
	if err := row.Scan(&payload, &cachedAtRaw); err != nil {
		if err != sql.ErrNoRows {
			c.logger.Warn("cache lookup failed", logging.String("query", query), logging.Error(err))
		}
		return nil, false
	}
	cachedAt, err := time.Parse(time.RFC3339Nano, cachedAtRaw)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(cachedAt) > c.ttl {
		return nil, false
	}

	var candidates []matching.Candidate
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", logging.String("query", query), logging.Error(err))
		return nil, false
	}
	return candidates, true
}

// Store saves a query's candidates. Failures are logged, never propagated; a
// broken cache must not break matching.
func (c *Cache) Store(ctx context.Context, query string, limit int, candidates []matching.Candidate) {
	if c == nil || c.readOnly {
		return
	}
	payload, err := json.Marshal(candidates)
	if err != nil {
		c.logger.Warn("cache encode failed", logging.String("query", query), logging.Error(err))
		return
	}
	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO search_cache (cache_key, payload, cached_at) VALUES (?, ?, ?)",
		cacheKey(query, limit), string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		c.logger.Warn("cache store failed", logging.String("query", query), logging.Error(err))
	}
}

// Prune deletes entries older than the TTL and reports how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	if c == nil || c.readOnly || c.ttl <= 0 {
		return 0, nil
	}
	res, err := c.db.ExecContext(ctx,
		"DELETE FROM search_cache WHERE cached_at < ?", time.Now().UTC().Add(-c.ttl).Format(time.RFC3339Nano))
	if err != nil {
		return 0, services.Wrap(services.ErrBackend, "searchcache", "prune", "delete expired entries", err)
	}
	return res.RowsAffected()
}
