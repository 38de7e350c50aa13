package translate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache stores translated cue texts in sqlite so replaying a video does not
// hit the provider again. Entries are keyed by namespace and source text.
type Cache struct {
	db        *sql.DB
	next      TextTranslator
	namespace string
}

// namespace for a provider/target pair
func CacheNamespace(provider Provider, opts Options) string {
	return fmt.Sprintf("%s:%s:%s", provider, opts.Model, opts.TargetLanguage)
}

func OpenCache(
	path string,
	namespace string,
	next TextTranslator,
) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS translations (
		namespace  TEXT NOT NULL,
		source     TEXT NOT NULL,
		translated TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (namespace, source)
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Cache{db: db, next: next, namespace: namespace}, nil
}

func (c *Cache) TranslateText(ctx context.Context, text string) (string, error) {
	var translated string
	err := c.db.QueryRowContext(
		ctx,
		`SELECT translated FROM translations WHERE namespace = ? AND source = ?`,
		c.namespace,
		text,
	).Scan(&translated)
	switch {
	case err == nil:
		return translated, nil
	case !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("read translation cache: %w", err)
	}

	translated, err = c.next.TranslateText(ctx, text)
	if err != nil {
		return "", err
	}

	if _, err := c.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO translations (namespace, source, translated, created_at)
		VALUES (?, ?, ?, ?)`,
		c.namespace,
		text,
		translated,
		time.Now().Unix(),
	); err != nil {
		return "", fmt.Errorf("write translation cache: %w", err)
	}

	return translated, nil
}

// number of cached entries in this namespace
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM translations WHERE namespace = ?`,
		c.namespace,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return n, nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
