// Package storage is the local read cache. After every successful list
// fetch the collection is written here; when a later fetch fails, the
// last-known-good copy is shown instead of an empty screen. The cache never
// holds credentials.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mymoneyhq/moneyctl/internal/config"
	"github.com/mymoneyhq/moneyctl/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Cache is a SQLite-backed snapshot of the remote collections.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// DefaultPath returns the cache database location under the XDG data dir.
func DefaultPath() (string, error) {
	return config.DataFilePath("cache.db")
}

// NewCache opens (and if necessary creates) the cache database.
func NewCache(dbPath string) (*Cache, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	c := &Cache{db: db, dbPath: dbPath}
	if err := c.migrate(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		type        TEXT NOT NULL,
		id          TEXT NOT NULL,
		name        TEXT NOT NULL,
		amount      REAL NOT NULL,
		date        TEXT NOT NULL,
		category_id TEXT NOT NULL,
		icon        TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMP,
		updated_at  TIMESTAMP,
		PRIMARY KEY (type, id)
	);
	CREATE TABLE IF NOT EXISTS categories (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT ''
	);`

	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate cache schema: %w", err)
	}
	return nil
}

// ReplaceTransactions swaps the cached collection of the given type for the
// fetched one, atomically.
func (c *Cache) ReplaceTransactions(ctx context.Context, typ model.TransactionType, txs []model.Transaction) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE type = ?`, string(typ)); err != nil {
		return fmt.Errorf("failed to clear cached transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (type, id, name, amount, date, category_id, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range txs {
		_, err := stmt.ExecContext(ctx,
			string(record.Type), record.ID, record.Name, record.Amount,
			record.Date.String(), record.CategoryID, record.Icon,
			record.CreatedAt, record.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to cache transaction %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache update: %w", err)
	}
	return nil
}

// Transactions returns the cached collection of the given type, ordered by
// effective date then ID.
func (c *Cache) Transactions(ctx context.Context, typ model.TransactionType) ([]model.Transaction, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, amount, date, category_id, icon, created_at, updated_at
		FROM transactions
		WHERE type = ?
		ORDER BY date, id`, string(typ))
	if err != nil {
		return nil, fmt.Errorf("failed to query cached transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var (
			record             model.Transaction
			dateStr            string
			createdAt, updated sql.NullTime
		)
		if err := rows.Scan(&record.ID, &record.Name, &record.Amount, &dateStr,
			&record.CategoryID, &record.Icon, &createdAt, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan cached transaction: %w", err)
		}
		record.Type = typ
		record.Date, err = model.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt cached date: %w", err)
		}
		if createdAt.Valid {
			record.CreatedAt = createdAt.Time
		}
		if updated.Valid {
			record.UpdatedAt = updated.Time
		}
		txs = append(txs, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cached transactions: %w", err)
	}
	return txs, nil
}

// ReplaceCategories swaps the cached category list for the fetched one.
func (c *Cache) ReplaceCategories(ctx context.Context, cats []model.Category) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("failed to clear cached categories: %w", err)
	}

	for _, cat := range cats {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, type, icon) VALUES (?, ?, ?, ?)`,
			cat.ID, cat.Name, string(cat.Type), cat.Icon)
		if err != nil {
			return fmt.Errorf("failed to cache category %s: %w", cat.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache update: %w", err)
	}
	return nil
}

// Categories returns the cached category list, ordered by type then name.
func (c *Cache) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, type, icon FROM categories ORDER BY type, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached categories: %w", err)
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var cat model.Category
		var typ string
		if err := rows.Scan(&cat.ID, &cat.Name, &typ, &cat.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan cached category: %w", err)
		}
		cat.Type = model.TransactionType(typ)
		cats = append(cats, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cached categories: %w", err)
	}
	return cats, nil
}

// LastUpdated reports when the cached collection was last replaced, derived
// from the newest server timestamp present. Zero when the cache is empty.
func (c *Cache) LastUpdated(ctx context.Context, typ model.TransactionType) (time.Time, error) {
	var updated sql.NullTime
	err := c.db.QueryRowContext(ctx,
		`SELECT MAX(updated_at) FROM transactions WHERE type = ?`, string(typ)).Scan(&updated)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query cache freshness: %w", err)
	}
	if !updated.Valid {
		return time.Time{}, nil
	}
	return updated.Time, nil
}
