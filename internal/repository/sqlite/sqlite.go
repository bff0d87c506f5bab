package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Houeta/pricewatch/internal/repository"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

const driverName = "sqlite3"

// Repository is the data store behind the app: stores, products, price
// observations, shopping lists with their members, scanned page state and
// alert subscriptions.
type Repository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewRepository opens (or creates) the SQLite database at storagePath and
// makes sure the schema exists.
func NewRepository(ctx context.Context, log *slog.Logger, storagePath string) (*Repository, error) {
	// Open (or create if it doesn't exist) the database file.
	dtb, err := sqlx.Open(driverName, fmt.Sprintf("%s?_foreign_keys=on", storagePath))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Check if the connection is actually established.
	if err = dtb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to establish connection to database: %w", err)
	}

	// Perform the initial schema migration.
	if err = initSchema(ctx, dtb); err != nil {
		return nil, fmt.Errorf("DB schema initialization error: %w", err)
	}

	return &Repository{db: dtb, log: log}, nil
}

// NewForTest wraps an already opened connection, e.g. one from sqlmock.
func NewForTest(db *sql.DB) *Repository {
	return &Repository{
		db:  sqlx.NewDb(db, driverName),
		log: slog.New(slog.DiscardHandler),
	}
}

// initSchema creates the necessary tables if they don't already exist.
// Timestamps are stored as unix milliseconds and prices as decimal text.
func initSchema(ctx context.Context, dtb *sqlx.DB) error {
	const migrationQuery = `
	CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY NOT NULL,
		name TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY NOT NULL,
		barcode TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS price_observations (
		id TEXT PRIMARY KEY NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		price TEXT NOT NULL,
		is_on_sale INTEGER NOT NULL DEFAULT 0,
		regular_price TEXT,
		observed_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_price_observations_product_store
		ON price_observations (product_id, store_id, observed_at);

	CREATE TABLE IF NOT EXISTS shopping_lists (
		id TEXT PRIMARY KEY NOT NULL,
		name TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS list_members (
		list_id TEXT NOT NULL REFERENCES shopping_lists(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('owner', 'editor')),
		joined_at INTEGER NOT NULL,
		PRIMARY KEY (list_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS list_items (
		list_id TEXT NOT NULL REFERENCES shopping_lists(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		added_by TEXT NOT NULL,
		added_at INTEGER NOT NULL,
		PRIMARY KEY (list_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS page_state (
		store_id TEXT PRIMARY KEY NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		page_hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS page_items (
		store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		PRIMARY KEY (store_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS subscriptions (
		chat_id INTEGER NOT NULL,
		store_id TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (chat_id, store_id)
	);
	`
	_, err := dtb.ExecContext(ctx, migrationQuery)
	if err != nil {
		return fmt.Errorf("failed to execute migration query: %w", err)
	}

	return nil
}

// Close closes the connection to the database.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.Error("failed to close the database", "op", "repository.sqlite.Close", "error", err)
		return fmt.Errorf("failed to close the database: %w", err)
	}

	return nil
}

// DB is a getter for database handler.
func (r *Repository) DB() *sql.DB {
	return r.db.DB
}

// mapNotFound converts sql.ErrNoRows into repository.ErrNotFound.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}
