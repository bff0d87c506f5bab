package sqlite

import (
	"context"
	"fmt"

	"github.com/Houeta/pricewatch/internal/models"
)

// UpsertStore inserts the store or refreshes its name and URL.
func (r *Repository) UpsertStore(ctx context.Context, store models.Store) error {
	const opn = "repository.sqlite.UpsertStore"
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stores (id, name, url) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, url = excluded.url`,
		store.ID, store.Name, store.URL,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// GetStore returns the store with the given id or repository.ErrNotFound.
func (r *Repository) GetStore(ctx context.Context, storeID string) (models.Store, error) {
	const opn = "repository.sqlite.GetStore"

	var store models.Store
	err := r.db.QueryRowContext(ctx, "SELECT id, name, url FROM stores WHERE id = ?", storeID).
		Scan(&store.ID, &store.Name, &store.URL)
	if err != nil {
		return models.Store{}, fmt.Errorf("%s: %w", opn, mapNotFound(err))
	}

	return store, nil
}
