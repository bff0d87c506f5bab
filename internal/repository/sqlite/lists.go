package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Houeta/pricewatch/internal/models"
)

// CreateList atomically inserts a shopping list and its owner's membership.
func (r *Repository) CreateList(ctx context.Context, list models.ShoppingList) error {
	const opn = "repository.sqlite.CreateList"

	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit only returns sql.ErrTxDone.

	createdAt := list.CreatedAt.UnixMilli()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO shopping_lists (id, name, owner_id, created_at) VALUES (?, ?, ?, ?)",
		list.ID, list.Name, list.OwnerID, createdAt,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to insert list: %w", opn, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO list_members (list_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		list.ID, list.OwnerID, string(models.RoleOwner), createdAt,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to insert owner membership: %w", opn, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}

// GetList returns the list or repository.ErrNotFound.
func (r *Repository) GetList(ctx context.Context, listID string) (models.ShoppingList, error) {
	const opn = "repository.sqlite.GetList"

	var (
		list      models.ShoppingList
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, owner_id, created_at FROM shopping_lists WHERE id = ?", listID,
	).Scan(&list.ID, &list.Name, &list.OwnerID, &createdAt)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("%s: %w", opn, mapNotFound(err))
	}
	list.CreatedAt = time.UnixMilli(createdAt)

	return list, nil
}

// ListsForUser returns every list the user is a member of, newest first.
func (r *Repository) ListsForUser(ctx context.Context, userID string) ([]models.ShoppingList, error) {
	const opn = "repository.sqlite.ListsForUser"

	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.owner_id, l.created_at
		FROM shopping_lists l
		JOIN list_members m ON m.list_id = l.id
		WHERE m.user_id = ?
		ORDER BY l.created_at DESC, l.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var lists []models.ShoppingList
	for rows.Next() {
		var (
			list      models.ShoppingList
			createdAt int64
		)
		if err = rows.Scan(&list.ID, &list.Name, &list.OwnerID, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan list: %w", opn, err)
		}
		list.CreatedAt = time.UnixMilli(createdAt)
		lists = append(lists, list)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return lists, nil
}

// AddListItem puts a product on a list. Adding it twice is a no-op.
func (r *Repository) AddListItem(ctx context.Context, listID, productID, userID string, at time.Time) error {
	const opn = "repository.sqlite.AddListItem"
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO list_items (list_id, product_id, added_by, added_at) VALUES (?, ?, ?, ?)",
		listID, productID, userID, at.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}
