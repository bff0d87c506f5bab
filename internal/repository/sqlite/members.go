package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Houeta/pricewatch/internal/models"
)

// IsListMember reports whether the user already belongs to the list.
func (r *Repository) IsListMember(ctx context.Context, listID, userID string) (bool, error) {
	const opn = "repository.sqlite.IsListMember"

	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM list_members WHERE list_id = ? AND user_id = ?)", listID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", opn, err)
	}

	return exists, nil
}

// InsertListMembership adds the user to the list with the given role. The
// (list_id, user_id) primary key rejects a second row for the same pair.
func (r *Repository) InsertListMembership(ctx context.Context, listID, userID string, role models.Role) error {
	const opn = "repository.sqlite.InsertListMembership"
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO list_members (list_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		listID, userID, string(role), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}
