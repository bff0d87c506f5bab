package sqlite

import (
	"context"
	"fmt"
)

// AllStores subscribes a chat to price drops at every store.
const AllStores = ""

// SubscribeChat subscribes the chat to price-drop alerts of one store, or of
// all stores when storeID is AllStores.
func (r *Repository) SubscribeChat(ctx context.Context, chatID int64, storeID string) error {
	const opn = "repository.sqlite.SubscribeChat"
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO subscriptions (chat_id, store_id) VALUES (?, ?)", chatID, storeID)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// UnsubscribeChat drops every alert subscription of the chat.
func (r *Repository) UnsubscribeChat(ctx context.Context, chatID int64) error {
	const opn = "repository.sqlite.UnsubscribeChat"
	_, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE chat_id = ?", chatID)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// GetSubscribedChats returns the chats that want alerts for storeID, either
// directly or through an all-stores subscription.
func (r *Repository) GetSubscribedChats(ctx context.Context, storeID string) ([]int64, error) {
	const opn = "repository.sqlite.GetSubscribedChats"

	var chatIDs []int64
	err := r.db.SelectContext(ctx, &chatIDs,
		"SELECT DISTINCT chat_id FROM subscriptions WHERE store_id = ? OR store_id = '' ORDER BY chat_id", storeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return chatIDs, nil
}
