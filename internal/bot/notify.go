package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Houeta/pricewatch/internal/models"
	"gopkg.in/telebot.v4"
)

// NotifyPriceDrops sends the price drops found at store to every chat
// subscribed to it. Delivery errors do not stop the broadcast.
func (b *Bot) NotifyPriceDrops(ctx context.Context, store models.Store, drops []models.ChangeInfo) error {
	const opn = "bot.NotifyPriceDrops"

	if len(drops) == 0 {
		return nil
	}

	chats, err := b.subs.GetSubscribedChats(ctx, store.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	msg := formatDrops(store, drops)

	var errs []error
	for _, chatID := range chats {
		if _, sendErr := b.bot.Send(&telebot.Chat{ID: chatID}, msg); sendErr != nil {
			b.log.WarnContext(ctx, "Failed to deliver price drop alert", "op", opn, "chat_id", chatID, "error", sendErr)
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, sendErr))
		}
	}

	b.log.InfoContext(ctx, "Price drop alerts sent", "op", opn, "store_id", store.ID,
		"drops", len(drops), "chats", len(chats), "failed", len(errs))

	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", opn, errors.Join(errs...))
	}
	return nil
}

func formatDrops(store models.Store, drops []models.ChangeInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Price drops at %s:\n", store.Name)
	for _, d := range drops {
		fmt.Fprintf(&sb, "• %s: %s → %s\n", d.New.Name,
			money(d.Old.EffectivePrice()), money(d.New.EffectivePrice()))
	}
	return strings.TrimRight(sb.String(), "\n")
}
