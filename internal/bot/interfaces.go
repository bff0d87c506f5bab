package bot

import (
	"context"

	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/services/catalog"
	"gopkg.in/telebot.v4"
)

type API interface {
	// Handle lets you set the handler for some command name or one of the supported endpoints. It also applies middleware if such passed to the function.
	Handle(endpoint interface{}, h telebot.HandlerFunc, m ...telebot.MiddlewareFunc)
	// Start brings bot into motion by consuming incoming updates (see Bot.Updates channel).
	Start()
	// Stop gracefully shuts the poller down.
	Stop()

	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// ListService manages lists, items and prices.
type ListService interface {
	CreateList(ctx context.Context, ownerID, name string) (models.ShoppingList, error)
	Lists(ctx context.Context, userID string) ([]models.ShoppingList, error)
	AddItem(ctx context.Context, userID, listID, rawBarcode string) (models.Product, error)
	RecordPrice(ctx context.Context, in catalog.PriceInput) (models.PriceObservation, error)
}

// ShareService issues and redeems share codes.
type ShareService interface {
	Share(ctx context.Context, listID, userID string) (string, error)
	Redeem(ctx context.Context, userID, code string) (*models.ShareInvitation, error)
}

type Comparer interface {
	CompareForMember(ctx context.Context, userID, listID string, storeA, storeB models.StoreRef) (*models.Comparison, error)
}

type StoreLookup interface {
	GetStore(ctx context.Context, storeID string) (models.Store, error)
}

// SubscriptionRepository stores which chats receive price-drop alerts.
type SubscriptionRepository interface {
	SubscribeChat(ctx context.Context, chatID int64, storeID string) error
	UnsubscribeChat(ctx context.Context, chatID int64) error
	GetSubscribedChats(ctx context.Context, storeID string) ([]int64, error)
}
