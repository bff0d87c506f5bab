package bot

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Houeta/pricewatch/internal/barcode"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/repository"
	"github.com/Houeta/pricewatch/internal/repository/sqlite"
	"github.com/Houeta/pricewatch/internal/services/catalog"
	"github.com/Houeta/pricewatch/internal/services/comparison"
	"github.com/Houeta/pricewatch/internal/services/sharing"
	"github.com/Houeta/pricewatch/internal/sharecode"
	"github.com/shopspring/decimal"
	"gopkg.in/telebot.v4"
)

const (
	msgHelp = "Hello! I track shelf prices.\n\n" +
		"/newlist <name> - create a shopping list\n" +
		"/lists - show your lists\n" +
		"/add <list> <barcode> - put a product on a list\n" +
		"/price <barcode> <store> <price> [regular] - record a price\n" +
		"/compare <list> <storeA> <storeB> - compare a list at two stores\n" +
		"/share <list> - get a QR code to share a list\n" +
		"/join <code> - join a shared list\n" +
		"/subscribe [store] - get price drop alerts\n" +
		"/unsubscribe - stop alerts\n" +
		"/alerts - show unseen price drops"

	msgInternalError  = "Something went wrong, please try again later."
	msgRateLimited    = "Too many attempts. Try again in %d s."
	msgInvalidBarcode = "That barcode does not look valid."
	msgNotMember      = "You are not a member of that list."
	msgUnknownStore   = "Unknown store %q."

	msgNewListUsage   = "Usage: /newlist <name>"
	msgAddUsage       = "Usage: /add <list> <barcode>"
	msgPriceUsage     = "Usage: /price <barcode> <store> <price> [regular price]"
	msgCompareUsage   = "Usage: /compare <list> <storeA> <storeB>"
	msgShareUsage     = "Usage: /share <list>"
	msgJoinUsage      = "Usage: /join <code>"
	msgUnknownProduct = "I don't know that product yet. Record a price for it first with /price."
	msgInvalidPrice   = "Prices must be positive numbers, e.g. 1.99"
	msgListTooLong    = "That name is too long."

	msgCodeExpired = "This share code has expired. Ask for a new one."
	msgCodeInvalid = "This share code is not valid."
	msgJoinFailed  = "Could not join the list, please try again."
	msgJoined      = "You joined the list. Use /lists to see it."

	msgNoLists       = "You have no lists yet. Create one with /newlist."
	msgSubscribed    = "You will be notified about price drops."
	msgUnsubscribed  = "Price drop alerts are off."
	msgNoAlerts      = "No new price drops."
	msgAlertsPending = "%d new price drop(s) since you last checked."
)

// startHandler process command /start.
func (b *Bot) startHandler(ctx telebot.Context) error {
	b.log.Info("User started the bot", "username", ctx.Sender().Username)

	if err := ctx.Send(msgHelp); err != nil {
		return fmt.Errorf("failed to send greeting message: %w", err)
	}

	return nil
}

func (b *Bot) newListHandler(ctx telebot.Context) error {
	const opn = "bot.newListHandler"

	name := strings.TrimSpace(strings.Join(ctx.Args(), " "))
	if name == "" {
		return reply(ctx, msgNewListUsage)
	}

	reqCtx, cancel := requestContext()
	defer cancel()

	list, err := b.lists.CreateList(reqCtx, userID(ctx), name)
	switch {
	case errors.Is(err, catalog.ErrListNameTooLong):
		return reply(ctx, msgListTooLong)
	case err != nil:
		return b.internalError(ctx, opn, err)
	}

	return reply(ctx, fmt.Sprintf("List %q created. Id: %s", list.Name, list.ID))
}

func (b *Bot) listsHandler(ctx telebot.Context) error {
	const opn = "bot.listsHandler"

	reqCtx, cancel := requestContext()
	defer cancel()

	lists, err := b.lists.Lists(reqCtx, userID(ctx))
	if err != nil {
		return b.internalError(ctx, opn, err)
	}
	if len(lists) == 0 {
		return reply(ctx, msgNoLists)
	}

	var sb strings.Builder
	sb.WriteString("Your lists:\n")
	for _, l := range lists {
		fmt.Fprintf(&sb, "• %s (%s)\n", l.Name, l.ID)
	}

	return reply(ctx, strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) addItemHandler(ctx telebot.Context) error {
	const opn = "bot.addItemHandler"

	args := ctx.Args()
	if len(args) != 2 {
		return reply(ctx, msgAddUsage)
	}

	reqCtx, cancel := requestContext()
	defer cancel()

	product, err := b.lists.AddItem(reqCtx, userID(ctx), args[0], args[1])
	switch {
	case isBarcodeError(err):
		return reply(ctx, msgInvalidBarcode)
	case errors.Is(err, catalog.ErrNotMember):
		return reply(ctx, msgNotMember)
	case errors.Is(err, catalog.ErrUnknownProduct):
		return reply(ctx, msgUnknownProduct)
	case err != nil:
		return b.internalError(ctx, opn, err)
	}

	return reply(ctx, fmt.Sprintf("Added %s to the list.", product.Name))
}

func (b *Bot) priceHandler(ctx telebot.Context) error {
	const opn = "bot.priceHandler"

	args := ctx.Args()
	if len(args) != 3 && len(args) != 4 {
		return reply(ctx, msgPriceUsage)
	}

	price, err := decimal.NewFromString(strings.ReplaceAll(args[2], ",", "."))
	if err != nil {
		return reply(ctx, msgInvalidPrice)
	}

	input := catalog.PriceInput{Barcode: args[0], StoreID: args[1], Price: price}
	if len(args) == 4 {
		regular, regErr := decimal.NewFromString(strings.ReplaceAll(args[3], ",", "."))
		if regErr != nil {
			return reply(ctx, msgInvalidPrice)
		}
		input.RegularPrice = decimal.NewNullDecimal(regular)
	}

	reqCtx, cancel := requestContext()
	defer cancel()

	obs, err := b.lists.RecordPrice(reqCtx, input)
	switch {
	case isBarcodeError(err):
		return reply(ctx, msgInvalidBarcode)
	case errors.Is(err, catalog.ErrInvalidPrice):
		return reply(ctx, msgInvalidPrice)
	case errors.Is(err, catalog.ErrUnknownStore):
		return reply(ctx, fmt.Sprintf(msgUnknownStore, input.StoreID))
	case err != nil:
		return b.internalError(ctx, opn, err)
	}

	msg := fmt.Sprintf("Recorded %s at %s.", money(obs.Price), input.StoreID)
	if obs.IsOnSale {
		msg += " On sale!"
	}

	return reply(ctx, msg)
}

func (b *Bot) compareHandler(ctx telebot.Context) error {
	const opn = "bot.compareHandler"

	args := ctx.Args()
	if len(args) != 3 {
		return reply(ctx, msgCompareUsage)
	}

	reqCtx, cancel := requestContext()
	defer cancel()

	refs := make([]models.StoreRef, 0, 2)
	for _, storeID := range args[1:] {
		store, err := b.stores.GetStore(reqCtx, storeID)
		if errors.Is(err, repository.ErrNotFound) {
			return reply(ctx, fmt.Sprintf(msgUnknownStore, storeID))
		}
		if err != nil {
			return b.internalError(ctx, opn, err)
		}
		refs = append(refs, models.StoreRef{ID: store.ID, Name: store.Name})
	}

	result, err := b.comparison.CompareForMember(reqCtx, userID(ctx), args[0], refs[0], refs[1])
	if errors.Is(err, comparison.ErrNotMember) {
		return reply(ctx, msgNotMember)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return reply(ctx, "No such list.")
	}
	if err != nil {
		return b.internalError(ctx, opn, err)
	}

	return reply(ctx, formatComparison(result))
}

func (b *Bot) shareHandler(ctx telebot.Context) error {
	const opn = "bot.shareHandler"

	args := ctx.Args()
	if len(args) != 1 {
		return reply(ctx, msgShareUsage)
	}

	reqCtx, cancel := requestContext()
	defer cancel()

	code, err := b.sharing.Share(reqCtx, args[0], userID(ctx))
	if errors.Is(err, sharing.ErrNotMember) {
		return reply(ctx, msgNotMember)
	}
	if err != nil {
		return b.internalError(ctx, opn, err)
	}

	caption := "Scan this code or send: /join " + code

	png, err := sharecode.QRCode(code, sharecode.DefaultQRSize)
	if err != nil {
		b.log.Warn("Failed to render QR code, sending text only", "op", opn, "error", err)
		return reply(ctx, caption)
	}

	photo := &telebot.Photo{File: telebot.FromReader(bytes.NewReader(png)), Caption: caption}
	if err = ctx.Send(photo); err != nil {
		return fmt.Errorf("%s: failed to send QR code: %w", opn, err)
	}

	return nil
}

func (b *Bot) joinHandler(ctx telebot.Context) error {
	const opn = "bot.joinHandler"

	args := ctx.Args()
	if len(args) != 1 {
		return reply(ctx, msgJoinUsage)
	}

	reqCtx, cancel := requestContext()
	defer cancel()

	_, err := b.sharing.Redeem(reqCtx, userID(ctx), args[0])
	switch {
	case errors.Is(err, sharecode.ErrExpiredCode):
		return reply(ctx, msgCodeExpired)
	case errors.Is(err, sharecode.ErrMalformedCode):
		return reply(ctx, msgCodeInvalid)
	case errors.Is(err, sharing.ErrJoinFailed):
		return reply(ctx, msgJoinFailed)
	case err != nil:
		return b.internalError(ctx, opn, err)
	}

	return reply(ctx, msgJoined)
}

func (b *Bot) subscribeHandler(ctx telebot.Context) error {
	const opn = "bot.subscribeHandler"

	reqCtx, cancel := requestContext()
	defer cancel()

	storeID := sqlite.AllStores
	if args := ctx.Args(); len(args) > 0 {
		storeID = args[0]
		if _, err := b.stores.GetStore(reqCtx, storeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reply(ctx, fmt.Sprintf(msgUnknownStore, storeID))
			}
			return b.internalError(ctx, opn, err)
		}
	}

	if err := b.subs.SubscribeChat(reqCtx, ctx.Chat().ID, storeID); err != nil {
		return b.internalError(ctx, opn, err)
	}

	return reply(ctx, msgSubscribed)
}

func (b *Bot) unsubscribeHandler(ctx telebot.Context) error {
	const opn = "bot.unsubscribeHandler"

	reqCtx, cancel := requestContext()
	defer cancel()

	if err := b.subs.UnsubscribeChat(reqCtx, ctx.Chat().ID); err != nil {
		return b.internalError(ctx, opn, err)
	}

	return reply(ctx, msgUnsubscribed)
}

func (b *Bot) alertsHandler(ctx telebot.Context) error {
	count := b.badge.MarkSeen(userID(ctx))
	if count == 0 {
		return reply(ctx, msgNoAlerts)
	}

	return reply(ctx, fmt.Sprintf(msgAlertsPending, count))
}

func (b *Bot) internalError(ctx telebot.Context, opn string, err error) error {
	b.log.Error("Command failed", "op", opn, "error", err)
	if sendErr := ctx.Send(msgInternalError); sendErr != nil {
		return fmt.Errorf("%s: failed to send error message: %w", opn, sendErr)
	}
	return nil
}

func reply(ctx telebot.Context, msg string) error {
	if err := ctx.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func userID(ctx telebot.Context) string {
	return strconv.FormatInt(ctx.Sender().ID, 10)
}

func isBarcodeError(err error) bool {
	return errors.Is(err, barcode.ErrEmpty) ||
		errors.Is(err, barcode.ErrInvalidFormat) ||
		errors.Is(err, barcode.ErrCheckDigit)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatComparison(c *models.Comparison) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s vs %s\n", c.StoreA.Name, c.StoreB.Name)

	for _, row := range c.Rows {
		fmt.Fprintf(&sb, "• %s: %s / %s", row.ProductName, optMoney(row.PriceAtStoreA), optMoney(row.PriceAtStoreB))
		if row.PriceDifference != nil {
			fmt.Fprintf(&sb, " (%s)", row.PriceDifference.StringFixed(2))
		}
		sb.WriteString("\n")
	}

	agg := c.Aggregate
	fmt.Fprintf(&sb, "\nCompared %d of %d products.", agg.ComparedCount, agg.TotalCount)
	if agg.TotalAtStoreA != nil && agg.TotalAtStoreB != nil {
		fmt.Fprintf(&sb, "\nTotal: %s / %s", money(*agg.TotalAtStoreA), money(*agg.TotalAtStoreB))
	}
	if agg.SavingsPercent != nil {
		switch pct := agg.SavingsPercent.Round(1); {
		case pct.IsPositive():
			fmt.Fprintf(&sb, "\n%s is %s%% cheaper.", c.StoreB.Name, pct.String())
		case pct.IsNegative():
			fmt.Fprintf(&sb, "\n%s is %s%% cheaper.", c.StoreA.Name, pct.Neg().String())
		default:
			sb.WriteString("\nBoth stores cost the same.")
		}
	}

	return sb.String()
}

func optMoney(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return money(*d)
}
