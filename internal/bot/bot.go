package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Houeta/pricewatch/internal/badge"
	"github.com/Houeta/pricewatch/internal/ratelimit"
	"gopkg.in/telebot.v4"
)

// handlerTimeout bounds the storage work done for a single update.
const handlerTimeout = 10 * time.Second

// Deps are the services the bot commands are wired to.
type Deps struct {
	Lists         ListService
	Sharing       ShareService
	Comparison    Comparer
	Stores        StoreLookup
	Subscriptions SubscriptionRepository
	Badge         *badge.Emitter
	JoinLimiter   *ratelimit.Keyed
}

// Bot contains the bot API instance and other information.
type Bot struct {
	bot API
	log *slog.Logger

	lists       ListService
	sharing     ShareService
	comparison  Comparer
	stores      StoreLookup
	subs        SubscriptionRepository
	badge       *badge.Emitter
	joinLimiter *ratelimit.Keyed
}

func NewBot(log *slog.Logger, token string, poller time.Duration, deps Deps) (*Bot, error) {
	tgBot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", tgBot.Me.Username)

	botInstance := newBot(tgBot, log, deps)
	botInstance.registerRoutes()

	return botInstance, nil
}

func newBot(api API, log *slog.Logger, deps Deps) *Bot {
	return &Bot{
		bot:         api,
		log:         log,
		lists:       deps.Lists,
		sharing:     deps.Sharing,
		comparison:  deps.Comparison,
		stores:      deps.Stores,
		subs:        deps.Subscriptions,
		badge:       deps.Badge,
		joinLimiter: deps.JoinLimiter,
	}
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	// Public routes.
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/help", b.startHandler)

	// Lists and prices.
	b.bot.Handle("/newlist", b.newListHandler)
	b.bot.Handle("/lists", b.listsHandler)
	b.bot.Handle("/add", b.addItemHandler)
	b.bot.Handle("/price", b.priceHandler)
	b.bot.Handle("/compare", b.compareHandler)

	// Sharing.
	b.bot.Handle("/share", b.shareHandler)
	b.bot.Handle("/join", b.joinHandler, b.rateLimit(b.joinLimiter))

	// Alerts.
	b.bot.Handle("/subscribe", b.subscribeHandler)
	b.bot.Handle("/unsubscribe", b.unsubscribeHandler)
	b.bot.Handle("/alerts", b.alertsHandler)
}

// rateLimit rejects updates from senders that exceed the limiter.
func (b *Bot) rateLimit(limiter *ratelimit.Keyed) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(ctx telebot.Context) error {
			if limiter == nil || ctx.Sender() == nil {
				return next(ctx)
			}

			ok, wait := limiter.Allow(userID(ctx))
			if ok {
				return next(ctx)
			}

			b.log.Warn("Rate limit exceeded", "user_id", ctx.Sender().ID, "retry_after", wait)
			if err := ctx.Send(fmt.Sprintf(msgRateLimited, int(wait.Seconds()))); err != nil {
				return fmt.Errorf("failed to send rate limit message: %w", err)
			}
			return nil
		}
	}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}
