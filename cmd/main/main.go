package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Houeta/pricewatch/internal/badge"
	"github.com/Houeta/pricewatch/internal/bot"
	"github.com/Houeta/pricewatch/internal/config"
	"github.com/Houeta/pricewatch/internal/httpapi"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/parser"
	"github.com/Houeta/pricewatch/internal/ratelimit"
	"github.com/Houeta/pricewatch/internal/repository/sqlite"
	"github.com/Houeta/pricewatch/internal/services/catalog"
	"github.com/Houeta/pricewatch/internal/services/checker"
	"github.com/Houeta/pricewatch/internal/services/comparison"
	"github.com/Houeta/pricewatch/internal/services/sharing"
	"github.com/Houeta/pricewatch/internal/sharecode"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	repo, err := sqlite.NewRepository(ctx, logger, cfg.StoragePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer repo.Close()

	// The badge counter is shared by the checker, the bot and the API.
	drops := badge.New()
	unsubscribe := drops.Subscribe(func(count int) {
		logger.Debug("Unseen price drops changed", "count", count)
	})
	defer unsubscribe()

	codec := sharecode.NewCodec(cfg.ShareTTL)
	joinLimiter := ratelimit.New(cfg.JoinRate, time.Minute)

	catalogSvc := catalog.NewService(logger, repo)
	sharingSvc := sharing.NewService(logger, codec, repo)
	comparisonEngine := comparison.NewEngine(logger, repo, repo)

	priceBot, err := bot.NewBot(logger, cfg.Tg.Token, cfg.Tg.Timeout, bot.Deps{
		Lists:         catalogSvc,
		Sharing:       sharingSvc,
		Comparison:    comparisonEngine,
		Stores:        repo,
		Subscriptions: repo,
		Badge:         drops,
		JoinLimiter:   joinLimiter,
	})
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewServer(logger, httpapi.Deps{
			Lists:       catalogSvc,
			Sharing:     sharingSvc,
			Comparison:  comparisonEngine,
			Stores:      repo,
			Badge:       drops,
			JoinLimiter: joinLimiter,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	var wg sync.WaitGroup

	// Start the bot in a goroutine to allow main to listen for signals.
	go priceBot.Start()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.InfoContext(ctx, "HTTP API listening", "addr", cfg.HTTPAddr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", serveErr)
			stop()
		}
	}()

	if cfg.Store.URL != "" {
		store := models.Store{ID: cfg.Store.ID, Name: cfg.Store.Name, URL: cfg.Store.URL}
		if err = repo.UpsertStore(ctx, store); err != nil {
			log.Fatalf("Failed to register watched store: %v", err)
		}

		priceChecker := checker.NewChecker(logger, store, parser.NewParser(logger, store.URL), repo, drops)

		wg.Add(1)
		go func() {
			defer wg.Done()
			priceChecker.Run(ctx, cfg.CheckInterval, func(ctx context.Context, changes *models.Changes) {
				if notifyErr := priceBot.NotifyPriceDrops(ctx, store, changes.Drops()); notifyErr != nil {
					logger.Warn("Failed to notify about price drops", "error", notifyErr)
				}
			})
		}()
	} else {
		logger.InfoContext(ctx, "No store URL configured, price checker disabled")
	}

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.Info("Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", "error", err)
	}

	// Stop the bot gracefully.
	priceBot.Stop()

	wg.Wait()

	// Log graceful shutdown completion.
	logger.Info("Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
