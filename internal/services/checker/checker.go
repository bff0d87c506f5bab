package checker

import (
	"bytes"
	"cmp"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/parser"
	"github.com/Houeta/pricewatch/internal/repository"
	"github.com/Houeta/pricewatch/internal/repository/sqlite"
)

// Counter receives the number of price drops found by a check.
type Counter interface {
	Add(n int)
}

// Checker is an orchestrator that performs a full verification cycle for
// one store's price page.
type Checker struct {
	log    *slog.Logger
	store  models.Store
	parser parser.HTMLParser
	repo   sqlite.StateRepository
	drops  Counter
	now    func() time.Time
}

type Interface interface {
	// CheckForUpdates performs the full change checking algorithm.
	CheckForUpdates(ctx context.Context) (*models.Changes, error)
}

// NewChecker creates a new Checker instance.
func NewChecker(
	log *slog.Logger,
	store models.Store,
	parser parser.HTMLParser,
	repo sqlite.StateRepository,
	drops Counter,
) *Checker {
	return &Checker{log: log, store: store, parser: parser, repo: repo, drops: drops, now: time.Now}
}

// Store returns the store watched by the checker.
func (c *Checker) Store() models.Store {
	return c.store
}

// CheckForUpdates performs the full change checking algorithm.
func (c *Checker) CheckForUpdates(ctx context.Context) (*models.Changes, error) {
	const opn = "checker.CheckForUpdates"
	log := c.log.With("op", opn, "store_id", c.store.ID)

	// 1. Retrieving HTML and calculating a new hash
	log.InfoContext(ctx, "Fetching price page to check for updates")
	resp, err := c.parser.GetHTMLResponse(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get html response: %w", opn, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response body: %w", opn, err)
	}

	newPageHash := calculateHash(body)
	log.DebugContext(ctx, "Calculated new page hash", "hash", newPageHash)

	// 2. Getting the old state from the database
	oldState, err := c.repo.GetState(ctx, c.store.ID)
	if err != nil && !errors.Is(err, repository.ErrStateNotFound) {
		return nil, fmt.Errorf("%s: failed to get old state: %w", opn, err)
	}

	// 3. Hash comparison
	if err == nil && oldState.PageHash == newPageHash {
		log.InfoContext(ctx, "Page hash has not changed. No updates.")
		return &models.Changes{}, nil
	}
	log.InfoContext(ctx, "Page hash differs or first run. Starting full analysis...")

	// 4. Full page parsing
	newPrices, err := c.parser.ParseTableResponse(ctx, io.NopCloser(bytes.NewReader(body)))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse prices from new response: %w", opn, err)
	}
	log.InfoContext(ctx, "Successfully parsed prices", "count", len(newPrices))

	// 5. Price list comparison
	var oldPrices []models.StorePrice
	if oldState != nil {
		oldPrices = oldState.Prices
	}
	changes := detectChanges(oldPrices, newPrices)
	drops := changes.Drops()
	log.InfoContext(ctx, "Change detection complete",
		"added", len(changes.Added), "removed", len(changes.Removed),
		"changed", len(changes.Changed), "drops", len(drops))

	// 6. Updating the database and returning the result
	observed := make([]models.StorePrice, 0, len(changes.Added)+len(changes.Changed))
	observed = append(observed, changes.Added...)
	for _, ch := range changes.Changed {
		observed = append(observed, ch.New)
	}

	page := make([]string, 0, len(newPrices))
	for _, p := range newPrices {
		page = append(page, p.Barcode)
	}
	slices.Sort(page)

	if err = c.repo.UpdateState(ctx, c.store.ID, newPageHash, page, observed, c.now()); err != nil {
		return nil, fmt.Errorf("%s: failed to update state in repository: %w", opn, err)
	}
	log.InfoContext(ctx, "Successfully updated state in repository")

	if len(drops) > 0 && c.drops != nil {
		c.drops.Add(len(drops))
	}

	return &changes, nil
}

// Run checks the page once right away and then on every tick of interval
// until ctx is done. onChange is only called for non-empty changes.
func (c *Checker) Run(ctx context.Context, interval time.Duration, onChange func(context.Context, *models.Changes)) {
	const opn = "checker.Run"
	log := c.log.With("op", opn, "store_id", c.store.ID)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		changes, err := c.CheckForUpdates(ctx)
		switch {
		case err != nil:
			log.ErrorContext(ctx, "Price check failed", "error", err)
		case !changes.IsEmpty() && onChange != nil:
			onChange(ctx, changes)
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	log.InfoContext(ctx, "Price checker stopped")
}

// calculateHash calculates the SHA256 hash for a slice of bytes.
func calculateHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// detectChanges compares two price lists by barcode. The result is sorted
// by barcode.
func detectChanges(oldPrices, newPrices []models.StorePrice) models.Changes {
	oldMap := make(map[string]models.StorePrice, len(oldPrices))
	for _, p := range oldPrices {
		oldMap[p.Barcode] = p
	}

	newMap := make(map[string]models.StorePrice, len(newPrices))
	for _, p := range newPrices {
		newMap[p.Barcode] = p
	}

	var changes models.Changes
	for code, newPrice := range newMap {
		oldPrice, found := oldMap[code]
		if found {
			if priceChanged(oldPrice, newPrice) {
				changes.Changed = append(changes.Changed, models.ChangeInfo{Old: oldPrice, New: newPrice})
			}
			delete(oldMap, code)
		} else {
			changes.Added = append(changes.Added, newPrice)
		}
	}

	for _, removed := range oldMap {
		changes.Removed = append(changes.Removed, removed)
	}

	byBarcode := func(a, b models.StorePrice) int { return cmp.Compare(a.Barcode, b.Barcode) }
	slices.SortFunc(changes.Added, byBarcode)
	slices.SortFunc(changes.Removed, byBarcode)
	slices.SortFunc(changes.Changed, func(a, b models.ChangeInfo) int { return byBarcode(a.New, b.New) })

	return changes
}

func priceChanged(oldPrice, newPrice models.StorePrice) bool {
	if !oldPrice.Price.Equal(newPrice.Price) || oldPrice.IsOnSale != newPrice.IsOnSale {
		return true
	}
	if oldPrice.RegularPrice.Valid != newPrice.RegularPrice.Valid {
		return true
	}
	return oldPrice.RegularPrice.Valid && !oldPrice.RegularPrice.Decimal.Equal(newPrice.RegularPrice.Decimal)
}
