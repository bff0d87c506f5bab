package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Houeta/pricewatch/internal/idx"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/repository"
	"github.com/shopspring/decimal"
)

// StateRepository is what the price checker needs from storage.
type StateRepository interface {
	GetState(ctx context.Context, storeID string) (*models.State, error)
	UpdateState(
		ctx context.Context,
		storeID, pageHash string,
		page []string,
		observed []models.StorePrice,
		observedAt time.Time,
	) error
	Close() error
}

// storePriceRow is the latest observation of one product at a store.
type storePriceRow struct {
	Barcode      string              `db:"barcode"`
	Name         string              `db:"name"`
	Price        decimal.Decimal     `db:"price"`
	IsOnSale     bool                `db:"is_on_sale"`
	RegularPrice decimal.NullDecimal `db:"regular_price"`
}

// GetState returns the last scanned page hash of the store together with
// the latest known price of every product listed on that page.
func (r *Repository) GetState(ctx context.Context, storeID string) (*models.State, error) {
	const opn = "repository.sqlite.GetState"

	// 1. Get hash of page
	var pageHash string
	err := r.db.QueryRowContext(ctx, "SELECT page_hash FROM page_state WHERE store_id = ?", storeID).Scan(&pageHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStateNotFound
		}
		return nil, fmt.Errorf("%s: failed to get page hash: %w", opn, err)
	}

	// 2. Latest observation of every product on the page
	var rows []storePriceRow
	err = r.db.SelectContext(ctx, &rows, `
		SELECT p.barcode, p.name, o.price, o.is_on_sale, o.regular_price
		FROM page_items i
		JOIN products p ON p.id = i.product_id
		JOIN price_observations o ON o.product_id = i.product_id AND o.store_id = i.store_id
		WHERE i.store_id = ? AND o.observed_at = (
			SELECT MAX(o2.observed_at) FROM price_observations o2
			WHERE o2.product_id = o.product_id AND o2.store_id = o.store_id
		)
		ORDER BY p.barcode`, storeID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get latest prices: %w", opn, err)
	}

	prices := make([]models.StorePrice, 0, len(rows))
	for _, row := range rows {
		prices = append(prices, models.StorePrice(row))
	}

	return &models.State{PageHash: pageHash, Prices: prices}, nil
}

// UpdateState atomically stores the new page hash of a store, records an
// observation for every observed price (creating unknown products on the
// way) and replaces the set of products listed on the page with the given
// barcodes.
func (r *Repository) UpdateState(
	ctx context.Context,
	storeID, pageHash string,
	page []string,
	observed []models.StorePrice,
	observedAt time.Time,
) error {
	const opn = "repository.sqlite.UpdateState"

	// 1. begin transaction
	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit only returns sql.ErrTxDone.

	// 2. Update (or insert) hash of page.
	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO page_state (store_id, page_hash) VALUES (?, ?)", storeID, pageHash)
	if err != nil {
		return fmt.Errorf("%s: failed to update page hash: %w", opn, err)
	}

	// 3. Prepare product upsert and observation insert.
	productStmt, err := tx.PrepareContext(ctx, upsertProductQuery)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare product statement: %w", opn, err)
	}
	defer productStmt.Close()

	observationStmt, err := tx.PrepareContext(ctx, insertObservationQuery)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare observation statement: %w", opn, err)
	}
	defer observationStmt.Close()

	// 4. Record every price.
	at := observedAt.UnixMilli()
	for _, p := range observed {
		var productID, name string
		if err = productStmt.QueryRowContext(ctx, idx.New(), p.Barcode, p.Name).Scan(&productID, &name); err != nil {
			return fmt.Errorf("%s: failed to upsert product %s: %w", opn, p.Barcode, err)
		}

		_, err = observationStmt.ExecContext(ctx,
			idx.NewAt(observedAt), productID, storeID, p.Price, p.IsOnSale, p.RegularPrice, at)
		if err != nil {
			return fmt.Errorf("%s: failed to insert observation for %s: %w", opn, p.Barcode, err)
		}
	}

	// 5. Replace the page listing.
	if _, err = tx.ExecContext(ctx, "DELETE FROM page_items WHERE store_id = ?", storeID); err != nil {
		return fmt.Errorf("%s: failed to clear page items: %w", opn, err)
	}

	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO page_items (store_id, product_id)
		SELECT ?, id FROM products WHERE barcode = ?`)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare page item statement: %w", opn, err)
	}
	defer itemStmt.Close()

	for _, code := range page {
		if _, err = itemStmt.ExecContext(ctx, storeID, code); err != nil {
			return fmt.Errorf("%s: failed to list %s on page: %w", opn, code, err)
		}
	}

	// 6. If all operations went through without errors - confirm the transaction.
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}
