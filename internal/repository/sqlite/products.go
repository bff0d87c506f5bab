package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Houeta/pricewatch/internal/idx"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/repository"
	"github.com/shopspring/decimal"
)

// upsertProductQuery keeps an existing product name when the caller only
// knows the barcode (it then passes the barcode as the name).
const upsertProductQuery = `INSERT INTO products (id, barcode, name) VALUES (?, ?, ?)
	ON CONFLICT(barcode) DO UPDATE SET name = CASE
		WHEN excluded.name = excluded.barcode THEN products.name
		ELSE excluded.name
	END
	RETURNING id, name`

const insertObservationQuery = `INSERT INTO price_observations
	(id, product_id, store_id, price, is_on_sale, regular_price, observed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// listPriceRow is one row of the list products / observations join. The
// observation columns are NULL for products that were never priced.
type listPriceRow struct {
	ProductID     string              `db:"product_id"`
	ProductName   string              `db:"product_name"`
	ObservationID sql.NullString      `db:"observation_id"`
	StoreID       sql.NullString      `db:"store_id"`
	Price         decimal.NullDecimal `db:"price"`
	IsOnSale      sql.NullBool        `db:"is_on_sale"`
	RegularPrice  decimal.NullDecimal `db:"regular_price"`
	ObservedAt    sql.NullInt64       `db:"observed_at"`
}

// UpsertProduct creates the product identified by barcode or updates its
// name. Passing the barcode itself as name never overwrites a known name.
func (r *Repository) UpsertProduct(ctx context.Context, barcode, name string) (models.Product, error) {
	const opn = "repository.sqlite.UpsertProduct"

	product := models.Product{Barcode: barcode}
	err := r.db.QueryRowContext(ctx, upsertProductQuery, idx.New(), barcode, name).Scan(&product.ID, &product.Name)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", opn, err)
	}

	return product, nil
}

// GetProductByBarcode returns the product or repository.ErrNotFound.
func (r *Repository) GetProductByBarcode(ctx context.Context, barcode string) (models.Product, error) {
	const opn = "repository.sqlite.GetProductByBarcode"

	var product models.Product
	err := r.db.QueryRowContext(ctx, "SELECT id, barcode, name FROM products WHERE barcode = ?", barcode).
		Scan(&product.ID, &product.Barcode, &product.Name)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", opn, mapNotFound(err))
	}

	return product, nil
}

// InsertObservation stores a price observation. An empty ID is filled in.
func (r *Repository) InsertObservation(ctx context.Context, obs *models.PriceObservation) error {
	const opn = "repository.sqlite.InsertObservation"

	if obs.ID == "" {
		obs.ID = idx.NewAt(obs.ObservedAt)
	}

	_, err := r.db.ExecContext(ctx, insertObservationQuery,
		obs.ID, obs.ProductID, obs.StoreID, obs.Price, obs.IsOnSale, obs.RegularPrice, obs.ObservedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// FetchListProductsWithPrices returns every product on the list, in the
// order they were added, each with its complete observation history.
func (r *Repository) FetchListProductsWithPrices(ctx context.Context, listID string) ([]models.ListProduct, error) {
	const opn = "repository.sqlite.FetchListProductsWithPrices"

	if _, err := r.GetList(ctx, listID); err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	var rows []listPriceRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT p.id AS product_id, p.name AS product_name,
			o.id AS observation_id, o.store_id, o.price, o.is_on_sale, o.regular_price, o.observed_at
		FROM list_items li
		JOIN products p ON p.id = li.product_id
		LEFT JOIN price_observations o ON o.product_id = p.id
		WHERE li.list_id = ?
		ORDER BY li.added_at, p.id, o.observed_at`, listID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to select list prices: %w", opn, err)
	}

	products := make([]models.ListProduct, 0)
	position := make(map[string]int)
	for _, row := range rows {
		pos, ok := position[row.ProductID]
		if !ok {
			products = append(products, models.ListProduct{ProductID: row.ProductID, ProductName: row.ProductName})
			pos = len(products) - 1
			position[row.ProductID] = pos
		}

		// Product has never been priced anywhere.
		if !row.StoreID.Valid {
			continue
		}

		if !row.Price.Valid || !row.ObservedAt.Valid {
			return nil, fmt.Errorf("%s: incomplete observation for product %s: %w",
				opn, row.ProductID, repository.ErrInvalidRow)
		}

		products[pos].Observations = append(products[pos].Observations, models.PriceObservation{
			ID:           row.ObservationID.String,
			ProductID:    row.ProductID,
			StoreID:      row.StoreID.String,
			Price:        row.Price.Decimal,
			IsOnSale:     row.IsOnSale.Bool,
			RegularPrice: row.RegularPrice,
			ObservedAt:   time.UnixMilli(row.ObservedAt.Int64),
		})
	}

	return products, nil
}
