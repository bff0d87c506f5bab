// Package comparison prices a shopping list at two stores side by side.
package comparison

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Houeta/pricewatch/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRequest is returned when the list or a store is not identified.
	ErrInvalidRequest = errors.New("comparison: list id and both store ids are required")
	// ErrNotMember is returned when the caller does not belong to the compared list.
	ErrNotMember = errors.New("comparison: user is not a member of the list")
)

var hundred = decimal.NewFromInt(100)

// PriceFetcher loads the products of a list with their observations.
type PriceFetcher interface {
	FetchListProductsWithPrices(ctx context.Context, listID string) ([]models.ListProduct, error)
}

// MembershipChecker reports whether a user belongs to a list.
type MembershipChecker interface {
	IsListMember(ctx context.Context, listID, userID string) (bool, error)
}

// Engine computes store comparisons.
type Engine struct {
	log     *slog.Logger
	fetcher PriceFetcher
	members MembershipChecker
}

// NewEngine creates a new comparison Engine.
func NewEngine(log *slog.Logger, fetcher PriceFetcher, members MembershipChecker) *Engine {
	return &Engine{log: log, fetcher: fetcher, members: members}
}

// CompareForMember is Compare restricted to members of the list.
func (e *Engine) CompareForMember(
	ctx context.Context,
	userID, listID string,
	storeA, storeB models.StoreRef,
) (*models.Comparison, error) {
	const opn = "comparison.CompareForMember"

	if strings.TrimSpace(userID) == "" || strings.TrimSpace(listID) == "" ||
		strings.TrimSpace(storeA.ID) == "" || strings.TrimSpace(storeB.ID) == "" {
		return nil, ErrInvalidRequest
	}

	member, err := e.members.IsListMember(ctx, listID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check membership: %w", opn, err)
	}
	if !member {
		return nil, ErrNotMember
	}

	return e.Compare(ctx, listID, storeA, storeB)
}

// Compare returns one row per list product, in fetch order, holding the
// latest effective price at storeA and storeB, plus totals over the
// products priced at both stores.
func (e *Engine) Compare(ctx context.Context, listID string, storeA, storeB models.StoreRef) (*models.Comparison, error) {
	const opn = "comparison.Compare"

	if strings.TrimSpace(listID) == "" || strings.TrimSpace(storeA.ID) == "" || strings.TrimSpace(storeB.ID) == "" {
		return nil, ErrInvalidRequest
	}

	products, err := e.fetcher.FetchListProductsWithPrices(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to fetch list prices: %w", opn, err)
	}

	rows := make([]models.ComparisonRow, 0, len(products))
	for _, product := range products {
		rows = append(rows, buildRow(product, storeA.ID, storeB.ID))
	}

	result := &models.Comparison{
		ListID:    listID,
		StoreA:    storeA,
		StoreB:    storeB,
		Rows:      rows,
		Aggregate: aggregate(rows),
	}

	e.log.DebugContext(ctx, "List compared", "op", opn, "list_id", listID,
		"store_a", storeA.ID, "store_b", storeB.ID,
		"compared", result.Aggregate.ComparedCount, "total", result.Aggregate.TotalCount)

	return result, nil
}

func buildRow(product models.ListProduct, storeA, storeB string) models.ComparisonRow {
	row := models.ComparisonRow{ProductID: product.ProductID, ProductName: product.ProductName}

	latestA := latestAt(product.Observations, storeA)
	latestB := latestAt(product.Observations, storeB)

	if latestA != nil {
		price := latestA.EffectivePrice()
		row.PriceAtStoreA = &price
	}
	if latestB != nil {
		price := latestB.EffectivePrice()
		row.PriceAtStoreB = &price
	}
	if row.PriceAtStoreA != nil && row.PriceAtStoreB != nil {
		diff := row.PriceAtStoreA.Sub(*row.PriceAtStoreB)
		row.PriceDifference = &diff
	}

	return row
}

// latestAt returns the most recent observation at storeID, or nil. On equal
// timestamps the first one seen wins.
func latestAt(observations []models.PriceObservation, storeID string) *models.PriceObservation {
	var latest *models.PriceObservation
	for i := range observations {
		obs := &observations[i]
		if obs.StoreID != storeID {
			continue
		}
		if latest == nil || obs.ObservedAt.After(latest.ObservedAt) {
			latest = obs
		}
	}
	return latest
}

func aggregate(rows []models.ComparisonRow) models.AggregateComparison {
	agg := models.AggregateComparison{TotalCount: len(rows)}

	totalA, totalB := decimal.Zero, decimal.Zero
	for _, row := range rows {
		if row.PriceAtStoreA == nil || row.PriceAtStoreB == nil {
			continue
		}
		totalA = totalA.Add(*row.PriceAtStoreA)
		totalB = totalB.Add(*row.PriceAtStoreB)
		agg.ComparedCount++
	}

	if agg.ComparedCount == 0 {
		return agg
	}

	agg.TotalAtStoreA = &totalA
	agg.TotalAtStoreB = &totalB

	// Percent is undefined against a zero total.
	if !totalA.IsZero() {
		savings := totalA.Sub(totalB).Div(totalA).Mul(hundred)
		agg.SavingsPercent = &savings
	}

	return agg
}
