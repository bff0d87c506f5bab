package models

import "github.com/shopspring/decimal"

// ComparisonRow holds the latest effective price of one list product at two stores.
type ComparisonRow struct {
	ProductID       string           `json:"product_id"`
	ProductName     string           `json:"product_name"`
	PriceAtStoreA   *decimal.Decimal `json:"price_at_store_a"`
	PriceAtStoreB   *decimal.Decimal `json:"price_at_store_b"`
	PriceDifference *decimal.Decimal `json:"price_difference"`
}

// AggregateComparison sums the rows that have prices at both stores.
// A positive SavingsPercent means store B is cheaper.
type AggregateComparison struct {
	TotalAtStoreA  *decimal.Decimal `json:"total_at_store_a"`
	TotalAtStoreB  *decimal.Decimal `json:"total_at_store_b"`
	ComparedCount  int              `json:"compared_count"`
	TotalCount     int              `json:"total_count"`
	SavingsPercent *decimal.Decimal `json:"savings_percent"`
}

// Comparison is the result of comparing a shopping list across two stores.
type Comparison struct {
	ListID    string              `json:"list_id"`
	StoreA    StoreRef            `json:"store_a"`
	StoreB    StoreRef            `json:"store_b"`
	Rows      []ComparisonRow     `json:"rows"`
	Aggregate AggregateComparison `json:"aggregate"`
}
