package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a scannable item identified by its normalised GTIN-14 barcode.
type Product struct {
	ID      string `json:"id"`
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
}

// Store is a shop where prices are observed.
type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// StoreRef identifies one side of a price comparison.
type StoreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PriceObservation is one recorded shelf price of a product at a store.
type PriceObservation struct {
	ID           string              `json:"id,omitempty"`
	ProductID    string              `json:"product_id"`
	StoreID      string              `json:"store_id"`
	Price        decimal.Decimal     `json:"price"`
	IsOnSale     bool                `json:"is_on_sale"`
	RegularPrice decimal.NullDecimal `json:"regular_price"`
	ObservedAt   time.Time           `json:"observed_at"`
}

// EffectivePrice returns the sale price when the observation is on sale,
// otherwise the regular price if known, otherwise the observed price.
func (o PriceObservation) EffectivePrice() decimal.Decimal {
	return effectivePrice(o.Price, o.IsOnSale, o.RegularPrice)
}

// ListProduct is a product on a shopping list together with its full
// observation history across all stores.
type ListProduct struct {
	ProductID    string
	ProductName  string
	Observations []PriceObservation
}

// StorePrice is a product price as shown on a store's price page.
type StorePrice struct {
	Barcode      string
	Name         string
	Price        decimal.Decimal
	IsOnSale     bool
	RegularPrice decimal.NullDecimal
}

// EffectivePrice applies the same rule as PriceObservation.EffectivePrice.
func (p StorePrice) EffectivePrice() decimal.Decimal {
	return effectivePrice(p.Price, p.IsOnSale, p.RegularPrice)
}

func effectivePrice(price decimal.Decimal, onSale bool, regular decimal.NullDecimal) decimal.Decimal {
	if onSale {
		return price
	}
	if regular.Valid {
		return regular.Decimal
	}
	return price
}
