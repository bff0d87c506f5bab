// Package catalog manages shopping lists, their items and recorded prices.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Houeta/pricewatch/internal/barcode"
	"github.com/Houeta/pricewatch/internal/idx"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName         = errors.New("catalog: list name is empty")
	ErrEmptyUser         = errors.New("catalog: user id is empty")
	ErrNotMember         = errors.New("catalog: user is not a member of the list")
	ErrUnknownProduct    = errors.New("catalog: unknown product")
	ErrUnknownStore      = errors.New("catalog: unknown store")
	ErrInvalidPrice      = errors.New("catalog: price must be positive")
	ErrListNameTooLong   = errors.New("catalog: list name is too long")
	ErrFutureObservation = errors.New("catalog: observation time is in the future")
)

const (
	maxListNameLen = 100

	// maxClockSkew tolerates reports from devices whose clock runs slightly ahead.
	maxClockSkew = 5 * time.Minute
)

// Repository is the storage the catalog works on.
type Repository interface {
	CreateList(ctx context.Context, list models.ShoppingList) error
	ListsForUser(ctx context.Context, userID string) ([]models.ShoppingList, error)
	IsListMember(ctx context.Context, listID, userID string) (bool, error)
	AddListItem(ctx context.Context, listID, productID, userID string, at time.Time) error
	UpsertProduct(ctx context.Context, barcode, name string) (models.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (models.Product, error)
	GetStore(ctx context.Context, storeID string) (models.Store, error)
	InsertObservation(ctx context.Context, obs *models.PriceObservation) error
}

// PriceInput is a shelf price reported by a user.
type PriceInput struct {
	Barcode      string
	Name         string
	StoreID      string
	Price        decimal.Decimal
	RegularPrice decimal.NullDecimal
	IsOnSale     bool
	ObservedAt   time.Time
}

// Service implements the list and price bookkeeping.
type Service struct {
	log  *slog.Logger
	repo Repository
	now  func() time.Time
}

// NewService creates a new catalog Service.
func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo, now: time.Now}
}

// CreateList creates a list owned by ownerID.
func (s *Service) CreateList(ctx context.Context, ownerID, name string) (models.ShoppingList, error) {
	const opn = "catalog.CreateList"

	name = strings.TrimSpace(name)
	switch {
	case strings.TrimSpace(ownerID) == "":
		return models.ShoppingList{}, ErrEmptyUser
	case name == "":
		return models.ShoppingList{}, ErrEmptyName
	case len([]rune(name)) > maxListNameLen:
		return models.ShoppingList{}, ErrListNameTooLong
	}

	now := s.now()
	list := models.ShoppingList{ID: idx.NewAt(now), Name: name, OwnerID: ownerID, CreatedAt: now}
	if err := s.repo.CreateList(ctx, list); err != nil {
		return models.ShoppingList{}, fmt.Errorf("%s: %w", opn, err)
	}

	s.log.InfoContext(ctx, "List created", "op", opn, "list_id", list.ID, "owner_id", ownerID)

	return list, nil
}

// Lists returns the lists userID belongs to.
func (s *Service) Lists(ctx context.Context, userID string) ([]models.ShoppingList, error) {
	const opn = "catalog.Lists"

	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUser
	}

	lists, err := s.repo.ListsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return lists, nil
}

// AddItem puts the product with the given barcode on a list. The product
// must be known and the user must be a member of the list.
func (s *Service) AddItem(ctx context.Context, userID, listID, rawBarcode string) (models.Product, error) {
	const opn = "catalog.AddItem"

	code, err := barcode.Normalize(rawBarcode)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", opn, err)
	}

	if err = s.requireMember(ctx, listID, userID); err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", opn, err)
	}

	product, err := s.repo.GetProductByBarcode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Product{}, ErrUnknownProduct
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", opn, err)
	}

	if err = s.repo.AddListItem(ctx, listID, product.ID, userID, s.now()); err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", opn, err)
	}

	s.log.DebugContext(ctx, "Item added", "op", opn, "list_id", listID, "barcode", code)

	return product, nil
}

// RecordPrice stores a price observation. Unknown products are created on
// the fly, named after their barcode unless a name is given. A regular price
// above the observed price marks the observation as a sale.
func (s *Service) RecordPrice(ctx context.Context, in PriceInput) (models.PriceObservation, error) {
	const opn = "catalog.RecordPrice"

	code, err := barcode.Normalize(in.Barcode)
	if err != nil {
		return models.PriceObservation{}, fmt.Errorf("%s: %w", opn, err)
	}

	if !in.Price.IsPositive() || (in.RegularPrice.Valid && !in.RegularPrice.Decimal.IsPositive()) {
		return models.PriceObservation{}, ErrInvalidPrice
	}

	now := s.now()
	observedAt := in.ObservedAt
	if observedAt.IsZero() {
		observedAt = now
	}
	if observedAt.After(now.Add(maxClockSkew)) {
		return models.PriceObservation{}, ErrFutureObservation
	}

	if _, err = s.repo.GetStore(ctx, in.StoreID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.PriceObservation{}, ErrUnknownStore
		}
		return models.PriceObservation{}, fmt.Errorf("%s: %w", opn, err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = code
	}

	product, err := s.repo.UpsertProduct(ctx, code, name)
	if err != nil {
		return models.PriceObservation{}, fmt.Errorf("%s: %w", opn, err)
	}

	obs := models.PriceObservation{
		ProductID:    product.ID,
		StoreID:      in.StoreID,
		Price:        in.Price,
		IsOnSale:     in.IsOnSale || (in.RegularPrice.Valid && in.RegularPrice.Decimal.GreaterThan(in.Price)),
		RegularPrice: in.RegularPrice,
		ObservedAt:   observedAt,
	}
	if err = s.repo.InsertObservation(ctx, &obs); err != nil {
		return models.PriceObservation{}, fmt.Errorf("%s: %w", opn, err)
	}

	s.log.InfoContext(ctx, "Price recorded", "op", opn,
		"barcode", code, "store_id", in.StoreID, "price", obs.Price.String())

	return obs, nil
}

func (s *Service) requireMember(ctx context.Context, listID, userID string) error {
	member, err := s.repo.IsListMember(ctx, listID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return ErrNotMember
	}
	return nil
}
