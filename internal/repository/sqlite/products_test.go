package sqlite_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listPriceColumns = []string{
	"product_id", "product_name", "observation_id", "store_id", "price", "is_on_sale", "regular_price", "observed_at",
}

func expectListLookup(mock sqlmock.Sqlmock, listID string) {
	mock.ExpectQuery("SELECT id, name, owner_id, created_at FROM shopping_lists").
		WithArgs(listID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_id", "created_at"}).
			AddRow(listID, "Weekly", "alice", int64(1)))
}

func TestRepository_FetchListProductsWithPrices(t *testing.T) {
	ctx := t.Context()

	t.Run("groups observations by product", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectListLookup(mock, "list-1")
		rows := sqlmock.NewRows(listPriceColumns).
			AddRow("p1", "Milk", "o1", "aldi", "1.19", int64(0), nil, int64(1000)).
			AddRow("p1", "Milk", "o2", "lidl", "0.99", int64(1), "1.29", int64(2000)).
			AddRow("p2", "Eggs", nil, nil, nil, nil, nil, nil)
		mock.ExpectQuery("SELECT p.id AS product_id").WithArgs("list-1").WillReturnRows(rows)

		products, err := repo.FetchListProductsWithPrices(ctx, "list-1")

		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Milk", products[0].ProductName)
		require.Len(t, products[0].Observations, 2)
		sale := products[0].Observations[1]
		assert.Equal(t, "o2", sale.ID)
		assert.Equal(t, "lidl", sale.StoreID)
		assert.True(t, decimal.RequireFromString("0.99").Equal(sale.Price))
		require.True(t, sale.RegularPrice.Valid)
		assert.True(t, decimal.RequireFromString("1.29").Equal(sale.RegularPrice.Decimal))
		assert.True(t, time.UnixMilli(2000).Equal(sale.ObservedAt))
		assert.True(t, products[0].Observations[1].IsOnSale)
		assert.False(t, products[0].Observations[0].RegularPrice.Valid)
		assert.Equal(t, "Eggs", products[1].ProductName)
		assert.Empty(t, products[1].Observations)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty list", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectListLookup(mock, "list-1")
		mock.ExpectQuery("SELECT p.id AS product_id").WillReturnRows(sqlmock.NewRows(listPriceColumns))

		products, err := repo.FetchListProductsWithPrices(ctx, "list-1")

		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: list not found", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT id, name, owner_id, created_at FROM shopping_lists").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_id", "created_at"}))

		_, err := repo.FetchListProductsWithPrices(ctx, "missing")

		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: select", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectListLookup(mock, "list-1")
		mock.ExpectQuery("SELECT p.id AS product_id").WillReturnError(assert.AnError)

		_, err := repo.FetchListProductsWithPrices(ctx, "list-1")

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to select list prices")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: observation without price", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectListLookup(mock, "list-1")
		rows := sqlmock.NewRows(listPriceColumns).
			AddRow("p1", "Milk", "o1", "aldi", nil, int64(0), nil, int64(1000))
		mock.ExpectQuery("SELECT p.id AS product_id").WillReturnRows(rows)

		_, err := repo.FetchListProductsWithPrices(ctx, "list-1")

		require.ErrorIs(t, err, repository.ErrInvalidRow)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpsertProduct(t *testing.T) {
	ctx := t.Context()

	t.Run("success", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("INSERT INTO products").
			WithArgs(sqlmock.AnyArg(), "04006381333931", "Milk").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p1", "Milk"))

		product, err := repo.UpsertProduct(ctx, "04006381333931", "Milk")

		require.NoError(t, err)
		assert.Equal(t, models.Product{ID: "p1", Barcode: "04006381333931", Name: "Milk"}, product)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("INSERT INTO products").WillReturnError(assert.AnError)

		_, err := repo.UpsertProduct(ctx, "04006381333931", "Milk")

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "repository.sqlite.UpsertProduct")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_InsertObservation(t *testing.T) {
	ctx := t.Context()
	at := time.UnixMilli(1_700_000_000_000)

	t.Run("fills in id", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("INSERT INTO price_observations").
			WithArgs(sqlmock.AnyArg(), "p1", "aldi", "1.19", false, nil, at.UnixMilli()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		obs := &models.PriceObservation{
			ProductID:  "p1",
			StoreID:    "aldi",
			Price:      decimal.RequireFromString("1.19"),
			ObservedAt: at,
		}
		err := repo.InsertObservation(ctx, obs)

		require.NoError(t, err)
		assert.NotEmpty(t, obs.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("INSERT INTO price_observations").WillReturnError(assert.AnError)

		err := repo.InsertObservation(ctx, &models.PriceObservation{ID: "o1", ObservedAt: at})

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "repository.sqlite.InsertObservation")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Membership_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("is member: query error", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT EXISTS").WithArgs("list-1", "bob").WillReturnError(assert.AnError)

		ok, err := repo.IsListMember(ctx, "list-1", "bob")

		require.ErrorIs(t, err, assert.AnError)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("is member: true", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("list-1", "bob").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(int64(1)))

		ok, err := repo.IsListMember(ctx, "list-1", "bob")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert membership: error", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("INSERT INTO list_members").
			WithArgs("list-1", "bob", "editor", sqlmock.AnyArg()).
			WillReturnError(assert.AnError)

		err := repo.InsertListMembership(ctx, "list-1", "bob", models.RoleEditor)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "repository.sqlite.InsertListMembership")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Stores_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("upsert error", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("INSERT INTO stores").
			WithArgs("aldi", "Aldi", "").
			WillReturnError(assert.AnError)

		err := repo.UpsertStore(ctx, models.Store{ID: "aldi", Name: "Aldi"})

		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get error", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT id, name, url FROM stores").WillReturnError(assert.AnError)

		_, err := repo.GetStore(ctx, "aldi")

		require.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
