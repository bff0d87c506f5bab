package sqlite_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/repository"
	"github.com/Houeta/pricewatch/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storePriceColumns = []string{"barcode", "name", "price", "is_on_sale", "regular_price"}

func price(barcode, name, amount string) models.StorePrice {
	return models.StorePrice{Barcode: barcode, Name: name, Price: decimal.RequireFromString(amount)}
}

func barcodes(prices []models.StorePrice) []string {
	codes := make([]string, 0, len(prices))
	for _, p := range prices {
		codes = append(codes, p.Barcode)
	}
	return codes
}

// assertPrices compares store prices field by field since decimals must be compared with Equal.
func assertPrices(t *testing.T, expected, actual []models.StorePrice) {
	t.Helper()

	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].Barcode, actual[i].Barcode)
		assert.Equal(t, expected[i].Name, actual[i].Name)
		assert.True(t, expected[i].Price.Equal(actual[i].Price), "price of %s", expected[i].Barcode)
		assert.Equal(t, expected[i].IsOnSale, actual[i].IsOnSale)
		assert.Equal(t, expected[i].RegularPrice.Valid, actual[i].RegularPrice.Valid)
	}
}

// =============================================================================
// Integration Tests (using a real temporary database)
// =============================================================================

// TestRepository_Integration_UpdateAndGetState simulates repeated scans of
// one store page against a real SQLite database.
func TestRepository_Integration_UpdateAndGetState(t *testing.T) {
	base := newTestRepo(t)
	ctx := t.Context()
	first := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, base.UpsertStore(ctx, models.Store{ID: "aldi", Name: "Aldi"}))

	var repo sqlite.StateRepository = base

	// --- Scenario 1: Try to get state before the first scan ---
	t.Run("get_state_from_empty_db", func(t *testing.T) {
		_, err := repo.GetState(ctx, "aldi")
		require.ErrorIs(t, err, repository.ErrStateNotFound)
	})

	// --- Scenario 2: First scan records every product ---
	scan1 := []models.StorePrice{
		price("00036000291452", "Bread", "2.50"),
		price("04006381333931", "Milk", "1.19"),
	}

	t.Run("update_state_first_time", func(t *testing.T) {
		require.NoError(t, repo.UpdateState(ctx, "aldi", "hash1", barcodes(scan1), scan1, first))
	})

	t.Run("get_state_after_first_update", func(t *testing.T) {
		state, err := repo.GetState(ctx, "aldi")
		require.NoError(t, err)
		assert.Equal(t, "hash1", state.PageHash)
		assertPrices(t, scan1, state.Prices)
	})

	// --- Scenario 3: Second scan only records the changed product ---
	sale := price("04006381333931", "Milk", "0.99")
	sale.IsOnSale = true
	sale.RegularPrice = decimal.NewNullDecimal(decimal.RequireFromString("1.19"))

	t.Run("update_state_second_time", func(t *testing.T) {
		require.NoError(t, repo.UpdateState(ctx, "aldi", "hash2", barcodes(scan1), []models.StorePrice{sale}, first.Add(time.Hour)))
	})

	t.Run("get_state_returns_latest_prices", func(t *testing.T) {
		state, err := repo.GetState(ctx, "aldi")
		require.NoError(t, err)
		assert.Equal(t, "hash2", state.PageHash)
		assertPrices(t, []models.StorePrice{scan1[0], sale}, state.Prices)
	})

	// --- Scenario 4: Bread leaves the page and later comes back ---
	t.Run("removed_product_leaves_state", func(t *testing.T) {
		page := []string{sale.Barcode}
		require.NoError(t, repo.UpdateState(ctx, "aldi", "hash3", page, nil, first.Add(2*time.Hour)))

		state, err := repo.GetState(ctx, "aldi")
		require.NoError(t, err)
		assertPrices(t, []models.StorePrice{sale}, state.Prices)
	})

	t.Run("returning_product_is_listed_again", func(t *testing.T) {
		require.NoError(t, repo.UpdateState(ctx, "aldi", "hash4", barcodes(scan1),
			[]models.StorePrice{scan1[0]}, first.Add(3*time.Hour)))

		state, err := repo.GetState(ctx, "aldi")
		require.NoError(t, err)
		assertPrices(t, []models.StorePrice{scan1[0], sale}, state.Prices)
	})

	t.Run("other_store_has_no_state", func(t *testing.T) {
		_, err := repo.GetState(ctx, "lidl")
		require.ErrorIs(t, err, repository.ErrStateNotFound)
	})
}

// =============================================================================
// Unit Tests (using sqlmock for failure scenarios)
// =============================================================================

// TestRepository_GetState_Failures tests how GetState handles database errors.
func TestRepository_GetState_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("error_on_page_hash_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectedErr := errors.New("db connection lost")
		mock.ExpectQuery("SELECT page_hash FROM page_state").WithArgs("aldi").WillReturnError(expectedErr)

		_, err := repo.GetState(ctx, "aldi")

		require.Error(t, err)
		assert.Contains(t, err.Error(), expectedErr.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_prices_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		hashRows := sqlmock.NewRows([]string{"page_hash"}).AddRow("test_hash")
		mock.ExpectQuery("SELECT page_hash FROM page_state").WillReturnRows(hashRows)

		expectedErr := errors.New("table price_observations is locked")
		mock.ExpectQuery("SELECT p.barcode, p.name").WithArgs("aldi").WillReturnError(expectedErr)

		_, err := repo.GetState(ctx, "aldi")

		require.Error(t, err)
		assert.Contains(t, err.Error(), expectedErr.Error())
		assert.Contains(t, err.Error(), "failed to get latest prices")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_scan_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		hashRows := sqlmock.NewRows([]string{"page_hash"}).AddRow("test_hash")
		mock.ExpectQuery("SELECT page_hash FROM page_state").WillReturnRows(hashRows)

		priceRows := sqlmock.NewRows(storePriceColumns).AddRow("0123", "Milk", "not-a-price", int64(0), nil)
		mock.ExpectQuery("SELECT p.barcode, p.name").WillReturnRows(priceRows)

		_, err := repo.GetState(ctx, "aldi")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get latest prices")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		hashRows := sqlmock.NewRows([]string{"page_hash"}).AddRow("test_hash")
		mock.ExpectQuery("SELECT page_hash FROM page_state").WillReturnRows(hashRows)

		priceRows := sqlmock.NewRows(storePriceColumns).
			AddRow("04006381333931", "Milk", "0.99", int64(1), "1.19")
		mock.ExpectQuery("SELECT p.barcode, p.name").WillReturnRows(priceRows)

		state, err := repo.GetState(ctx, "aldi")

		require.NoError(t, err)
		assert.Equal(t, "test_hash", state.PageHash)
		require.Len(t, state.Prices, 1)
		assert.True(t, state.Prices[0].IsOnSale)
		assert.True(t, decimal.RequireFromString("1.19").Equal(state.Prices[0].RegularPrice.Decimal))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestRepository_UpdateState_Failures tests how UpdateState handles transaction errors.
func TestRepository_UpdateState_Failures(t *testing.T) {
	ctx := t.Context()
	at := time.UnixMilli(1_700_000_000_000)
	prices := []models.StorePrice{price("04006381333931", "Milk", "1.19")}
	page := barcodes(prices)

	t.Run("error_on_begin_transaction", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectedErr := errors.New("cannot start transaction")
		mock.ExpectBegin().WillReturnError(expectedErr)

		err := repo.UpdateState(ctx, "aldi", "new_hash", page, prices, at)

		require.Error(t, err)
		assert.Contains(t, err.Error(), expectedErr.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_update_hash", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO page_state").
			WithArgs("aldi", "new_hash").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.UpdateState(ctx, "aldi", "new_hash", page, prices, at)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to update page hash")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_prepare_product", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO page_state").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectPrepare("INSERT INTO products").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.UpdateState(ctx, "aldi", "new_hash", page, prices, at)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to prepare product statement")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_prepare_observation", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO page_state").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectPrepare("INSERT INTO products")
		mock.ExpectPrepare("INSERT INTO price_observations").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.UpdateState(ctx, "aldi", "new_hash", page, prices, at)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to prepare observation statement")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_upsert_product", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO page_state").WillReturnResult(sqlmock.NewResult(1, 1))
		productPrep := mock.ExpectPrepare("INSERT INTO products")
		mock.ExpectPrepare("INSERT INTO price_observations")
		productPrep.ExpectQuery().
			WithArgs(sqlmock.AnyArg(), "04006381333931", "Milk").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.UpdateState(ctx, "aldi", "new_hash", page, prices, at)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to upsert product")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_insert_observation", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO page_state").WillReturnResult(sqlmock.NewResult(1, 1))
		productPrep := mock.ExpectPrepare("INSERT INTO products")
		observationPrep := mock.ExpectPrepare("INSERT INTO price_observations")
		productPrep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p1", "Milk"))
		observationPrep.ExpectExec().
			WithArgs(sqlmock.AnyArg(), "p1", "aldi", "1.19", false, nil, at.UnixMilli()).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.UpdateState(ctx, "aldi", "new_hash", page, prices, at)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to insert observation")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_clear_page_items", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO page_state").WillReturnResult(sqlmock.NewResult(1, 1))
		productPrep := mock.ExpectPrepare("INSERT INTO products")
		observationPrep := mock.ExpectPrepare("INSERT INTO price_observations")
		productPrep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p1", "Milk"))
		observationPrep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM page_items").WithArgs("aldi").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.UpdateState(ctx, "aldi", "new_hash", page, prices, at)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to clear page items")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_list_page_item", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO page_state").WillReturnResult(sqlmock.NewResult(1, 1))
		productPrep := mock.ExpectPrepare("INSERT INTO products")
		observationPrep := mock.ExpectPrepare("INSERT INTO price_observations")
		productPrep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p1", "Milk"))
		observationPrep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM page_items").WithArgs("aldi").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectPrepare("INSERT OR IGNORE INTO page_items").
			ExpectExec().WithArgs("aldi", "04006381333931").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.UpdateState(ctx, "aldi", "new_hash", page, prices, at)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to list 04006381333931 on page")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_commit", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO page_state").WillReturnResult(sqlmock.NewResult(1, 1))
		productPrep := mock.ExpectPrepare("INSERT INTO products")
		observationPrep := mock.ExpectPrepare("INSERT INTO price_observations")
		productPrep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p1", "Milk"))
		observationPrep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM page_items").WithArgs("aldi").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectPrepare("INSERT OR IGNORE INTO page_items").
			ExpectExec().WithArgs("aldi", "04006381333931").WillReturnResult(sqlmock.NewResult(1, 1))
		expectedErr := errors.New("commit failed")
		mock.ExpectCommit().WillReturnError(expectedErr)

		err := repo.UpdateState(ctx, "aldi", "new_hash", page, prices, at)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
