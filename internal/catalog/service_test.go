package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
)

func TestParseSortKey(t *testing.T) {
	for _, valid := range []string{"id", "name", "low_price", "high_price", "low_date", "high_date"} {
		key, err := ParseSortKey(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, SortKey(valid), key)
	}

	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortID, key)

	_, err = ParseSortKey("price_asc")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetPurchasablePriceRejectsArchivedVariant(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	product := seedProduct(t, db, "Сушка", enums.ProductStatusActivated, false,
		price("80.00", true, false, "100g"),
		price("150.00", false, true, "250g"),
	)
	active, archived := product.Prices[0], product.Prices[1]

	row, err := svc.GetPurchasablePrice(ctx, product.ID, active.ID)
	require.NoError(t, err)
	assert.True(t, row.Purchasable())

	_, err = svc.GetPurchasablePrice(ctx, product.ID, archived.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInvalidPrice, typed.Code())

	// the plain lookup still resolves the archived row for snapshots
	_, err = svc.GetPrice(ctx, product.ID, archived.ID)
	require.NoError(t, err)

	_, err = svc.GetPrice(ctx, product.ID, archived.ID+99)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestTotalPriceRoundsToTwoDecimals(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	product := seedProduct(t, db, "Мікс", enums.ProductStatusActivated, false,
		price("33.335", true, false, "100g"),
		price("120.00", true, false, "250g"),
	)

	total, err := svc.TotalPrice(ctx, []TotalPriceItem{
		{PriceID: product.Prices[0].ID, Quantity: 2},
		{PriceID: product.Prices[1].ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "186.67", total.StringFixed(2))

	_, err = svc.TotalPrice(ctx, []TotalPriceItem{{PriceID: product.Prices[0].ID, Quantity: 0}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestArchiveProductFlipsStatusOnly(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	product := seedProduct(t, db, "Груша", enums.ProductStatusActivated, false, price("60.00", true, false, "100g"))

	require.NoError(t, svc.ArchiveProduct(ctx, product.ID))
	got, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ProductStatusArchived, got.Status)
	assert.False(t, got.IsDeleted)

	require.NoError(t, svc.UnarchiveProduct(ctx, product.ID))
	got, err = svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ProductStatusActivated, got.Status)

	err = svc.ArchiveProduct(ctx, product.ID+99)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestTotalPriceDecimalExactness(t *testing.T) {
	// 0.1 + 0.2 style drift must not appear in money math
	a := decimal.RequireFromString("0.10")
	b := decimal.RequireFromString("0.20")
	assert.Equal(t, "0.30", a.Add(b).StringFixed(2))
}
