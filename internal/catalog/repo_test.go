package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
	"github.com/sushka2023/sushka-shop-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ProductCategory{},
		&models.ProductSubcategory{},
		&models.Product{},
		&models.Price{},
		&models.Image{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, status enums.ProductStatus, deleted bool, prices ...models.Price) *models.Product {
	t.Helper()
	category := models.ProductCategory{Name: "Пастила " + name}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:       name,
		CategoryID: category.ID,
		Status:     status,
		IsDeleted:  deleted,
		Prices:     prices,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func price(amount string, active, deleted bool, weight string) models.Price {
	return models.Price{
		Weight:    weight,
		Price:     decimal.RequireFromString(amount),
		Quantity:  10,
		IsActive:  active,
		IsDeleted: deleted,
	}
}

func TestListStorefrontVisibility(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	visible := seedProduct(t, db, "Яблучна", enums.ProductStatusActivated, false, price("120.00", true, false, "100g"))
	seedProduct(t, db, "Неактивована", enums.ProductStatusNew, false, price("90.00", true, false, "100g"))
	seedProduct(t, db, "Видалена", enums.ProductStatusActivated, true, price("90.00", true, false, "100g"))
	seedProduct(t, db, "Без цін", enums.ProductStatusActivated, false)
	seedProduct(t, db, "Архівна ціна", enums.ProductStatusActivated, false, price("90.00", false, true, "100g"))

	page, total, err := repo.ListStorefront(ctx, ListParams{
		Sort: SortID,
		Page: pagination.Params{Limit: 10}.Normalize(),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, visible.ID, page[0].ID)
	require.Len(t, page[0].Prices, 1)
}

func TestListStorefrontWeightFilterAffectsVisibility(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Тільки 100г", enums.ProductStatusActivated, false, price("120.00", true, false, "100g"))
	both := seedProduct(t, db, "Обидві ваги", enums.ProductStatusActivated, false,
		price("120.00", true, false, "100g"),
		price("240.00", true, false, "250g"),
	)

	page, total, err := repo.ListStorefront(ctx, ListParams{
		Weights: []string{"250g"},
		Sort:    SortID,
		Page:    pagination.Params{Limit: 10}.Normalize(),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, both.ID, page[0].ID)
}

func TestListStorefrontPriceSort(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	// The spread product's cheapest variant undercuts everything while its
	// dearest variant tops everything, so low_price and high_price must both
	// put it first and the two sorts cannot share one aggregate.
	spread := seedProduct(t, db, "Розкид", enums.ProductStatusActivated, false,
		price("10.00", true, false, "100g"),
		price("300.00", true, false, "500g"),
	)
	middle := seedProduct(t, db, "Середня", enums.ProductStatusActivated, false, price("50.00", true, false, "100g"))
	seedProduct(t, db, "Архівний максимум", enums.ProductStatusActivated, false,
		price("20.00", true, false, "100g"),
		price("999.00", false, true, "500g"),
	)

	page, _, err := repo.ListStorefront(ctx, ListParams{
		Sort: SortLowPrice,
		Page: pagination.Params{Limit: 10}.Normalize(),
	})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, spread.ID, page[0].ID)
	assert.Equal(t, middle.ID, page[2].ID)

	page, _, err = repo.ListStorefront(ctx, ListParams{
		Sort: SortHighPrice,
		Page: pagination.Params{Limit: 10}.Normalize(),
	})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, spread.ID, page[0].ID, "highest active variant price wins")
	assert.Equal(t, middle.ID, page[1].ID, "archived variants must not count")
}

func TestListCRMIgnoresVisibility(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Нова", enums.ProductStatusNew, false)
	seedProduct(t, db, "Архів", enums.ProductStatusArchived, false)

	_, total, err := repo.ListCRM(ctx, CRMListParams{
		Sort: SortID,
		Page: pagination.Params{Limit: 10}.Normalize(),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	status := enums.ProductStatusArchived
	rows, total, err := repo.ListCRM(ctx, CRMListParams{
		Status: &status,
		Sort:   SortID,
		Page:   pagination.Params{Limit: 10}.Normalize(),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Архів", rows[0].Name)
}

func TestGetPriceResolvesArchivedRows(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Знята з продажу", enums.ProductStatusArchived, false, price("75.50", false, true, "100g"))
	priceID := product.Prices[0].ID

	row, err := repo.GetPrice(ctx, product.ID, priceID)
	require.NoError(t, err)
	assert.True(t, row.Price.Equal(decimal.RequireFromString("75.50")))
	assert.False(t, row.Purchasable())

	_, err = repo.GetPrice(ctx, product.ID+99, priceID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetPriceArchivedFlipsFlags(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Товар", enums.ProductStatusActivated, false, price("100.00", true, false, "100g"))
	priceID := product.Prices[0].ID

	require.NoError(t, repo.SetPriceArchived(ctx, priceID, true))
	row, err := repo.FindPriceByID(ctx, priceID)
	require.NoError(t, err)
	assert.True(t, row.IsDeleted)
	assert.False(t, row.IsActive)

	require.NoError(t, repo.SetPriceArchived(ctx, priceID, false))
	row, err = repo.FindPriceByID(ctx, priceID)
	require.NoError(t, err)
	assert.True(t, row.Purchasable())

	assert.ErrorIs(t, repo.SetPriceArchived(ctx, priceID+99, true), gorm.ErrRecordNotFound)
}
