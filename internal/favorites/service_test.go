package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/internal/catalog"
	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
)

type stubProductFinder struct {
	db *gorm.DB
}

func (s stubProductFinder) GetProduct(ctx context.Context, id uint) (*catalog.ProductDTO, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &catalog.ProductDTO{ID: product.ID, Name: product.Name}, nil
}

func setupFavoritesTest(t *testing.T) (*gorm.DB, Service, uint) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Favorite{},
		&models.FavoriteItem{},
		&models.ProductCategory{},
		&models.Product{},
		&models.Price{},
		&models.Image{},
	))

	user := models.User{Email: "buyer@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	favorite := models.Favorite{UserID: user.ID}
	require.NoError(t, db.Create(&favorite).Error)

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(db),
		Products: stubProductFinder{db: db},
	})
	require.NoError(t, err)
	return db, svc, user.ID
}

func seedFavProduct(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	category := models.ProductCategory{Name: "cat-" + name}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{Name: name, CategoryID: category.ID}
	require.NoError(t, db.Create(&product).Error)
	return product.ID
}

func TestAddItemSecondAddConflicts(t *testing.T) {
	db, svc, userID := setupFavoritesTest(t)
	productID := seedFavProduct(t, db, "Пастила")
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, userID, productID))

	err := svc.AddItem(ctx, userID, productID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestAddItemUnknownProduct(t *testing.T) {
	_, svc, userID := setupFavoritesTest(t)
	err := svc.AddItem(context.Background(), userID, 404)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRemoveAndList(t *testing.T) {
	db, svc, userID := setupFavoritesTest(t)
	first := seedFavProduct(t, db, "Яблуко")
	second := seedFavProduct(t, db, "Груша")
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, userID, first))
	require.NoError(t, svc.AddItem(ctx, userID, second))

	items, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Яблуко", items[0].Product.Name)

	require.NoError(t, svc.RemoveItem(ctx, userID, first))
	err = svc.RemoveItem(ctx, userID, first)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	items, err = svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
