package favorites

import (
	"context"

	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByUserID loads the user's favorites container.
func (r *Repository) FindByUserID(ctx context.Context, userID uint) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&favorite).Error; err != nil {
		return nil, err
	}
	return &favorite, nil
}

// Create provisions a favorites container for the user.
func (r *Repository) Create(ctx context.Context, userID uint) (*models.Favorite, error) {
	favorite := &models.Favorite{UserID: userID}
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		return nil, err
	}
	return favorite, nil
}

// AddItem inserts a favorites entry. Duplicates surface the unique violation.
func (r *Repository) AddItem(ctx context.Context, favoriteID, productID uint) error {
	return r.db.WithContext(ctx).Create(&models.FavoriteItem{
		FavoriteID: favoriteID,
		ProductID:  productID,
	}).Error
}

// RemoveItem deletes the favorites entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, favoriteID, productID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("favorite_id = ? AND product_id = ?", favoriteID, productID).
		Delete(&models.FavoriteItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListItems returns favorite entries with their products joined.
func (r *Repository) ListItems(ctx context.Context, favoriteID uint) ([]models.FavoriteItem, error) {
	var items []models.FavoriteItem
	err := r.db.WithContext(ctx).
		Where("favorite_id = ?", favoriteID).
		Order("id ASC").
		Preload("Product").
		Preload("Product.Prices", "is_active AND NOT is_deleted").
		Preload("Product.Images", "NOT is_deleted").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
