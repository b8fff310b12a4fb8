package basket

import (
	"context"

	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
)

// Repository encapsulates basket persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a basket repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByUserID loads the user's basket container.
func (r *Repository) FindByUserID(ctx context.Context, userID uint) (*models.Basket, error) {
	var basket models.Basket
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&basket).Error; err != nil {
		return nil, err
	}
	return &basket, nil
}

// Create provisions a basket container for the user.
func (r *Repository) Create(ctx context.Context, userID uint) (*models.Basket, error) {
	basket := &models.Basket{UserID: userID}
	if err := r.db.WithContext(ctx).Create(basket).Error; err != nil {
		return nil, err
	}
	return basket, nil
}

// GetItem loads one basket line by its composite key.
func (r *Repository) GetItem(ctx context.Context, basketID, productID, priceID uint) (*models.BasketItem, error) {
	var item models.BasketItem
	err := r.db.WithContext(ctx).
		Where("basket_id = ? AND product_id = ? AND price_id = ?", basketID, productID, priceID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new basket line. The unique constraint on
// (basket, product, price) surfaces concurrent duplicate adds.
func (r *Repository) CreateItem(ctx context.Context, item *models.BasketItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SetItemQuantity overwrites the quantity of one line.
func (r *Repository) SetItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.BasketItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItem removes one line by its composite key.
func (r *Repository) DeleteItem(ctx context.Context, basketID, productID, priceID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("basket_id = ? AND product_id = ? AND price_id = ?", basketID, productID, priceID).
		Delete(&models.BasketItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListItems returns all lines with product and variant joined, ordered by
// product name.
func (r *Repository) ListItems(ctx context.Context, basketID uint) ([]models.BasketItem, error) {
	var items []models.BasketItem
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = basket_items.product_id").
		Where("basket_items.basket_id = ?", basketID).
		Order("products.name ASC").
		Preload("Product").
		Preload("Price").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ClearItems drops every line of the basket. Used when an order is placed.
func (r *Repository) ClearItems(ctx context.Context, basketID uint) error {
	return r.db.WithContext(ctx).
		Where("basket_id = ?", basketID).
		Delete(&models.BasketItem{}).Error
}
