package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts an order row together with any attached line items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with line items and their product/price rows.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderedProducts").
		Preload("OrderedProducts.Product").
		Preload("OrderedProducts.Price").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's created orders newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND is_created = ?", userID, true)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_created = ?", userID, true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Preload("OrderedProducts").
		Preload("OrderedProducts.Product").
		Preload("OrderedProducts.Price").
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListCRM returns created orders for operators, optionally filtered by status.
func (r *Repository) ListCRM(ctx context.Context, params ListParams) ([]models.Order, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("is_created = ?", true)
		if params.Status != nil {
			q = q.Where("status = ?", *params.Status)
		}
		return q
	}

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&models.Order{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := scope(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Page.Limit).
		Offset(params.Page.Offset).
		Preload("OrderedProducts").
		Preload("OrderedProducts.Product").
		Preload("OrderedProducts.Price").
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Save persists in-place changes to an order row.
func (r *Repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// UpdateFields applies a partial column update to one order.
func (r *Repository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetDraftItem loads one draft line by its (order, product, price) key.
func (r *Repository) GetDraftItem(ctx context.Context, orderID, productID, priceID uint) (*models.OrderedProduct, error) {
	var item models.OrderedProduct
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ? AND price_id = ?", orderID, productID, priceID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateDraftItem inserts a draft line.
func (r *Repository) CreateDraftItem(ctx context.Context, item *models.OrderedProduct) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SetDraftItemQuantity overwrites a draft line quantity.
func (r *Repository) SetDraftItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderedProduct{}).
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

// DeleteDraftItem removes one draft line by its composite key.
func (r *Repository) DeleteDraftItem(ctx context.Context, orderID, productID, priceID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ? AND price_id = ?", orderID, productID, priceID).
		Delete(&models.OrderedProduct{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListItems returns the lines of one order with product and price joined.
func (r *Repository) ListItems(ctx context.Context, orderID uint) ([]models.OrderedProduct, error) {
	var items []models.OrderedProduct
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Preload("Product").
		Preload("Price").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
