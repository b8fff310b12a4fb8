package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
)

const activePriceExistsClause = "EXISTS (SELECT 1 FROM prices pr WHERE pr.product_id = products.id AND pr.is_active AND NOT pr.is_deleted)"

const activePriceWeightExistsClause = "EXISTS (SELECT 1 FROM prices pr WHERE pr.product_id = products.id AND pr.is_active AND NOT pr.is_deleted AND pr.weight IN ?)"

const priceAggJoin = `LEFT JOIN (
  SELECT product_id, MIN(price) AS min_price, MAX(price) AS max_price
  FROM prices
  WHERE is_active AND NOT is_deleted
  GROUP BY product_id
) pagg ON pagg.product_id = products.id`

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) storefrontScope(params ListParams) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Where("products.status = ?", enums.ProductStatusActivated).
			Where("products.is_deleted = ?", false)
		if len(params.Weights) > 0 {
			q = q.Where(activePriceWeightExistsClause, params.Weights)
		} else {
			q = q.Where(activePriceExistsClause)
		}
		if params.CategoryID != nil {
			q = q.Where("products.category_id = ?", *params.CategoryID)
		}
		if len(params.SubcategoryIDs) > 0 {
			q = q.Where(`products.id IN (
  SELECT psa.product_id FROM product_subcategory_association psa
  WHERE psa.product_subcategory_id IN ?
)`, params.SubcategoryIDs)
		}
		if params.Search != "" {
			q = q.Where("LOWER(products.name) LIKE LOWER(?)", "%"+params.Search+"%")
		}
		return q
	}
}

// ListStorefront returns the visible products ordered by the requested key.
func (r *Repository) ListStorefront(ctx context.Context, params ListParams) ([]models.Product, int64, error) {
	scope := r.storefrontScope(params)

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&models.Product{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := scope(r.db.WithContext(ctx).Model(&models.Product{})).
		Select("products.*").
		Joins(priceAggJoin).
		Order(params.Sort.orderClause()).
		Limit(params.Page.Limit).
		Offset(params.Page.Offset).
		Preload("Prices", "is_active AND NOT is_deleted").
		Preload("Images", "NOT is_deleted")

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListCRM returns products without the storefront visibility filter.
func (r *Repository) ListCRM(ctx context.Context, params CRMListParams) ([]models.Product, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if params.Status != nil {
			q = q.Where("products.status = ?", *params.Status)
		}
		if params.CategoryID != nil {
			q = q.Where("products.category_id = ?", *params.CategoryID)
		}
		return q
	}

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&models.Product{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := scope(r.db.WithContext(ctx).Model(&models.Product{})).
		Select("products.*").
		Joins(priceAggJoin).
		Order(params.Sort.orderClause()).
		Limit(params.Page.Limit).
		Offset(params.Page.Offset).
		Preload("Prices").
		Preload("Images")

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindProductByID loads a single product with all variants and images.
func (r *Repository) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Prices").
		Preload("Images").
		Preload("Subcategories").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a listing in the new state.
func (r *Repository) CreateProduct(ctx context.Context, dto CreateProductDTO) (*models.Product, error) {
	product := &models.Product{
		Name:        dto.Name,
		Description: dto.Description,
		CategoryID:  dto.CategoryID,
		Status:      enums.ProductStatusNew,
		IsNew:       dto.IsNew,
		IsPopular:   dto.IsPopular,
	}
	if len(dto.SubcategoryIDs) > 0 {
		subs := make([]models.ProductSubcategory, 0, len(dto.SubcategoryIDs))
		for _, id := range dto.SubcategoryIDs {
			subs = append(subs, models.ProductSubcategory{ID: id})
		}
		product.Subcategories = subs
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SetProductStatus moves a listing between lifecycle states. Rows are never
// deleted; archival only flips the status.
func (r *Repository) SetProductStatus(ctx context.Context, id uint, status enums.ProductStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPrice resolves a variant by (product, price) id pair with no flag
// filtering, so archived rows still resolve for order snapshots.
func (r *Repository) GetPrice(ctx context.Context, productID, priceID uint) (*models.Price, error) {
	var price models.Price
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", priceID, productID).
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// FindPriceByID resolves a variant by id alone.
func (r *Repository) FindPriceByID(ctx context.Context, priceID uint) (*models.Price, error) {
	var price models.Price
	if err := r.db.WithContext(ctx).First(&price, "id = ?", priceID).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

// ListPricesByProduct returns every variant of a product, archived included.
func (r *Repository) ListPricesByProduct(ctx context.Context, productID uint) ([]models.Price, error) {
	var rows []models.Price
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreatePrice inserts a new weight variant.
func (r *Repository) CreatePrice(ctx context.Context, dto CreatePriceDTO) (*models.Price, error) {
	price := &models.Price{
		ProductID:   dto.ProductID,
		Weight:      dto.Weight,
		Price:       dto.Price,
		OldPrice:    dto.OldPrice,
		Quantity:    dto.Quantity,
		IsActive:    true,
		Promotional: dto.Promotional,
	}
	if err := r.db.WithContext(ctx).Create(price).Error; err != nil {
		return nil, err
	}
	return price, nil
}

// SetPriceArchived flips the variant flags; the row itself stays so order
// snapshots keep resolving.
func (r *Repository) SetPriceArchived(ctx context.Context, priceID uint, archived bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Price{}).
		Where("id = ?", priceID).
		Updates(map[string]any{
			"is_deleted": archived,
			"is_active":  !archived,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCategories returns categories with their subcategories.
func (r *Repository) ListCategories(ctx context.Context, includeDeleted bool) ([]models.ProductCategory, error) {
	query := r.db.WithContext(ctx).Preload("Subcategories")
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false).
			Preload("Subcategories", "NOT is_deleted")
	}
	var rows []models.ProductCategory
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateCategory inserts a top-level catalog grouping.
func (r *Repository) CreateCategory(ctx context.Context, name string) (*models.ProductCategory, error) {
	category := &models.ProductCategory{Name: name}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// SetCategoryArchived flips the category soft-delete flag.
func (r *Repository) SetCategoryArchived(ctx context.Context, id uint, archived bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductCategory{}).
		Where("id = ?", id).
		UpdateColumn("is_deleted", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateSubcategory inserts a subcategory under an existing category.
func (r *Repository) CreateSubcategory(ctx context.Context, categoryID uint, name string) (*models.ProductSubcategory, error) {
	sub := &models.ProductSubcategory{CategoryID: categoryID, Name: name}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// SetSubcategoryArchived flips the subcategory soft-delete flag.
func (r *Repository) SetSubcategoryArchived(ctx context.Context, id uint, archived bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductSubcategory{}).
		Where("id = ?", id).
		UpdateColumn("is_deleted", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
