package warehouses

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
)

// Repository encapsulates the parcel-service directory tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a warehouses repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Upsert inserts the branch or refreshes its descriptive columns when the
// (city_branch, address_branch) pair already exists. Rows are never deleted
// by the synchronizer, only here through DeleteAll.
func (r *Repository) Upsert(ctx context.Context, branch *models.NovaPoshtaBranch) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "city_branch"}, {Name: "address_branch"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"category_branch", "area_branch", "region_branch", "updated_at",
			}),
		}).
		Create(branch).Error
}

// Create inserts one manually supplied branch.
func (r *Repository) Create(ctx context.Context, branch *models.NovaPoshtaBranch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

// FindByID loads one branch row.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.NovaPoshtaBranch, error) {
	var branch models.NovaPoshtaBranch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// UpdateFields applies a partial column update to one branch.
func (r *Repository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.NovaPoshtaBranch{}).
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

// List returns branches, optionally narrowed by a city substring, ordered by
// city then address.
func (r *Repository) List(ctx context.Context, city string, limit, offset int) ([]models.NovaPoshtaBranch, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if city != "" {
			q = q.Where("LOWER(city_branch) LIKE LOWER(?)", "%"+city+"%")
		}
		return q
	}

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&models.NovaPoshtaBranch{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.NovaPoshtaBranch
	err := scope(r.db.WithContext(ctx)).
		Order("city_branch ASC").
		Order("address_branch ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Count returns the directory size.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.NovaPoshtaBranch{}).Count(&total).Error
	return total, err
}

// DeleteAll truncates the directory. Admin-only escape hatch before a full
// re-pull.
func (r *Repository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.NovaPoshtaBranch{}).Error
}

// CreateUkrPoshta inserts one buyer-supplied postal address.
func (r *Repository) CreateUkrPoshta(ctx context.Context, address *models.UkrPoshtaAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// FindUkrPoshtaByID loads one postal address row.
func (r *Repository) FindUkrPoshtaByID(ctx context.Context, id uint) (*models.UkrPoshtaAddress, error) {
	var address models.UkrPoshtaAddress
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}
