package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price is a per-weight variant of a product. Archived variants keep their
// rows so ordered-product snapshots resolve after archival.
type Price struct {
	ID          uint             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   uint             `gorm:"column:product_id;not null;uniqueIndex:idx_product_weight"`
	Weight      string           `gorm:"column:weight;type:varchar(16);not null;uniqueIndex:idx_product_weight"`
	Price       decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	OldPrice    *decimal.Decimal `gorm:"column:old_price;type:numeric(10,2)"`
	Quantity    int              `gorm:"column:quantity;not null;default:0"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	IsDeleted   bool             `gorm:"column:is_deleted;not null;default:false"`
	Promotional bool             `gorm:"column:promotional;not null;default:false"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// Purchasable reports whether the variant may enter a basket or draft.
func (p Price) Purchasable() bool {
	return p.IsActive && !p.IsDeleted
}
