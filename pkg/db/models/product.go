package models

import (
	"time"

	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
)

// Product is a catalog listing. Only activated, non-deleted products with at
// least one active non-deleted price are visible on the storefront.
type Product struct {
	ID            uint                 `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string               `gorm:"column:name;not null;index"`
	Description   string               `gorm:"column:description"`
	CategoryID    uint                 `gorm:"column:category_id;not null"`
	Category      *ProductCategory     `gorm:"foreignKey:CategoryID"`
	Subcategories []ProductSubcategory `gorm:"many2many:product_subcategory_association"`
	Status        enums.ProductStatus  `gorm:"column:status;type:varchar(16);not null;default:'new'"`
	IsNew         bool                 `gorm:"column:is_new;not null;default:true"`
	IsPopular     bool                 `gorm:"column:is_popular;not null;default:false"`
	IsFavorite    bool                 `gorm:"column:is_favorite;not null;default:false"`
	IsDeleted     bool                 `gorm:"column:is_deleted;not null;default:false"`
	Prices        []Price              `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images        []Image              `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews       []Review             `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductCategory is a top-level catalog grouping.
type ProductCategory struct {
	ID            uint                 `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string               `gorm:"column:name;uniqueIndex;not null"`
	IsDeleted     bool                 `gorm:"column:is_deleted;not null;default:false"`
	Subcategories []ProductSubcategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
}

// ProductSubcategory refines a category; products link many-to-many.
type ProductSubcategory struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:name;not null"`
	CategoryID uint      `gorm:"column:category_id;not null"`
	IsDeleted  bool      `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
