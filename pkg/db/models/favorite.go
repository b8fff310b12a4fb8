package models

import "time"

// Favorite is the per-user favorites list container.
type Favorite struct {
	ID        uint           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint           `gorm:"column:user_id;uniqueIndex;not null"`
	Items     []FavoriteItem `gorm:"foreignKey:FavoriteID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// FavoriteItem marks a single product on a favorites list.
type FavoriteItem struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	FavoriteID uint      `gorm:"column:favorite_id;not null;uniqueIndex:idx_favorite_product"`
	ProductID  uint      `gorm:"column:product_id;not null;uniqueIndex:idx_favorite_product"`
	Product    *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
