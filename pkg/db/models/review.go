package models

import (
	"time"

	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
)

// Review is a buyer-submitted product rating.
type Review struct {
	ID        uint         `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint         `gorm:"column:product_id;not null"`
	UserID    uint         `gorm:"column:user_id;not null"`
	Text      string       `gorm:"column:text"`
	Rating    enums.Rating `gorm:"column:rating;not null"`
	IsDeleted bool         `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
}
