package models

import "time"

// Image references a CDN-hosted product picture.
type Image struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   uint      `gorm:"column:product_id;not null"`
	ImageURL    string    `gorm:"column:image_url;not null"`
	Description string    `gorm:"column:description"`
	MainImage   bool      `gorm:"column:main_image;not null;default:false"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
