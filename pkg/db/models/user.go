package models

import (
	"time"

	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
)

// User is a registered storefront account. Each user owns exactly one basket
// and one favorites list, both provisioned at signup.
type User struct {
	ID             uint       `gorm:"column:id;primaryKey;autoIncrement"`
	Email          string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string     `gorm:"column:password_hash;not null"`
	FirstName      string     `gorm:"column:first_name"`
	LastName       string     `gorm:"column:last_name"`
	PhoneNumber    *string    `gorm:"column:phone_number"`
	Role           enums.Role `gorm:"column:role;type:varchar(16);not null;default:'user'"`
	IsActive       bool       `gorm:"column:is_active;not null;default:true"`
	ConfirmedEmail bool       `gorm:"column:confirmed_email;not null;default:false"`
	RefreshToken   *string    `gorm:"column:refresh_token"`
	Basket         *Basket    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Favorite       *Favorite  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
