package models

import "time"

// Basket is the per-user mutable cart container. The row persists across
// orders; only its items are cleared when an order is placed.
type Basket struct {
	ID        uint         `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint         `gorm:"column:user_id;uniqueIndex;not null"`
	Items     []BasketItem `gorm:"foreignKey:BasketID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
}

// BasketItem holds one (product, price variant) line in a basket. At most one
// row exists per (basket, product, price); repeated adds increment Quantity.
type BasketItem struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	BasketID  uint      `gorm:"column:basket_id;not null;uniqueIndex:idx_basket_product_price"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:idx_basket_product_price"`
	PriceID   uint      `gorm:"column:price_id;not null;uniqueIndex:idx_basket_product_price"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Price     *Price    `gorm:"foreignKey:PriceID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
