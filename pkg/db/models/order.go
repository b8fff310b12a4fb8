package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
)

// Order is the order-engine record. Anonymous drafts are Order rows with
// IsCreated=false that accumulate ordered products until finalization; after
// creation the row is immutable apart from operator transitions.
type Order struct {
	ID       uint  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID   *uint `gorm:"column:user_id;index"`
	BasketID *uint `gorm:"column:basket_id"`

	PriceOrder decimal.Decimal `gorm:"column:price_order;type:numeric(10,2);not null;default:0"`

	PaymentType  enums.PaymentType  `gorm:"column:payment_type;type:varchar(32)"`
	DeliveryType enums.DeliveryType `gorm:"column:delivery_type;type:varchar(32)"`
	PostType     enums.PostType     `gorm:"column:post_type;type:varchar(16)"`

	SelectedNovaPoshtaID *uint  `gorm:"column:selected_nova_poshta_id"`
	SelectedUkrPoshtaID  *uint  `gorm:"column:selected_ukr_poshta_id"`
	City                 string `gorm:"column:city"`
	Street               string `gorm:"column:street"`
	House                string `gorm:"column:house"`
	Apartment            string `gorm:"column:apartment"`
	Floor                string `gorm:"column:floor"`

	PhoneNumber                  string `gorm:"column:phone_number"`
	AnotherRecipient             bool   `gorm:"column:another_recipient;not null;default:false"`
	FullNameAnotherRecipient     string `gorm:"column:full_name_another_recipient"`
	PhoneNumberAnotherRecipient  string `gorm:"column:phone_number_another_recipient"`
	FirstNameAnonUser            string `gorm:"column:first_name_anon_user"`
	LastNameAnonUser             string `gorm:"column:last_name_anon_user"`
	EmailAnonUser                string `gorm:"column:email_anon_user"`
	PhoneNumberAnonUser          string `gorm:"column:phone_number_anon_user"`

	Comment string `gorm:"column:comment"`
	Notes   string `gorm:"column:notes"`

	ConfirmationManager bool `gorm:"column:confirmation_manager;not null;default:false"`
	ConfirmationPay     bool `gorm:"column:confirmation_pay;not null;default:false"`
	CallManager         bool `gorm:"column:call_manager;not null;default:false"`

	IsAuthenticated bool `gorm:"column:is_authenticated;not null;default:false"`
	IsCreated       bool `gorm:"column:is_created;not null;default:false"`

	Status enums.OrderStatus `gorm:"column:status;type:varchar(16);not null;default:'new'"`

	OrderedProducts []OrderedProduct `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderedProduct is the immutable priced line-item snapshot attached to an
// order. PriceID always cites a real price row, archived or not.
type OrderedProduct struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint      `gorm:"column:order_id;not null;index"`
	ProductID uint      `gorm:"column:product_id;not null"`
	PriceID   uint      `gorm:"column:price_id;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Price     *Price    `gorm:"foreignKey:PriceID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
