package orders

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/pagination"
)

// phoneRe accepts Ukrainian numbers in +380, 380 and 0 prefixed forms.
var phoneRe = regexp.MustCompile(`^(?:\+380|380|0)\d{9}$`)

// ValidatePhone rejects malformed phone numbers before any order mutation.
func ValidatePhone(phone string) error {
	if !phoneRe.MatchString(phone) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "phone number must match +380/380/0 followed by nine digits")
	}
	return nil
}

// DeliveryPayload carries the buyer's payment and delivery choices.
type DeliveryPayload struct {
	PaymentType  enums.PaymentType  `json:"payment_type"`
	DeliveryType enums.DeliveryType `json:"delivery_type"`
	PostType     enums.PostType     `json:"post_type"`

	SelectedNovaPoshtaID *uint  `json:"selected_nova_poshta_id,omitempty"`
	SelectedUkrPoshtaID  *uint  `json:"selected_ukr_poshta_id,omitempty"`
	City                 string `json:"city,omitempty"`
	Street               string `json:"street,omitempty"`
	House                string `json:"house,omitempty"`
	Apartment            string `json:"apartment,omitempty"`
	Floor                string `json:"floor,omitempty"`

	PhoneNumber                 string `json:"phone_number"`
	AnotherRecipient            bool   `json:"another_recipient"`
	FullNameAnotherRecipient    string `json:"full_name_another_recipient,omitempty"`
	PhoneNumberAnotherRecipient string `json:"phone_number_another_recipient,omitempty"`

	Comment     string `json:"comment,omitempty"`
	CallManager bool   `json:"call_manager"`
}

// Validate rejects payment, delivery and carrier values outside the closed
// enum sets before anything is persisted.
func (p DeliveryPayload) Validate() error {
	if p.PaymentType != "" && !p.PaymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment type "+string(p.PaymentType))
	}
	if p.DeliveryType != "" && !p.DeliveryType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery type "+string(p.DeliveryType))
	}
	if p.PostType != "" && !p.PostType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown post type "+string(p.PostType))
	}
	return nil
}

// PlaceOrderDTO is the authenticated checkout payload.
type PlaceOrderDTO struct {
	DeliveryPayload
}

// FinalizeDraftDTO is the anonymous checkout payload; buyer identity travels
// inline because there is no account.
type FinalizeDraftDTO struct {
	DeliveryPayload
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// OrderedProductDTO is one immutable line of an order, price resolved through
// the referenced variant row.
type OrderedProductDTO struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	PriceID     uint            `json:"price_id"`
	ProductName string          `json:"product_name,omitempty"`
	Weight      string          `json:"weight,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the read projection of an order or draft.
type OrderDTO struct {
	ID              uint              `json:"id"`
	UserID          *uint             `json:"user_id,omitempty"`
	Status          enums.OrderStatus `json:"status"`
	Total           decimal.Decimal   `json:"total"`
	IsAuthenticated bool              `json:"is_authenticated"`
	IsCreated       bool              `json:"is_created"`

	PaymentType  enums.PaymentType  `json:"payment_type,omitempty"`
	DeliveryType enums.DeliveryType `json:"delivery_type,omitempty"`
	PostType     enums.PostType     `json:"post_type,omitempty"`
	PhoneNumber  string             `json:"phone_number,omitempty"`

	ConfirmationManager bool   `json:"confirmation_manager"`
	ConfirmationPay     bool   `json:"confirmation_pay"`
	CallManager         bool   `json:"call_manager"`
	Comment             string `json:"comment,omitempty"`
	Notes               string `json:"notes,omitempty"`

	Items     []OrderedProductDTO `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

// ListParams scopes the CRM order listing.
type ListParams struct {
	Status *enums.OrderStatus
	Page   pagination.Params
}

func orderedProductToDTO(item models.OrderedProduct) OrderedProductDTO {
	dto := OrderedProductDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		PriceID:   item.PriceID,
		Quantity:  item.Quantity,
		UnitPrice: decimal.Zero,
		LineTotal: decimal.Zero,
	}
	if item.Product != nil {
		dto.ProductName = item.Product.Name
	}
	if item.Price != nil {
		dto.Weight = item.Price.Weight
		dto.UnitPrice = item.Price.Price
		dto.LineTotal = item.Price.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
	}
	return dto
}

func orderToDTO(order models.Order) OrderDTO {
	items := make([]OrderedProductDTO, 0, len(order.OrderedProducts))
	for _, item := range order.OrderedProducts {
		items = append(items, orderedProductToDTO(item))
	}
	return OrderDTO{
		ID:                  order.ID,
		UserID:              order.UserID,
		Status:              order.Status,
		Total:               order.PriceOrder,
		IsAuthenticated:     order.IsAuthenticated,
		IsCreated:           order.IsCreated,
		PaymentType:         order.PaymentType,
		DeliveryType:        order.DeliveryType,
		PostType:            order.PostType,
		PhoneNumber:         order.PhoneNumber,
		ConfirmationManager: order.ConfirmationManager,
		ConfirmationPay:     order.ConfirmationPay,
		CallManager:         order.CallManager,
		Comment:             order.Comment,
		Notes:               order.Notes,
		Items:               items,
		CreatedAt:           order.CreatedAt,
	}
}
