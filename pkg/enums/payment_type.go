package enums

import "fmt"

// PaymentType names how the buyer intends to pay for an order.
type PaymentType string

const (
	PaymentTypeCashOnDelivery PaymentType = "cash_on_delivery_np"
	PaymentTypeElectronic     PaymentType = "electronic"
)

var validPaymentTypes = []PaymentType{
	PaymentTypeCashOnDelivery,
	PaymentTypeElectronic,
}

// String implements fmt.Stringer.
func (p PaymentType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentType.
func (p PaymentType) IsValid() bool {
	for _, candidate := range validPaymentTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentType converts raw input into a PaymentType.
func ParsePaymentType(value string) (PaymentType, error) {
	for _, candidate := range validPaymentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment type %q", value)
}
