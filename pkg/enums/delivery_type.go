package enums

import "fmt"

// DeliveryType names how a confirmed order should reach the buyer.
type DeliveryType string

const (
	DeliveryTypeWarehousePickup DeliveryType = "warehouse_pickup"
	DeliveryTypeAddressDelivery DeliveryType = "address_delivery"
	DeliveryTypePostalService   DeliveryType = "postal_service"
)

var validDeliveryTypes = []DeliveryType{
	DeliveryTypeWarehousePickup,
	DeliveryTypeAddressDelivery,
	DeliveryTypePostalService,
}

// String implements fmt.Stringer.
func (d DeliveryType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryType.
func (d DeliveryType) IsValid() bool {
	for _, candidate := range validDeliveryTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryType converts raw input into a DeliveryType.
func ParseDeliveryType(value string) (DeliveryType, error) {
	for _, candidate := range validDeliveryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery type %q", value)
}
