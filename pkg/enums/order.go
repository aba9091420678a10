package enums

import "fmt"

// OfferStatus tracks a company's bid on a farm product.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "beklemede"
	OfferStatusAccepted OfferStatus = "kabul"
	OfferStatusDeclined OfferStatus = "red"
	OfferStatusExpired  OfferStatus = "suresi_doldu"
)

var validOfferStatuses = []OfferStatus{
	OfferStatusPending,
	OfferStatusAccepted,
	OfferStatusDeclined,
	OfferStatusExpired,
}

// IsValid reports whether the value is a known OfferStatus.
func (s OfferStatus) IsValid() bool {
	for _, candidate := range validOfferStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOfferStatus converts raw input into an OfferStatus.
func ParseOfferStatus(value string) (OfferStatus, error) {
	for _, candidate := range validOfferStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer status %q", value)
}

// OrderStatus tracks a confirmed trade between a company and a farm.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "beklemede"
	OrderStatusConfirmed OrderStatus = "onaylandi"
	OrderStatusShipped   OrderStatus = "kargoda"
	OrderStatusCompleted OrderStatus = "tamamlandi"
	OrderStatusCancelled OrderStatus = "iptal"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
