package domain

// DeliveryCategory classifies a free-text delivery or return status
type DeliveryCategory string

const (
	CategoryDelivered        DeliveryCategory = "Delivered"
	CategoryReturned         DeliveryCategory = "Returned"
	CategoryProcessingRefund DeliveryCategory = "ProcessingRefund"
	CategoryUndeliverable    DeliveryCategory = "Undeliverable"
	CategoryExpected         DeliveryCategory = "Expected"
	CategoryPossiblyLost     DeliveryCategory = "PossiblyLost"
	CategoryRefunded         DeliveryCategory = "Refunded"
	CategoryUnknown          DeliveryCategory = "Unknown"
)

// Classification is the result of classifying a pair of status strings.
// Recognized is false exactly when Category is CategoryUnknown.
type Classification struct {
	Category   DeliveryCategory `json:"category"`
	Date       string           `json:"date,omitempty"` // YYYY-MM-DD when found
	Recognized bool             `json:"recognized"`
}
