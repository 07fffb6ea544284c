package domain

import "strings"

// DefaultQuantity is the quantity assumed for a line item when no page
// exposes one.
const DefaultQuantity = "1"

// Order represents one order from the vendor's order history
type Order struct {
	OrderID         string     `json:"orderId"`
	OrderTotal      string     `json:"orderTotal"`
	OrderPlacedDate string     `json:"orderPlacedDate"`
	DeliveryStatus  string     `json:"deliveryStatus"`
	DeliveryDate    string     `json:"deliveryDate"`
	URL             string     `json:"url"`
	Items           []LineItem `json:"items"`
}

// LineItem represents a purchased product within an order.
// Price stays nil until a shipment fragment or the allocator resolves it.
type LineItem struct {
	Title        string  `json:"title"`
	ReturnPolicy string  `json:"returnPolicy"`
	Price        *string `json:"price,omitempty"`
	ProductID    string  `json:"productId"`
	Href         string  `json:"href"`
	Qty          string  `json:"qty"`
}

// HasPrice reports whether the item carries a non-blank price string
func (li LineItem) HasPrice() bool {
	return li.Price != nil && strings.TrimSpace(*li.Price) != ""
}

// PriceString returns the raw price or "" when unresolved
func (li LineItem) PriceString() string {
	if li.Price == nil {
		return ""
	}
	return *li.Price
}

// WithPrice returns a copy of the item carrying the given price
func (li LineItem) WithPrice(price string) LineItem {
	p := price
	li.Price = &p
	return li
}

// OrderInput pairs an order with the raw detail-page markup fetched for it
type OrderInput struct {
	Order Order    `json:"order"`
	Pages []string `json:"pages"`
}

// ReconcileResult is the outcome of reconciling a single order
type ReconcileResult struct {
	Order         Order         `json:"order"`
	FragmentCount int           `json:"fragmentCount"`
	Matched       int           `json:"matched"`
	Unmatched     []MatchResult `json:"unmatched,omitempty"`
	Warnings      []Diagnostic  `json:"warnings,omitempty"`
}

// FailedOrder records an order whose reconciliation was aborted
type FailedOrder struct {
	OrderID string `json:"orderId"`
	Error   string `json:"error"`
}

// BatchResult is the outcome of reconciling a batch of orders
type BatchResult struct {
	RunID  string            `json:"runId"`
	Orders []ReconcileResult `json:"orders"`
	Failed []FailedOrder     `json:"failed,omitempty"`
}

// ExportRow is one bookkeeping row per line item
type ExportRow struct {
	Date         string `json:"date"`
	Description  string `json:"description"`
	Amount       Money  `json:"amount"`
	Currency     string `json:"currency"`
	Quantity     int64  `json:"quantity"`
	OrderID      string `json:"orderId"`
	ProductID    string `json:"productId,omitempty"`
	URL          string `json:"url,omitempty"`
	DeliveryDate string `json:"deliveryDate,omitempty"`
}
