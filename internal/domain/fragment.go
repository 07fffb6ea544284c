package domain

// ShipmentFragment is one parsed sub-block of order-detail markup holding at
// most one candidate of each extracted field. It never outlives a single
// reconciliation call.
type ShipmentFragment struct {
	Raw       string `json:"raw,omitempty"`
	Price     string `json:"price,omitempty"`
	ProductID string `json:"productId,omitempty"`
	Title     string `json:"title,omitempty"`
	Quantity  string `json:"quantity"`
	// QuantityFound is false when Quantity holds DefaultQuantity because no
	// selector matched.
	QuantityFound bool `json:"quantityFound"`
}

// MatchResult reports whether a fragment resolved to a line item of the order.
// Index is the position of the matched item in the order's item list.
type MatchResult struct {
	Matched  bool             `json:"matched"`
	Index    int              `json:"index"`
	Item     LineItem         `json:"item"`
	Fragment ShipmentFragment `json:"fragment"`
	Rule     string           `json:"rule,omitempty"` // "productId" or "title"
	Reason   string           `json:"reason,omitempty"`
}

// Match rules
const (
	MatchRuleProductID = "productId"
	MatchRuleTitle     = "title"
)
