package usecase

import (
	"fmt"
	"log"
	"strings"

	"github.com/orderledger/backend/internal/domain"
)

// ItemMatcher maps shipment fragments onto the line items of an order
type ItemMatcher struct {
	enableDebugLogging bool
}

// NewItemMatcher creates a matcher
func NewItemMatcher(enableDebugLogging bool) *ItemMatcher {
	return &ItemMatcher{enableDebugLogging: enableDebugLogging}
}

// Match finds at most one line item for the fragment.
// Product identifiers are compared first (trimmed, case-sensitive). When that
// fails the fragment title must be contained in the item title; titles are
// truncated differently across pages so full equality is never required.
func (m *ItemMatcher) Match(fragment domain.ShipmentFragment, items []domain.LineItem) domain.MatchResult {
	productID := strings.TrimSpace(fragment.ProductID)
	title := strings.TrimSpace(fragment.Title)

	if productID != "" {
		for i, item := range items {
			if strings.TrimSpace(item.ProductID) == productID {
				return m.matched(i, item, fragment, domain.MatchRuleProductID)
			}
		}
	}

	if title != "" {
		for i, item := range items {
			if strings.Contains(strings.TrimSpace(item.Title), title) {
				return m.matched(i, item, fragment, domain.MatchRuleTitle)
			}
		}
	}

	reason := fmt.Sprintf("no line item with productId=%q or title containing %q", productID, title)
	if m.enableDebugLogging {
		log.Printf("[MATCH] Unmatched fragment: %s", reason)
	}
	return domain.MatchResult{
		Matched:  false,
		Index:    -1,
		Fragment: fragment,
		Reason:   reason,
	}
}

func (m *ItemMatcher) matched(index int, item domain.LineItem, fragment domain.ShipmentFragment, rule string) domain.MatchResult {
	if m.enableDebugLogging {
		log.Printf("[MATCH] %q matched by %s (price: %q, qty: %q)", item.Title, rule, fragment.Price, fragment.Quantity)
	}
	return domain.MatchResult{
		Matched:  true,
		Index:    index,
		Item:     item,
		Fragment: fragment,
		Rule:     rule,
	}
}
