package usecase

import (
	"strings"

	"github.com/orderledger/backend/internal/domain"
)

// Deduplicator collapses matches that resolve to the same line item
type Deduplicator struct{}

// NewDeduplicator creates a deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

type mergedRecord struct {
	item        domain.LineItem
	explicitQty bool
}

// Merge builds one record per matched line item, keyed by the item's position
// in the order, in order of first appearance. Items that share a title stay
// distinct. A later duplicate only fills a missing price or a quantity that
// was never set explicitly; it never clears a resolved price.
//
// Original items that no fragment matched are appended unchanged so no item
// is lost. fellBack is true when nothing matched at all and the original list
// was returned as is.
func (d *Deduplicator) Merge(original []domain.LineItem, matches []domain.MatchResult) (items []domain.LineItem, fellBack bool) {
	var records []*mergedRecord
	byIndex := make(map[int]*mergedRecord)

	for _, match := range matches {
		if !match.Matched {
			continue
		}
		key := match.Index
		fragment := match.Fragment

		rec, exists := byIndex[key]
		if !exists {
			rec = &mergedRecord{item: match.Item}
			if fragment.Price != "" {
				rec.item = rec.item.WithPrice(fragment.Price)
			}
			switch {
			case fragment.QuantityFound:
				rec.item.Qty = fragment.Quantity
				rec.explicitQty = true
			case strings.TrimSpace(rec.item.Qty) != "":
				rec.explicitQty = true
			default:
				rec.item.Qty = domain.DefaultQuantity
			}
			if rec.item.ProductID == "" {
				rec.item.ProductID = fragment.ProductID
			}
			byIndex[key] = rec
			records = append(records, rec)
			continue
		}

		if !rec.item.HasPrice() && fragment.Price != "" {
			rec.item = rec.item.WithPrice(fragment.Price)
		}
		if !rec.explicitQty && fragment.QuantityFound {
			rec.item.Qty = fragment.Quantity
			rec.explicitQty = true
		}
	}

	if len(records) == 0 {
		return original, true
	}

	items = make([]domain.LineItem, 0, len(original))
	for _, rec := range records {
		items = append(items, rec.item)
	}
	for i, item := range original {
		if _, matched := byIndex[i]; !matched {
			items = append(items, item)
		}
	}
	return items, false
}
