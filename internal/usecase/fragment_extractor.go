package usecase

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orderledger/backend/internal/domain"
)

// shipmentSelectors are ordered from most to least specific. Only the first
// selector that matches anything is used for a page.
var shipmentSelectors = []string{
	"[data-component='shipments'] [data-component='shipment']",
	"[data-component='shipments'] .a-box",
	"div.shipment",
	"#orderDetails .a-box-group .a-box",
	".od-shipments .a-box",
}

// childShipmentSelectors locate per-item sub-blocks nested inside a shipment
var childShipmentSelectors = []string{
	"[data-component='purchasedItems'] .a-fixed-left-grid",
	".yohtmlc-item",
	".a-fixed-left-grid.item-row",
}

// FragmentExtractor splits order-detail markup into shipment fragments
type FragmentExtractor struct {
	shipmentSelectors []string
	childSelectors    []string
}

// NewFragmentExtractor creates an extractor with the default selector lists
func NewFragmentExtractor() *FragmentExtractor {
	return &FragmentExtractor{
		shipmentSelectors: shipmentSelectors,
		childSelectors:    childShipmentSelectors,
	}
}

// Extract returns one markup string per shipment fragment found in the page.
// A page that cannot be parsed yields no fragments and an error wrapping
// domain.ErrMalformedFragment; the caller decides how to report it.
func (e *FragmentExtractor) Extract(pageMarkup string) ([]string, error) {
	if strings.TrimSpace(pageMarkup) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageMarkup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedFragment, err)
	}

	for _, selector := range e.shipmentSelectors {
		shipments := doc.Find(selector)
		if shipments.Length() == 0 {
			continue
		}
		return e.collect(shipments), nil
	}

	return nil, nil
}

// collect emits nested item blocks when a shipment has them and the shipment
// itself otherwise. Identical markup is emitted once.
func (e *FragmentExtractor) collect(shipments *goquery.Selection) []string {
	var fragments []string
	seen := make(map[string]bool)

	emit := func(s *goquery.Selection) {
		markup, err := goquery.OuterHtml(s)
		if err != nil || strings.TrimSpace(markup) == "" {
			return
		}
		if seen[markup] {
			return
		}
		seen[markup] = true
		fragments = append(fragments, markup)
	}

	shipments.Each(func(_ int, shipment *goquery.Selection) {
		children := e.findChildren(shipment)
		if children == nil {
			emit(shipment)
			return
		}
		children.Each(func(_ int, child *goquery.Selection) {
			emit(child)
		})
	})

	return fragments
}

// findChildren returns the first non-empty nested selection, or nil
func (e *FragmentExtractor) findChildren(shipment *goquery.Selection) *goquery.Selection {
	for _, selector := range e.childSelectors {
		if children := shipment.Find(selector); children.Length() > 0 {
			return children
		}
	}
	return nil
}
