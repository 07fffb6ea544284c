package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// itemBlock renders one purchased item the way the order-detail page does
func itemBlock(href, title, price, qty string) string {
	var b strings.Builder
	b.WriteString(`<div class="a-fixed-left-grid">`)
	if href != "" {
		b.WriteString(`<a class="a-link-normal" href="` + href + `">` + title + `</a>`)
	} else if title != "" {
		b.WriteString(`<span class="yohtmlc-product-title">` + title + `</span>`)
	}
	if price != "" {
		b.WriteString(`<span class="a-price"><span class="a-offscreen">` + price + `</span></span>`)
	}
	if qty != "" {
		b.WriteString(`<span class="item-view-qty">` + qty + `</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// shipmentPage wraps shipments, each a list of item blocks, in a detail page
func shipmentPage(shipments ...[]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div data-component="shipments">`)
	for _, items := range shipments {
		b.WriteString(`<div data-component="shipment"><div data-component="purchasedItems">`)
		for _, item := range items {
			b.WriteString(item)
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func TestFragmentExtractor_Extract(t *testing.T) {
	extractor := NewFragmentExtractor()

	tests := []struct {
		name      string
		page      string
		wantCount int
		contains  []string
	}{
		{
			name:      "blank page",
			page:      "   ",
			wantCount: 0,
		},
		{
			name:      "page without shipments",
			page:      `<html><body><p>Je bestellingen</p></body></html>`,
			wantCount: 0,
		},
		{
			name: "one fragment per nested item",
			page: shipmentPage(
				[]string{
					itemBlock("/dp/B08N5WRWNW", "Draadloze muis", "€22,99", ""),
					itemBlock("/dp/B07XYZ1234", "USB-C kabel", "€9,99", ""),
				},
				[]string{itemBlock("/dp/B01ABCDEFG", "Bureaulamp", "€23,83", "")},
			),
			wantCount: 3,
			contains:  []string{"B08N5WRWNW", "B07XYZ1234", "B01ABCDEFG"},
		},
		{
			name:      "shipment without nested items is one fragment",
			page:      `<div data-component="shipments"><div data-component="shipment"><a href="/dp/B08N5WRWNW">Draadloze muis</a></div></div>`,
			wantCount: 1,
			contains:  []string{`data-component="shipment"`},
		},
		{
			name:      "falls back to later selectors",
			page:      `<div id="orderDetails"><div class="shipment">eerste</div><div class="shipment">tweede</div></div>`,
			wantCount: 2,
			contains:  []string{"eerste", "tweede"},
		},
		{
			name: "identical markup is emitted once",
			page: shipmentPage(
				[]string{itemBlock("/dp/B08N5WRWNW", "Draadloze muis", "€22,99", "")},
				[]string{itemBlock("/dp/B08N5WRWNW", "Draadloze muis", "€22,99", "")},
			),
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragments, err := extractor.Extract(tt.page)
			require.NoError(t, err)
			assert.Len(t, fragments, tt.wantCount)

			joined := strings.Join(fragments, "\n")
			for _, want := range tt.contains {
				assert.Contains(t, joined, want)
			}
		})
	}
}

func TestFragmentExtractor_FirstMatchingSelectorWins(t *testing.T) {
	// Both the component markup and a legacy div.shipment are present; only
	// the component selector is used.
	page := shipmentPage([]string{itemBlock("/dp/B08N5WRWNW", "Draadloze muis", "€22,99", "")}) +
		`<div class="shipment">legacy</div>`

	fragments, err := NewFragmentExtractor().Extract(page)
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.NotContains(t, fragments[0], "legacy")
}
