package usecase

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orderledger/backend/internal/domain"
)

// productIDQueryParam is the query parameter some item links carry the product id in
const productIDQueryParam = "asin"

// productIDPathIndices are positional fallbacks, e.g. /gp/product/{id}
var productIDPathIndices = []int{2, 3}

// Compiled patterns for product identifiers
var (
	identifierRegex     = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	longIdentifierRegex = regexp.MustCompile(`^[A-Za-z0-9]{10,}$`)
)

// Selector lists per field, tried in order. The first non-empty text wins.
var (
	priceSelectors = []string{
		"[data-component='unitPrice'] .a-offscreen",
		".a-price .a-offscreen",
		"span.a-color-price",
		".a-color-price",
		"[data-component='unitPrice']",
	}

	itemLinkSelectors = []string{
		"a.a-link-normal[href*='/dp/']",
		"a[href*='/gp/product/']",
		"a[href*='/dp/']",
		"[data-component='itemTitle'] a",
	}

	titleSelectors = []string{
		".yohtmlc-product-title",
		"[data-component='itemTitle']",
		".item-title",
	}

	quantitySelectors = []string{
		".item-view-qty",
		"[data-component='quantity']",
		".od-item-view-qty span",
		".product-image__qty",
	}
)

// FieldExtractor pulls price, product id, title and quantity out of a single
// shipment fragment. Every field is optional.
type FieldExtractor struct {
	baseOrigin *url.URL
}

// NewFieldExtractor creates an extractor resolving relative links against baseOrigin
func NewFieldExtractor(baseOrigin string) (*FieldExtractor, error) {
	base, err := url.Parse(baseOrigin)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("%w: base origin %q must be an absolute URL", domain.ErrInvalidRequest, baseOrigin)
	}
	return &FieldExtractor{baseOrigin: base}, nil
}

// Extract parses one fragment. Only unparseable markup is an error; missing
// fields are left empty (quantity falls back to domain.DefaultQuantity).
func (e *FieldExtractor) Extract(fragment string) (domain.ShipmentFragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return domain.ShipmentFragment{Raw: fragment}, fmt.Errorf("%w: %v", domain.ErrMalformedFragment, err)
	}
	root := doc.Selection

	result := domain.ShipmentFragment{
		Raw:      fragment,
		Price:    firstText(root, priceSelectors),
		Quantity: domain.DefaultQuantity,
	}

	link := firstMatch(root, itemLinkSelectors)
	if link != nil {
		if href, ok := link.Attr("href"); ok {
			result.ProductID = e.ProductIDFromHref(href)
		}
		result.Title = normalizeText(link.Text())
	}
	if result.Title == "" {
		result.Title = firstText(root, titleSelectors)
	}

	if qty := cleanQuantity(firstText(root, quantitySelectors)); qty != "" {
		result.Quantity = qty
		result.QuantityFound = true
	}

	return result, nil
}

// ProductIDFromHref derives the catalogue key from an item link. Candidates
// are tried in order: query parameter, segment after "dp", any long
// alphanumeric segment, then fixed path positions. Returns "" when none fits.
func (e *FieldExtractor) ProductIDFromHref(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := e.baseOrigin.Parse(href)
	if err != nil {
		return ""
	}

	segments := pathSegments(u.Path)
	candidates := []string{u.Query().Get(productIDQueryParam)}

	for i, seg := range segments {
		if seg == "dp" && i+1 < len(segments) {
			candidates = append(candidates, segments[i+1])
			break
		}
	}
	for _, seg := range segments {
		if longIdentifierRegex.MatchString(seg) {
			candidates = append(candidates, seg)
			break
		}
	}
	for _, idx := range productIDPathIndices {
		if idx < len(segments) {
			candidates = append(candidates, segments[idx])
		}
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || candidate == "product" || candidate == "dp" {
			continue
		}
		if identifierRegex.MatchString(candidate) {
			return candidate
		}
	}
	return ""
}

func pathSegments(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// firstMatch returns the first selection of the ordered list that matches
func firstMatch(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if found := root.Find(selector).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// firstText returns the first non-empty normalized text of the ordered list
func firstText(root *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		var text string
		root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text = normalizeText(s.Text())
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// cleanQuantity keeps the digits of labels such as "Aantal: 2"
func cleanQuantity(raw string) string {
	return domain.FirstInteger(raw)
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
