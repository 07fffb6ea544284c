package usecase

import (
	"strings"

	"github.com/orderledger/backend/internal/domain"
)

// keywordGroup maps a set of lowercase Dutch status phrases to a category
type keywordGroup struct {
	category domain.DeliveryCategory
	keywords []string
}

// statusKeywordGroups are tested in order; the first group with a keyword
// contained in the status text wins. Refund and return phrases come before
// delivery phrases because refund texts often repeat the delivery line, and
// "wordt ... bezorgd" must be seen before the bare "bezorgd".
var statusKeywordGroups = []keywordGroup{
	{domain.CategoryRefunded, []string{
		"terugbetaald", "terugbetaling uitgevoerd", "terugbetaling verstuurd", "restitutie uitgegeven", "bedrag is teruggestort",
	}},
	{domain.CategoryProcessingRefund, []string{
		"terugbetaling wordt verwerkt", "terugbetaling in behandeling", "restitutie wordt verwerkt", "retour wordt verwerkt",
	}},
	{domain.CategoryReturned, []string{
		"retour ontvangen", "retourzending ontvangen", "geretourneerd", "teruggestuurd naar verkoper", "retour gestart",
	}},
	{domain.CategoryUndeliverable, []string{
		"kan niet worden bezorgd", "kon niet worden bezorgd", "niet bezorgd", "onbestelbaar", "bezorging mislukt",
	}},
	{domain.CategoryPossiblyLost, []string{
		"mogelijk verloren", "pakket is mogelijk zoek", "vertraagd", "nog niet ontvangen",
	}},
	{domain.CategoryExpected, []string{
		"verwacht", "wordt bezorgd", "wordt vandaag bezorgd", "wordt morgen bezorgd", "arriveert", "onderweg", "verzonden", "komt aan",
	}},
	{domain.CategoryDelivered, []string{
		"bezorgd op", "is bezorgd", "afgeleverd", "in brievenbus", "opgehaald", "bezorgd",
	}},
}

// StatusClassifier maps free-text delivery status strings to a category
type StatusClassifier struct {
	dates *DateNormalizer
}

// NewStatusClassifier creates a classifier using dates for day/month extraction
func NewStatusClassifier(dates *DateNormalizer) *StatusClassifier {
	return &StatusClassifier{dates: dates}
}

// Classify lowercases and joins the primary and secondary status fields and
// tests them against the keyword groups. Unmatched text yields
// CategoryUnknown with Recognized false. A "<day> <month>" in the text, the
// last one if several, becomes the ISO Date.
func (c *StatusClassifier) Classify(primary, secondary string) domain.Classification {
	text := strings.TrimSpace(strings.ToLower(strings.TrimSpace(primary) + " " + strings.TrimSpace(secondary)))

	result := domain.Classification{Category: domain.CategoryUnknown}
	for _, group := range statusKeywordGroups {
		if containsAny(text, group.keywords) {
			result.Category = group.category
			result.Recognized = true
			break
		}
	}

	if date, ok := c.dates.LastDayMonth(text); ok {
		result.Date = date
	}
	return result
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
