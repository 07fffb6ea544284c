package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/orderledger/backend/internal/domain"
)

// currencySymbols maps display symbols found in order totals to ISO codes
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"€", "EUR"},
	{"EUR", "EUR"},
	{"£", "GBP"},
	{"GBP", "GBP"},
	{"US$", "USD"},
	{"$", "USD"},
	{"USD", "USD"},
}

// ExportBuilder turns reconciled orders into bookkeeping rows
type ExportBuilder struct {
	classifier      *StatusClassifier
	dates           *DateNormalizer
	reporter        domain.DiagnosticReporter
	defaultCurrency string
	clock           func() time.Time
}

// NewExportBuilder creates a builder. defaultCurrency is used when the order
// total carries no recognizable symbol.
func NewExportBuilder(classifier *StatusClassifier, dates *DateNormalizer, reporter domain.DiagnosticReporter, defaultCurrency string) *ExportBuilder {
	if reporter == nil {
		reporter = domain.NopReporter{}
	}
	return &ExportBuilder{
		classifier:      classifier,
		dates:           dates,
		reporter:        reporter,
		defaultCurrency: defaultCurrency,
		clock:           time.Now,
	}
}

// BuildRows returns one row per line item. Unknown delivery statuses are
// reported so gaps in the keyword lists show up in diagnostics.
func (b *ExportBuilder) BuildRows(order domain.Order) []domain.ExportRow {
	status := b.classifier.Classify(order.DeliveryStatus, order.DeliveryDate)
	if !status.Recognized {
		b.reporter.Report(domain.Diagnostic{
			Kind:     domain.KindUnknownStatus,
			Severity: domain.SeverityInfo,
			OrderID:  order.OrderID,
			Message:  "delivery status matched no keyword group",
			Detail:   strings.TrimSpace(order.DeliveryStatus + " | " + order.DeliveryDate),
			At:       b.clock(),
		})
	}

	date := b.dates.Normalize(order.OrderPlacedDate)
	currency := b.currencyOf(order.OrderTotal)

	rows := make([]domain.ExportRow, 0, len(order.Items))
	for _, item := range order.Items {
		qty := domain.ParseQuantity(item.Qty)
		amount, err := domain.ParseMoney(item.PriceString()).MulQuantity(qty)
		if err != nil {
			b.reporter.Report(domain.Diagnostic{
				Kind:     domain.KindAllocationInconsistency,
				Severity: domain.SeverityWarning,
				OrderID:  order.OrderID,
				Message:  "line amount overflow",
				Detail:   err.Error(),
				At:       b.clock(),
			})
		}

		rows = append(rows, domain.ExportRow{
			Date:         date,
			Description:  fmt.Sprintf("%s: %s", status.Category, item.Title),
			Amount:       amount.Round(),
			Currency:     currency,
			Quantity:     qty,
			OrderID:      order.OrderID,
			ProductID:    item.ProductID,
			URL:          item.Href,
			DeliveryDate: status.Date,
		})
	}
	return rows
}

// currencyOf detects the currency code from a money display string
func (b *ExportBuilder) currencyOf(total string) string {
	upper := strings.ToUpper(total)
	for _, c := range currencySymbols {
		if strings.Contains(upper, c.symbol) {
			return c.code
		}
	}
	return b.defaultCurrency
}
