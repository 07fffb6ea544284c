package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderledger/backend/internal/domain"
)

func newTestExportBuilder(reporter domain.DiagnosticReporter) *ExportBuilder {
	dates := NewDateNormalizer(fixedClock)
	builder := NewExportBuilder(NewStatusClassifier(dates), dates, reporter, "EUR")
	builder.clock = fixedClock
	return builder
}

func TestExportBuilder_BuildRows(t *testing.T) {
	reporter := NewMockReporter()
	builder := newTestExportBuilder(reporter)

	order := domain.Order{
		OrderID:         "402-1234567-7654321",
		OrderTotal:      "€ 56,81",
		OrderPlacedDate: "13 januari 2024",
		DeliveryStatus:  "Bezorgd op 15 januari",
		Items: []domain.LineItem{
			priced("Draadloze muis", "22.99", "1"),
			{Title: "Bureaulamp", ProductID: "B01ABCDEFG", Href: "https://www.amazon.nl/dp/B01ABCDEFG", Qty: "2", Price: strPtr("16.91")},
		},
	}

	rows := builder.BuildRows(order)
	require.Len(t, rows, 2)

	assert.Equal(t, "2024-01-13", rows[0].Date)
	assert.Equal(t, "Delivered: Draadloze muis", rows[0].Description)
	assert.Equal(t, "22.99", rows[0].Amount.String())
	assert.Equal(t, "EUR", rows[0].Currency)
	assert.Equal(t, int64(1), rows[0].Quantity)
	assert.Equal(t, order.OrderID, rows[0].OrderID)
	assert.Equal(t, "2024-01-15", rows[0].DeliveryDate)

	assert.Equal(t, "Delivered: Bureaulamp", rows[1].Description)
	assert.Equal(t, "33.82", rows[1].Amount.String())
	assert.Equal(t, int64(2), rows[1].Quantity)
	assert.Equal(t, "B01ABCDEFG", rows[1].ProductID)
	assert.Equal(t, "https://www.amazon.nl/dp/B01ABCDEFG", rows[1].URL)

	assert.Empty(t, reporter.Events(), "recognized status must not be reported")
}

func TestExportBuilder_UnknownStatusIsReported(t *testing.T) {
	reporter := NewMockReporter()
	builder := newTestExportBuilder(reporter)

	rows := builder.BuildRows(domain.Order{
		OrderID:        "402-1",
		OrderTotal:     "€ 9,99",
		DeliveryStatus: "Digitale bestelling",
		Items:          []domain.LineItem{priced("E-book", "9.99", "1")},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown: E-book", rows[0].Description)
	assert.Equal(t, "2024-10-15", rows[0].Date, "missing placed date falls back to today")

	events := reporter.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.KindUnknownStatus, events[0].Kind)
	assert.Equal(t, "402-1", events[0].OrderID)
	assert.Contains(t, events[0].Detail, "Digitale bestelling")
}

func TestExportBuilder_UnpricedItemHasZeroAmount(t *testing.T) {
	rows := newTestExportBuilder(nil).BuildRows(domain.Order{
		OrderID:        "402-1",
		DeliveryStatus: "Onderweg",
		Items:          []domain.LineItem{{Title: "Kabel"}},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "0.00", rows[0].Amount.String())
	assert.Equal(t, int64(1), rows[0].Quantity)
	assert.Equal(t, "Expected: Kabel", rows[0].Description)
}

func TestExportBuilder_Currency(t *testing.T) {
	builder := newTestExportBuilder(nil)

	tests := []struct {
		total string
		want  string
	}{
		{total: "€ 56,81", want: "EUR"},
		{total: "EUR 56,81", want: "EUR"},
		{total: "£12.00", want: "GBP"},
		{total: "US$ 5.00", want: "USD"},
		{total: "$5.00", want: "USD"},
		{total: "56,81", want: "EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			assert.Equal(t, tt.want, builder.currencyOf(tt.total))
		})
	}
}

func strPtr(s string) *string {
	return &s
}
