package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderledger/backend/internal/domain"
)

func priced(title, price, qty string) domain.LineItem {
	return domain.LineItem{Title: title, Qty: qty}.WithPrice(price)
}

func unpriced(title, qty string) domain.LineItem {
	return domain.LineItem{Title: title, Qty: qty}
}

// lineTotal sums price * qty over all items
func lineTotal(t *testing.T, items []domain.LineItem) domain.Money {
	t.Helper()
	sum := domain.Money{}
	for _, item := range items {
		require.True(t, item.HasPrice(), "item %q has no price", item.Title)
		line, err := domain.ParseMoney(item.PriceString()).MulQuantity(domain.ParseQuantity(item.Qty))
		require.NoError(t, err)
		sum, err = sum.Add(line)
		require.NoError(t, err)
	}
	return sum
}

func TestPriceAllocator_Allocate(t *testing.T) {
	tests := []struct {
		name           string
		items          []domain.LineItem
		total          string
		wantPrices     []string
		wantConsistent bool
	}{
		{
			name:           "remainder goes to the only unpriced item",
			items:          []domain.LineItem{priced("A", "€10,00", "1"), unpriced("B", "1")},
			total:          "€ 30,00",
			wantPrices:     []string{"10.00", "20.00"},
			wantConsistent: true,
		},
		{
			name:           "even split",
			items:          []domain.LineItem{priced("A", "10.00", "1"), unpriced("B", "1"), unpriced("C", "1")},
			total:          "30.00",
			wantPrices:     []string{"10.00", "10.00", "10.00"},
			wantConsistent: true,
		},
		{
			name:           "last item absorbs the rounding remainder",
			items:          []domain.LineItem{unpriced("A", "1"), unpriced("B", "1"), unpriced("C", "1")},
			total:          "31,00",
			wantPrices:     []string{"10.33", "10.33", "10.34"},
			wantConsistent: true,
		},
		{
			name:           "quantity divides the share",
			items:          []domain.LineItem{unpriced("A", "3")},
			total:          "€ 30,00",
			wantPrices:     []string{"10.00"},
			wantConsistent: true,
		},
		{
			name:           "known price times quantity",
			items:          []domain.LineItem{priced("A", "€5,00", "2"), unpriced("B", "")},
			total:          "€ 12,50",
			wantPrices:     []string{"5.00", "2.50"},
			wantConsistent: true,
		},
		{
			name:           "known prices exceeding the total are clamped",
			items:          []domain.LineItem{priced("A", "€15,00", "1"), unpriced("B", "1")},
			total:          "€ 10,00",
			wantPrices:     []string{"15.00", "0.00"},
			wantConsistent: false,
		},
		{
			name:           "fully priced order that misses the total",
			items:          []domain.LineItem{priced("A", "€22,99", "1")},
			total:          "€ 56,81",
			wantPrices:     []string{"22.99"},
			wantConsistent: false,
		},
		{
			name:           "fully priced order within tolerance",
			items:          []domain.LineItem{priced("A", "€22,99", "1"), priced("B", "33,82", "1")},
			total:          "€ 56,81",
			wantPrices:     []string{"22.99", "33.82"},
			wantConsistent: true,
		},
		{
			name:           "empty order",
			items:          nil,
			total:          "€ 0,00",
			wantPrices:     []string{},
			wantConsistent: true,
		},
	}

	allocator := NewPriceAllocator(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocation, err := allocator.Allocate(tt.items, domain.ParseMoney(tt.total))
			require.NoError(t, err)

			got := make([]string, 0, len(allocation.Items))
			for _, item := range allocation.Items {
				got = append(got, item.PriceString())
			}
			assert.Equal(t, tt.wantPrices, got)
			assert.Equal(t, tt.wantConsistent, allocation.Consistent)
			if !tt.wantConsistent {
				assert.NotEmpty(t, allocation.Reason)
			}
		})
	}
}

func TestPriceAllocator_SumMatchesTotal(t *testing.T) {
	allocator := NewPriceAllocator(false)
	totals := []string{"0,01", "0,02", "1,00", "31,00", "99,99", "100,00", "1.234,57"}

	for _, total := range totals {
		for n := 1; n <= 7; n++ {
			items := make([]domain.LineItem, n)
			for i := range items {
				items[i] = unpriced(string(rune('A'+i)), "1")
			}

			allocation, err := allocator.Allocate(items, domain.ParseMoney(total))
			require.NoError(t, err)
			assert.True(t, allocation.Consistent)
			assert.True(t, lineTotal(t, allocation.Items).WithinEpsilon(domain.ParseMoney(total)),
				"total %s over %d items", total, n)
		}
	}
}

func TestPriceAllocator_Idempotent(t *testing.T) {
	allocator := NewPriceAllocator(false)
	total := domain.ParseMoney("€ 56,81")
	items := []domain.LineItem{priced("A", "€22,99", "1"), unpriced("B", "1"), unpriced("C", "2")}

	first, err := allocator.Allocate(items, total)
	require.NoError(t, err)
	second, err := allocator.Allocate(first.Items, total)
	require.NoError(t, err)

	assert.Equal(t, first.Items, second.Items)
	assert.True(t, second.Consistent)
}

func TestPriceAllocator_PreservesOrderAndInput(t *testing.T) {
	items := []domain.LineItem{unpriced("Z", "1"), priced("A", "€1,00", "1"), unpriced("M", "1")}

	allocation, err := NewPriceAllocator(true).Allocate(items, domain.ParseMoney("€ 3,00"))
	require.NoError(t, err)

	require.Len(t, allocation.Items, 3)
	assert.Equal(t, "Z", allocation.Items[0].Title)
	assert.Equal(t, "A", allocation.Items[1].Title)
	assert.Equal(t, "M", allocation.Items[2].Title)
	assert.False(t, items[0].HasPrice(), "input slice must not be modified")
}
