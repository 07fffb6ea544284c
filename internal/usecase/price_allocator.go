package usecase

import (
	"fmt"
	"log"

	"github.com/orderledger/backend/internal/domain"
)

// Allocation is the outcome of distributing an order total over its items
type Allocation struct {
	Items     []domain.LineItem
	KnownSum  domain.Money
	Remaining domain.Money
	// Consistent is false when priced items alone do not reproduce the total
	// and there was no unpriced item to absorb the difference, or when the
	// known prices exceed the total.
	Consistent bool
	Reason     string
}

// PriceAllocator computes a price for every line item so that
// sum(price * qty) equals the order total
type PriceAllocator struct {
	enableDebugLogging bool
}

// NewPriceAllocator creates an allocator
func NewPriceAllocator(enableDebugLogging bool) *PriceAllocator {
	return &PriceAllocator{enableDebugLogging: enableDebugLogging}
}

// Allocate prices the items against orderTotal.
//
// Algorithm:
// 1. Sum price * qty over items that already carry a price
// 2. remaining = max(0, total - knownSum)
// 3. Every unpriced item but the last gets remaining / n truncated to cents
// 4. The last unpriced item absorbs whatever is left, so the sum is exact
//
// Unpriced items with qty > 1 get their share divided by qty. Output prices
// are canonical decimal strings ("22.99"); input order is preserved.
func (a *PriceAllocator) Allocate(items []domain.LineItem, orderTotal domain.Money) (Allocation, error) {
	result := Allocation{
		Items:      make([]domain.LineItem, len(items)),
		Consistent: true,
	}
	copy(result.Items, items)

	var unpriced []int
	knownSum := domain.Money{}
	for i, item := range result.Items {
		if !item.HasPrice() {
			unpriced = append(unpriced, i)
			continue
		}
		price := domain.ParseMoney(item.PriceString())
		line, err := price.MulQuantity(domain.ParseQuantity(item.Qty))
		if err != nil {
			return Allocation{}, err
		}
		if knownSum, err = knownSum.Add(line); err != nil {
			return Allocation{}, err
		}
		result.Items[i] = item.WithPrice(price.String())
	}
	result.KnownSum = knownSum

	remaining, err := orderTotal.Sub(knownSum)
	if err != nil {
		return Allocation{}, err
	}
	if remaining.Sign() < 0 {
		result.Consistent = false
		result.Reason = fmt.Sprintf("known prices %s exceed order total %s", knownSum, orderTotal)
		remaining = domain.Money{}
	}
	result.Remaining = remaining

	if len(unpriced) == 0 {
		if result.Consistent && !knownSum.WithinEpsilon(orderTotal) {
			result.Consistent = false
			result.Reason = fmt.Sprintf("known prices %s do not reproduce order total %s and no item is left to absorb the difference", knownSum, orderTotal)
		}
		return result, nil
	}

	share, err := remaining.QuoQuantity(int64(len(unpriced)))
	if err != nil {
		return Allocation{}, err
	}
	share = domain.NewMoney(share.Decimal().Trunc(domain.CurrencyScale))

	distributed := domain.Money{}
	for n, idx := range unpriced {
		item := result.Items[idx]
		qty := domain.ParseQuantity(item.Qty)

		lineShare := share
		if n == len(unpriced)-1 {
			if lineShare, err = remaining.Sub(distributed); err != nil {
				return Allocation{}, err
			}
		}

		unit, err := lineShare.QuoQuantity(qty)
		if err != nil {
			return Allocation{}, err
		}
		if n < len(unpriced)-1 {
			unit = domain.NewMoney(unit.Decimal().Trunc(domain.CurrencyScale))
		}

		line, err := unit.MulQuantity(qty)
		if err != nil {
			return Allocation{}, err
		}
		if distributed, err = distributed.Add(line); err != nil {
			return Allocation{}, err
		}

		result.Items[idx] = item.WithPrice(unit.String())
		if a.enableDebugLogging {
			log.Printf("[ALLOCATE] %q <- %s x %d", item.Title, unit, qty)
		}
	}

	return result, nil
}
