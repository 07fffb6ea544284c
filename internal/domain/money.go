package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// CurrencyScale is the number of fractional digits of a currency unit
const CurrencyScale = 2

var (
	nonMoneyCharsRegex = regexp.MustCompile(`[^0-9,.\-]`)
	firstIntegerRegex  = regexp.MustCompile(`\d+`)

	// MoneyEpsilon is the tolerance for comparing allocated sums to totals
	MoneyEpsilon = decimal.MustNew(1, CurrencyScale)
)

// Money is a monetary amount parsed from a locale-formatted display string
type Money struct {
	amount decimal.Decimal
}

// NewMoney wraps a decimal amount
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d}
}

// ParseMoney extracts an amount from display strings such as "€ 56,81" or
// "EUR 1.234,50". Everything except digits, separators and minus is dropped.
// The right-most separator is the decimal mark; a lone comma is always one.
// Empty or non-numeric input parses to zero.
func ParseMoney(raw string) Money {
	cleaned := strings.Trim(nonMoneyCharsRegex.ReplaceAllString(raw, ""), ",.")
	if cleaned == "" {
		return Money{}
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma > lastDot:
		whole := strings.NewReplacer(".", "", ",", "").Replace(cleaned[:lastComma])
		cleaned = whole + "." + cleaned[lastComma+1:]
	case lastComma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.Parse(cleaned)
	if err != nil {
		return Money{}
	}
	return Money{amount: d}
}

// FirstInteger returns the first run of digits in labels such as "Aantal: 2"
func FirstInteger(raw string) string {
	return firstIntegerRegex.FindString(raw)
}

// ParseQuantity returns the first integer in raw, or 1 when there is none
// or it is not positive.
func ParseQuantity(raw string) int64 {
	match := FirstInteger(raw)
	if match == "" {
		return 1
	}
	q, err := strconv.ParseInt(match, 10, 64)
	if err != nil || q <= 0 {
		return 1
	}
	return q
}

// Decimal returns the underlying decimal amount
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Sign returns -1, 0 or 1
func (m Money) Sign() int {
	return m.amount.Sign()
}

// Cmp compares two amounts
func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

// Add returns m + o
func (m Money) Add(o Money) (Money, error) {
	d, err := m.amount.Add(o.amount)
	if err != nil {
		return Money{}, fmt.Errorf("adding %s and %s: %w", m, o, err)
	}
	return Money{amount: d}, nil
}

// Sub returns m - o
func (m Money) Sub(o Money) (Money, error) {
	d, err := m.amount.Sub(o.amount)
	if err != nil {
		return Money{}, fmt.Errorf("subtracting %s from %s: %w", o, m, err)
	}
	return Money{amount: d}, nil
}

// MulQuantity returns m * qty
func (m Money) MulQuantity(qty int64) (Money, error) {
	q, err := decimal.New(qty, 0)
	if err != nil {
		return Money{}, err
	}
	d, err := m.amount.Mul(q)
	if err != nil {
		return Money{}, fmt.Errorf("multiplying %s by %d: %w", m, qty, err)
	}
	return Money{amount: d}, nil
}

// QuoQuantity returns m / qty at full precision
func (m Money) QuoQuantity(qty int64) (Money, error) {
	q, err := decimal.New(qty, 0)
	if err != nil {
		return Money{}, err
	}
	d, err := m.amount.Quo(q)
	if err != nil {
		return Money{}, fmt.Errorf("dividing %s by %d: %w", m, qty, err)
	}
	return Money{amount: d}, nil
}

// Round rounds to the currency scale
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(CurrencyScale)}
}

// WithinEpsilon reports whether |m - o| <= MoneyEpsilon
func (m Money) WithinEpsilon(o Money) bool {
	diff, err := m.amount.Sub(o.amount)
	if err != nil {
		return false
	}
	return diff.Abs().Cmp(MoneyEpsilon) <= 0
}

// Float64 returns the nearest float64
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String renders at least two fractional digits without trailing noise,
// e.g. "22.99", "15.50", "10.3333333333333333".
func (m Money) String() string {
	return m.amount.Trim(CurrencyScale).Pad(CurrencyScale).String()
}

// MarshalJSON encodes the amount as a JSON number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a display string
func (m *Money) UnmarshalJSON(data []byte) error {
	*m = ParseMoney(strings.Trim(string(data), `"`))
	return nil
}
