package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact monetary amount in a single currency. Amounts are kept
// as arbitrary-precision decimals; arithmetic that produces fractions of a
// minor unit is rounded half-up to two decimal places at well-defined points
// (Percent, SplitEven) so that sums over splits stay exact to the cent.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney creates a Money value from a decimal amount.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// NewMoneyFromString parses a decimal literal like "120.50".
func NewMoneyFromString(value, currency string) (Money, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}

	return Money{Amount: amount, Currency: currency}, nil
}

// NewMoneyFromCents creates a Money value from an integer number of minor units.
func NewMoneyFromCents(cents int64, currency string) Money {
	return Money{Amount: decimal.New(cents, -2), Currency: currency}
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

func (m Money) checkCurrency(other Money) error {
	if m.Currency != other.Currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return nil
}

// Add returns m + other. Fails if the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}

	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other. Fails if the currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}

	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	return Money{Amount: m.Amount.Abs(), Currency: m.Currency}
}

// MulInt returns m * n.
func (m Money) MulInt(n int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(n)), Currency: m.Currency}
}

// Percent returns percentage percent of m, rounded half-up to two decimals.
func (m Money) Percent(percentage decimal.Decimal) Money {
	amount := m.Amount.Mul(percentage).Div(decimal.NewFromInt(100)).Round(2)
	return Money{Amount: amount, Currency: m.Currency}
}

// SplitEven divides m into n parts that sum exactly to m. Each part is the
// floor of m/n in minor units; the remaining cents are handed out one by one
// to the first parts, so the caller's ordering decides who pays the extra
// cent. Parts differ from one another by at most one minor unit.
func (m Money) SplitEven(n int) ([]Money, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot divide among %d participants", ErrInvalidSplit, n)
	}

	cents := m.Amount.Round(2).Shift(2).IntPart()

	base := cents / int64(n)
	remainder := cents % int64(n)

	// For negative totals the remainder carries the sign of the dividend.
	step := int64(1)
	if remainder < 0 {
		step = -1
		remainder = -remainder
	}

	parts := make([]Money, n)
	for i := 0; i < n; i++ {
		c := base
		if int64(i) < remainder {
			c += step
		}

		parts[i] = NewMoneyFromCents(c, m.Currency)
	}

	return parts, nil
}

// Cents returns the amount in minor units, rounded half-up to two decimals.
func (m Money) Cents() int64 {
	return m.Amount.Round(2).Shift(2).IntPart()
}

// Equal reports whether amount and currency are both equal.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// Cmp compares amounts. Fails if the currencies differ.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.checkCurrency(other); err != nil {
		return 0, err
	}

	return m.Amount.Cmp(other.Amount), nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount.IsZero() }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// String formats the amount with two decimals and the currency code.
func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
