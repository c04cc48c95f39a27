// Package money implements an exact currency amount stored in minor units.
//
// All arithmetic on prices, payments and balances goes through Money so that
// repeated recomputation never accumulates binary floating point error.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places kept for every amount.
const Scale = 2

// Money is a signed currency amount held as an integer count of minor units.
type Money struct {
	minor int64
}

// Zero is the zero amount.
var Zero = Money{}

// ErrOverflow is returned when an amount does not fit in the minor-unit range.
var ErrOverflow = errors.New("money: amount out of range")

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// ParseError is returned when a value cannot be read as an amount.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid amount %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("invalid amount %q", e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FromMinor builds an amount from minor units (cents).
func FromMinor(minor int64) Money {
	return Money{minor: minor}
}

// FromDecimal rounds d half-to-even to the minor unit. It returns
// ErrOverflow when the rounded value is outside the int64 range.
func FromDecimal(d decimal.Decimal) (Money, error) {
	return fromMinorDecimal(d.RoundBank(Scale).Shift(Scale))
}

func fromMinorDecimal(minor decimal.Decimal) (Money, error) {
	if minor.LessThan(minMinor) || minor.GreaterThan(maxMinor) {
		return Zero, ErrOverflow
	}
	return Money{minor: minor.IntPart()}, nil
}

// Parse reads a decimal string such as "45.50" or "-3".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, &ParseError{Input: s}
	}
	m, err := FromDecimal(d)
	if err != nil {
		return Zero, &ParseError{Input: s, Err: err}
	}
	return m, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Sum adds all amounts.
func Sum(amounts ...Money) (Money, error) {
	var total Money
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Zero, err
		}
	}
	return total, nil
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 {
	return m.minor
}

// Decimal returns the amount as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -Scale)
}

// Add returns m + o, or ErrOverflow when the sum leaves the int64 range.
func (m Money) Add(o Money) (Money, error) {
	sum := m.minor + o.minor
	if (o.minor > 0 && sum < m.minor) || (o.minor < 0 && sum > m.minor) {
		return Zero, ErrOverflow
	}
	return Money{minor: sum}, nil
}

// Sub returns m - o, or ErrOverflow when the difference leaves the int64 range.
func (m Money) Sub(o Money) (Money, error) {
	diff := m.minor - o.minor
	if (o.minor > 0 && diff > m.minor) || (o.minor < 0 && diff < m.minor) {
		return Zero, ErrOverflow
	}
	return Money{minor: diff}, nil
}

// MulQuantity multiplies by a decimal quantity and rounds half-to-even.
func (m Money) MulQuantity(q decimal.Decimal) (Money, error) {
	return FromDecimal(m.Decimal().Mul(q))
}

// Cmp returns -1, 0 or 1.
func (m Money) Cmp(o Money) int {
	switch {
	case m.minor < o.minor:
		return -1
	case m.minor > o.minor:
		return 1
	}
	return 0
}

func (m Money) Equal(o Money) bool {
	return m.minor == o.minor
}

func (m Money) IsNegative() bool {
	return m.minor < 0
}

func (m Money) IsZero() bool {
	return m.minor == 0
}

// String formats the amount with exactly Scale decimals, e.g. "455.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(Scale)
}

// MarshalJSON writes the amount as a JSON number with fixed decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the amount as an integer column of minor units.
func (m Money) Value() (driver.Value, error) {
	return m.minor, nil
}

// Scan reads an integer column of minor units.
func (m *Money) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = Zero
	case int64:
		*m = Money{minor: v}
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	case float64:
		scanned, err := fromMinorDecimal(decimal.NewFromFloat(v).Round(0))
		if err != nil {
			return err
		}
		*m = scanned
	default:
		return fmt.Errorf("money: cannot scan %T", value)
	}
	return nil
}

func (m *Money) scanString(s string) error {
	minor, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return &ParseError{Input: s}
	}
	*m = Money{minor: minor}
	return nil
}
