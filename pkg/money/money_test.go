package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in    string
		minor int64
	}{
		{"45.50", 4550},
		{"455", 45500},
		{"-55", -5500},
		{" 0.01 ", 1},
		{"1.005", 100},
		{"1.015", 102},
	}
	for _, tc := range cases {
		m, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.minor, m.Minor(), tc.in)
	}

	_, err := Parse("abc")
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestArithmetic(t *testing.T) {
	a := MustParse("1000")
	b := MustParse("500")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "1500.00", sum.String())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, "-500.00", diff.String())
	assert.True(t, diff.IsNegative())

	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(MustParse("1000.00")))

	total, err := Sum(MustParse("0.10"), MustParse("0.20"))
	require.NoError(t, err)
	assert.True(t, total.Equal(MustParse("0.30")))
	empty, err := Sum()
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func mul(t *testing.T, price, qty string) string {
	t.Helper()
	got, err := MustParse(price).MulQuantity(decimal.RequireFromString(qty))
	require.NoError(t, err)
	return got.String()
}

func TestMulQuantity(t *testing.T) {
	assert.Equal(t, "455.00", mul(t, "45.50", "10"))

	// 0.125 rounds to even, 0.135 rounds up
	assert.Equal(t, "0.12", mul(t, "0.25", "0.5"))
	assert.Equal(t, "0.14", mul(t, "0.27", "0.5"))

	assert.Equal(t, "3.33", mul(t, "10", "0.333"))
}

func TestMulQuantityIsStableAcrossRepeats(t *testing.T) {
	first := mul(t, "19.99", "3.337")
	for i := 0; i < 1000; i++ {
		require.Equal(t, first, mul(t, "19.99", "3.337"))
	}
}

func TestOverflow(t *testing.T) {
	largest := FromMinor(math.MaxInt64)
	smallest := FromMinor(math.MinInt64)
	cent := FromMinor(1)

	t.Run("parse rejects values outside the range", func(t *testing.T) {
		m, err := Parse("92233720368547758.07")
		require.NoError(t, err)
		assert.True(t, m.Equal(largest))

		for _, in := range []string{"92233720368547758.08", "184467440737095516.16", "-92233720368547758.09"} {
			_, err := Parse(in)
			var perr *ParseError
			require.ErrorAs(t, err, &perr, in)
			assert.ErrorIs(t, err, ErrOverflow, in)
		}
	})

	t.Run("add and sub", func(t *testing.T) {
		_, err := largest.Add(cent)
		assert.ErrorIs(t, err, ErrOverflow)
		_, err = smallest.Sub(cent)
		assert.ErrorIs(t, err, ErrOverflow)
		_, err = smallest.Add(FromMinor(-1))
		assert.ErrorIs(t, err, ErrOverflow)
		_, err = largest.Sub(FromMinor(-1))
		assert.ErrorIs(t, err, ErrOverflow)

		got, err := largest.Sub(cent)
		require.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64-1), got.Minor())
		_, err = Sum(largest, cent)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("mul quantity", func(t *testing.T) {
		_, err := MustParse("1000000000000000").MulQuantity(decimal.NewFromInt(1000))
		assert.ErrorIs(t, err, ErrOverflow)
		assert.Equal(t, "1000000000000000.00", mul(t, "1000000000000", "1000"))
	})

	t.Run("json", func(t *testing.T) {
		var payload struct {
			A Money `json:"a"`
		}
		err := json.Unmarshal([]byte(`{"a": 184467440737095516.16}`), &payload)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestJSON(t *testing.T) {
	var payload struct {
		A Money `json:"a"`
		B Money `json:"b"`
		C Money `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 45.5, "b": "12.30", "c": null}`), &payload))
	assert.Equal(t, int64(4550), payload.A.Minor())
	assert.Equal(t, int64(1230), payload.B.Minor())
	assert.True(t, payload.C.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 45.50, "b": 12.30, "c": 0.00}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a": "ten"}`), &payload))
}

func TestScanValue(t *testing.T) {
	m := MustParse("-12.34")
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(-1234), v)

	var scanned Money
	require.NoError(t, scanned.Scan(int64(-1234)))
	assert.True(t, scanned.Equal(m))
	require.NoError(t, scanned.Scan([]byte("99")))
	assert.Equal(t, "0.99", scanned.String())
	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())
	assert.Error(t, scanned.Scan(true))
}
