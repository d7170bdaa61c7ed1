package amount_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krispycake/solmint/amount"
	"github.com/krispycake/solmint/faults"
)

func TestToBaseUnitsRoundTrip(t *testing.T) {
	// Any positive amount representable exactly at precision d must survive
	// the round trip unchanged.
	samples := []int64{1, 7, 42, 999, 123456789, 1_000_000_000_000}
	for d := uint8(0); d <= 18; d++ {
		for _, n := range samples {
			display := decimal.New(n, -int32(d))
			base, err := amount.ToBaseUnits(display, d)
			require.NoError(t, err, "decimals=%d n=%d", d, n)
			assert.Equal(t, uint64(n), base, "decimals=%d n=%d", d, n)

			back := amount.ToDisplayUnits(base, d)
			assert.True(t, back.Equal(display), "decimals=%d n=%d got %s want %s", d, n, back, display)
		}
	}
}

func TestToBaseUnitsRejectsNonPositive(t *testing.T) {
	cases := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-1),
		decimal.RequireFromString("-0.000000001"),
	}
	for _, d := range cases {
		_, err := amount.ToBaseUnits(d, 9)
		require.Error(t, err, "input %s", d)
		assert.Equal(t, faults.ClassValidation, faults.ClassOf(err))
		assert.Equal(t, faults.CodeInvalidAmount, faults.CodeOf(err))
	}
}

func TestToBaseUnitsRoundsToNearest(t *testing.T) {
	base, err := amount.ToBaseUnits(decimal.RequireFromString("1.0000000005"), 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_001), base)

	base, err = amount.ToBaseUnits(decimal.RequireFromString("1.0000000004"), 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), base)
}

func TestToBaseUnitsRejectsSubUnitDust(t *testing.T) {
	// Rounds to zero at the asset's precision.
	_, err := amount.ToBaseUnits(decimal.RequireFromString("0.0004"), 3)
	require.Error(t, err)
	assert.Equal(t, faults.CodeInvalidAmount, faults.CodeOf(err))
}

func TestToBaseUnitsRejectsOverflow(t *testing.T) {
	huge := decimal.New(2, 19) // 2e19 > MaxUint64
	_, err := amount.ToBaseUnits(huge, 0)
	require.Error(t, err)
	assert.Equal(t, faults.CodeInvalidAmount, faults.CodeOf(err))
}

func TestParseDisplayAmount(t *testing.T) {
	d, err := amount.ParseDisplayAmount("12.5")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	for _, bad := range []string{"", "abc", "NaN", "Inf", "-Inf", "0", "-3"} {
		_, err := amount.ParseDisplayAmount(bad)
		require.Error(t, err, "input %q", bad)
		assert.Equal(t, faults.CodeInvalidAmount, faults.CodeOf(err), "input %q", bad)
	}
}

func TestFromFloatRejectsNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -1.5} {
		_, err := amount.FromFloat(bad)
		require.Error(t, err, fmt.Sprintf("input %v", bad))
		assert.Equal(t, faults.CodeInvalidAmount, faults.CodeOf(err))
	}

	d, err := amount.FromFloat(2.25)
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("2.25")))
}
