package swapform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ape-swap/pkg/types"
)

func TestNewStartsAtZero(t *testing.T) {
	f := New(decimal.NewFromInt(4))
	assert.Equal(t, types.FormState{SourceAmount: "0", TargetAmount: "0"}, f.State())
}

func TestSetDerivesPairedField(t *testing.T) {
	tests := []struct {
		field      Field
		value      string
		wantSource string
		wantTarget string
	}{
		{Source, "10", "10", "2.5"},
		{Source, "1", "1", "0.25"},
		{Source, "0.004", "0.004", "0.001"},
		{Source, " 8 ", " 8 ", "2"},
		{Target, "2.5", "10", "2.5"},
		{Target, "3", "12", "3"},
		{Target, "0.1", "0.4", "0.1"},
	}

	for _, tt := range tests {
		t.Run(string(tt.field)+"="+tt.value, func(t *testing.T) {
			f := New(decimal.NewFromInt(4))
			require.NoError(t, f.Set(tt.field, tt.value))

			state := f.State()
			assert.Equal(t, tt.wantSource, state.SourceAmount)
			assert.Equal(t, tt.wantTarget, state.TargetAmount)
		})
	}
}

func TestSetNonNumericCoercesToZero(t *testing.T) {
	for _, value := range []string{"", "abc", "1.2.3", "NaN"} {
		f := New(decimal.NewFromInt(4))

		require.NoError(t, f.Set(Source, value))
		assert.Equal(t, value, f.State().SourceAmount)
		assert.Equal(t, "0", f.State().TargetAmount)
		assert.True(t, ParseAmount(f.State().SourceAmount).IsZero())

		require.NoError(t, f.Set(Target, value))
		assert.Equal(t, "0", f.State().SourceAmount)
	}
}

func TestRoundTrip(t *testing.T) {
	rates := []decimal.Decimal{decimal.NewFromInt(4), decimal.NewFromInt(3), decimal.RequireFromString("2.5")}
	values := []string{"1", "10", "0.3", "12345.6789", "7"}

	for _, rate := range rates {
		for _, value := range values {
			f := New(rate)
			require.NoError(t, f.Set(Source, value))
			require.NoError(t, f.Set(Target, f.State().TargetAmount))

			got := ParseAmount(f.State().SourceAmount)
			want := ParseAmount(value)
			diff := got.Sub(want).Abs()
			assert.True(t, diff.LessThan(decimal.RequireFromString("0.000000001")),
				"rate %s value %s round-tripped to %s", rate, value, got)
		}
	}
}

func TestSetUnknownField(t *testing.T) {
	f := New(decimal.NewFromInt(4))
	require.Error(t, f.Set(Field("busdAmount"), "1"))
	assert.Equal(t, "0", f.State().SourceAmount)
}

func TestParseField(t *testing.T) {
	field, err := ParseField("busd", "BUSD", "APE")
	require.NoError(t, err)
	assert.Equal(t, Source, field)

	field, err = ParseField("APE", "BUSD", "APE")
	require.NoError(t, err)
	assert.Equal(t, Target, field)

	field, err = ParseField("target", "BUSD", "APE")
	require.NoError(t, err)
	assert.Equal(t, Target, field)

	_, err = ParseField("ETH", "BUSD", "APE")
	require.Error(t, err)
}

func TestParseAmountRejectsOutOfRangeValues(t *testing.T) {
	for _, value := range []string{"1e300000000", "1e-300000000", "-1e2147483647", "1e78"} {
		t.Run(value, func(t *testing.T) {
			assert.True(t, ParseAmount(value).IsZero())

			f := New(decimal.NewFromInt(4))
			require.NoError(t, f.Set(Source, value))
			assert.Equal(t, "0", f.State().TargetAmount)

			require.NoError(t, f.Set(Target, value))
			assert.Equal(t, "0", f.State().SourceAmount)
		})
	}

	assert.True(t, ParseAmount("1e77").Equal(decimal.New(1, 77)))
	assert.True(t, ParseAmount("0.5e-10").IsPositive())
}
