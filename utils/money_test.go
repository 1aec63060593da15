package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-form/utils"
)

func TestToMinorUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount string
		want   int64
	}{
		{"12.50", 1250},
		{"0.01", 1},
		{"19.999", 2000},
		{"100", 10000},
		{".5", 50},
	}

	for _, tt := range tests {
		got, err := utils.ToMinorUnits(tt.amount)
		require.NoError(t, err, tt.amount)
		assert.Equal(t, tt.want, got, tt.amount)
	}
}

func TestToMinorUnits_Invalid(t *testing.T) {
	t.Parallel()

	for _, amount := range []string{"", ".", "1.2.3", "NaN", "Inf", "0", "-5"} {
		_, err := utils.ToMinorUnits(amount)
		assert.Error(t, err, amount)
	}
}

func TestToMinorUnits_OutOfRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount string
	}{
		{"rounds to zero", "0.001"},
		{"just under half a cent", "0.0049"},
		{"overflows int64", "99999999999999999999"},
		{"exactly 2^63 cents", "92233720368547758.08"},
	}

	for _, tt := range tests {
		got, err := utils.ToMinorUnits(tt.amount)
		assert.Error(t, err, tt.name)
		assert.Zero(t, got, tt.name)
	}

	got, err := utils.ToMinorUnits("0.005")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
