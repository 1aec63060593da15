package utils

import (
	"fmt"
	"math"
	"strconv"
)

// maxMinorUnits is 2^63 as a float64; anything at or above it does not fit
// in an int64.
const maxMinorUnits = float64(math.MaxInt64)

// ParseAmount parses a decimal amount as typed into the form.
func ParseAmount(amount string) (float64, error) {
	if amount == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	return value, nil
}

// ToMinorUnits converts a decimal amount to a positive integer count of
// cents. Amounts that round to zero or overflow int64 are rejected.
func ToMinorUnits(amount string) (int64, error) {
	value, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	cents := math.Round(value * 100)
	if cents <= 0 {
		return 0, fmt.Errorf("amount %q is below the smallest currency unit", amount)
	}
	if cents >= maxMinorUnits {
		return 0, fmt.Errorf("amount %q is too large", amount)
	}
	return int64(cents), nil
}
