// Package money holds the numeric coercion and aggregation helpers shared by
// the ledger engine and its callers. Amounts are plain float64 values in the
// shop currency; persistence and display formatting are the caller's concern.
package money

import (
	"math"
	"strconv"
	"strings"
)

// Parse coerces a user-entered amount to a float64. Thousands separators are
// stripped; anything non-numeric parses as 0.
func Parse(value string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// SumBy aggregates a projected amount over a record collection.
func SumBy[T any](items []T, amount func(T) float64) float64 {
	total := 0.0
	for _, item := range items {
		total += amount(item)
	}
	return total
}

// Round2 rounds to two decimal places for display totals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
