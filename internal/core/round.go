package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round scales v by 10^places, rounds the binary result half to even and
// scales back, matching numpy's round. 2.675 becomes 2.67 because its float
// value sits just below the tie, and 0.125 becomes 0.12.
func Round(v float64, places int32) float64 {
	pow := math.Pow(10, float64(places))
	return math.RoundToEven(v*pow) / pow
}

// SumRounded adds already-rounded figures in decimal arithmetic, so the total
// carries no binary floating point residue and needs no further rounding.
func SumRounded(values []float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}
