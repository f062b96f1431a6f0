package core

import "math"

// LinearToDB returns the level of an amplitude in decibels, 20*log10(|a|).
// Silence maps to -Inf.
func LinearToDB(amplitude float64) float64 {
	return 20 * math.Log10(math.Abs(amplitude))
}
