package core

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// WrapTwoPi maps an angle in radians onto [0, 2π).
func WrapTwoPi(angle float64) float64 {
	a := math.Mod(angle, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod can return a value that rounds to 2π after the shift.
	if a >= TwoPi {
		a = 0
	}
	return a
}

// CounterclockwiseDistance returns the angle travelled counterclockwise
// from "from" to "to", in [0, 2π).
func CounterclockwiseDistance(from, to float64) float64 {
	return WrapTwoPi(to - from)
}

// ClosestDistance returns the shortest circular distance between two
// angles, in [0, π].
func ClosestDistance(a, b float64) float64 {
	d := CounterclockwiseDistance(a, b)
	if d > math.Pi {
		return TwoPi - d
	}
	return d
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
