package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// CircularField returns the harmonic coefficients of a plane wave from
// azimuth (radians) for the given order: [1, sin θ, cos θ, sin 2θ, cos 2θ, ...].
// It is computed with direct trigonometric calls so it can check the
// recurrence used by the encoder.
func CircularField(order int, azimuth, gain float64) []float64 {
	out := make([]float64, 2*order+1)
	out[0] = gain
	for k := 1; k <= order; k++ {
		out[2*k-1] = gain * math.Sin(float64(k)*azimuth)
		out[2*k] = gain * math.Cos(float64(k)*azimuth)
	}
	return out
}

// RotateField rotates harmonic coefficients (same ordering as CircularField)
// so that the represented field turns counterclockwise by angle.
func RotateField(h []float64, angle float64) []float64 {
	out := make([]float64, len(h))
	out[0] = h[0]
	for k := 1; 2*k < len(h); k++ {
		s, c := math.Sincos(float64(k) * angle)
		sinTerm, cosTerm := h[2*k-1], h[2*k]
		out[2*k-1] = sinTerm*c + cosTerm*s
		out[2*k] = cosTerm*c - sinTerm*s
	}
	return out
}
