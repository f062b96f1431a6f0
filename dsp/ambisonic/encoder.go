package ambisonic

import (
	"math"

	"github.com/cwbudde/algo-ambisonic/dsp/core"
)

// Encoder produces the circular-harmonic vector of a plane wave from one
// azimuth. The decoders use it to build their matrices.
type Encoder struct {
	Harmonics

	azimuth float64
	cos     float64
	sin     float64
}

// NewEncoder returns an encoder for order, pointing at the front.
func NewEncoder(order int) (*Encoder, error) {
	h, err := NewHarmonics(order)
	if err != nil {
		return nil, err
	}
	e := &Encoder{Harmonics: h}
	e.SetAzimuth(0)
	return e, nil
}

// SetAzimuth sets the encoding direction in radians.
func (e *Encoder) SetAzimuth(azimuth float64) {
	e.azimuth = core.WrapTwoPi(azimuth)
	e.sin, e.cos = math.Sincos(e.azimuth)
}

// Azimuth returns the encoding direction in [0, 2π).
func (e *Encoder) Azimuth() float64 {
	return e.azimuth
}

// Encode writes the unit harmonic vector into dst, which must hold at least
// NumberOfHarmonics() values: dst[0] = 1, dst[2k-1] = sin(kθ),
// dst[2k] = cos(kθ). Each order is rotated from the previous one, so only
// the sine and cosine stored by SetAzimuth are evaluated.
func (e *Encoder) Encode(dst []float64) {
	_ = dst[2*e.order]
	dst[0] = 1

	s, c := e.sin, e.cos
	for k := 1; k <= e.order; k++ {
		dst[2*k-1] = s
		dst[2*k] = c
		s, c = s*e.cos+c*e.sin, c*e.cos-s*e.sin
	}
}

// Process encodes one sample: dst = input * Encode().
func (e *Encoder) Process(input float64, dst []float64) {
	e.Encode(dst)
	for i := range e.NumberOfHarmonics() {
		dst[i] *= input
	}
}
