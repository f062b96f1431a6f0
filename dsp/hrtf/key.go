package hrtf

import (
	"fmt"
	"math"
	"strings"
)

// Pinna selects the outer-ear profile of a response set.
type Pinna int

const (
	// Small is the small pinna profile.
	Small Pinna = iota
	// Large is the large pinna profile.
	Large
)

// String returns the lower-case profile name.
func (p Pinna) String() string {
	switch p {
	case Small:
		return "small"
	case Large:
		return "large"
	default:
		return fmt.Sprintf("pinna(%d)", int(p))
	}
}

// Valid reports whether p is a known profile.
func (p Pinna) Valid() bool {
	return p == Small || p == Large
}

// ParsePinna converts "small" or "large" (any case) to a Pinna.
func ParsePinna(s string) (Pinna, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return Small, nil
	case "large":
		return Large, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPinna, s)
	}
}

// SupportedSampleRates lists the sample rates every provider accepts.
var SupportedSampleRates = []int{44100, 48000, 88200, 96000}

// ValidateSampleRate returns ErrUnsupportedSampleRate unless rate is one of
// SupportedSampleRates.
func ValidateSampleRate(rate int) error {
	for _, r := range SupportedSampleRates {
		if r == rate {
			return nil
		}
	}
	return fmt.Errorf("%w: %d Hz", ErrUnsupportedSampleRate, rate)
}

// Key identifies a filter bank.
type Key struct {
	Order      int
	Pinna      Pinna
	SampleRate int
}

// Validate checks every field of the key.
func (k Key) Validate() error {
	if k.Order < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, k.Order)
	}
	if !k.Pinna.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPinna, int(k.Pinna))
	}
	return ValidateSampleRate(k.SampleRate)
}

// String formats the key as "order/pinna/rate".
func (k Key) String() string {
	return fmt.Sprintf("%d/%s/%d", k.Order, k.Pinna, k.SampleRate)
}

// RingSize returns the number of virtual loudspeakers used to render the
// given order binaurally.
func RingSize(order int) int {
	return 2*order + 2
}

// RingAzimuths returns the evenly spaced virtual loudspeaker azimuths for
// order, starting at the front and turning counterclockwise.
func RingAzimuths(order int) []float64 {
	n := RingSize(order)
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * 2 * math.Pi / float64(n)
	}
	return out
}
