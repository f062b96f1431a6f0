package hrtf

import (
	"fmt"
	"math"
)

// FilterBank holds one left/right impulse-response pair per virtual
// loudspeaker. A bank is never mutated after a provider returns it.
type FilterBank struct {
	Key      Key
	Azimuths []float64
	Left     [][]float64
	Right    [][]float64
}

// Channels returns the number of virtual loudspeakers.
func (b *FilterBank) Channels() int {
	return len(b.Azimuths)
}

// Taps returns the longest impulse-response length in the bank.
func (b *FilterBank) Taps() int {
	n := 0
	for i := range b.Left {
		n = max(n, len(b.Left[i]), len(b.Right[i]))
	}
	return n
}

// Validate checks that the bank matches its key: one non-empty, finite pair
// per ring azimuth.
func (b *FilterBank) Validate() error {
	if err := b.Key.Validate(); err != nil {
		return err
	}
	want := RingSize(b.Key.Order)
	if len(b.Azimuths) != want || len(b.Left) != want || len(b.Right) != want {
		return fmt.Errorf("%w: %d azimuths, %d left, %d right responses, want %d",
			ErrInvalidFilterBank, len(b.Azimuths), len(b.Left), len(b.Right), want)
	}
	for i := range want {
		if len(b.Left[i]) == 0 || len(b.Right[i]) == 0 {
			return fmt.Errorf("%w: empty response for channel %d", ErrInvalidFilterBank, i)
		}
		for _, ir := range [][]float64{b.Left[i], b.Right[i]} {
			for _, v := range ir {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("%w: non-finite coefficient for channel %d", ErrInvalidFilterBank, i)
				}
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the bank.
func (b *FilterBank) Clone() *FilterBank {
	out := &FilterBank{
		Key:      b.Key,
		Azimuths: append([]float64(nil), b.Azimuths...),
		Left:     make([][]float64, len(b.Left)),
		Right:    make([][]float64, len(b.Right)),
	}
	for i := range b.Left {
		out.Left[i] = append([]float64(nil), b.Left[i]...)
	}
	for i := range b.Right {
		out.Right[i] = append([]float64(nil), b.Right[i]...)
	}
	return out
}

// Equal reports whether two banks are bit-identical.
func (b *FilterBank) Equal(o *FilterBank) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Key != o.Key || len(b.Azimuths) != len(o.Azimuths) ||
		len(b.Left) != len(o.Left) || len(b.Right) != len(o.Right) {
		return false
	}
	for i := range b.Azimuths {
		if math.Float64bits(b.Azimuths[i]) != math.Float64bits(o.Azimuths[i]) {
			return false
		}
	}
	return equalResponses(b.Left, o.Left) && equalResponses(b.Right, o.Right)
}

func equalResponses(a, b [][]float64) bool {
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if math.Float64bits(a[i][j]) != math.Float64bits(b[i][j]) {
				return false
			}
		}
	}
	return true
}
