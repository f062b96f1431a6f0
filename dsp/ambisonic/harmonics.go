package ambisonic

import "fmt"

// HarmonicCount returns the number of circular harmonics of order: 2*order+1.
func HarmonicCount(order int) int {
	return 2*order + 1
}

// Harmonics describes the harmonic set of a decomposition order.
// Decoders embed it, so its methods are available on every decoder.
type Harmonics struct {
	order int
}

// NewHarmonics returns the descriptor for order (>= 1).
func NewHarmonics(order int) (Harmonics, error) {
	if order < 1 {
		return Harmonics{}, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	return Harmonics{order: order}, nil
}

// Order returns the decomposition order.
func (h Harmonics) Order() int {
	return h.order
}

// NumberOfHarmonics returns 2*Order()+1.
func (h Harmonics) NumberOfHarmonics() int {
	return HarmonicCount(h.order)
}

// HarmonicOrder returns the signed order of the harmonic at index:
// 0, -1, 1, -2, 2, ...
func (h Harmonics) HarmonicOrder(index int) int {
	h.checkIndex(index)
	if index%2 == 1 {
		return -(index + 1) / 2
	}
	return index / 2
}

// HarmonicDegree returns |HarmonicOrder(index)|.
func (h Harmonics) HarmonicDegree(index int) int {
	h.checkIndex(index)
	return (index + 1) / 2
}

// HarmonicIndex returns the index of the harmonic with the given signed
// order; it is the inverse of HarmonicOrder.
func (h Harmonics) HarmonicIndex(order int) int {
	if order < -h.order || order > h.order {
		panic(fmt.Errorf("%w: order %d, decomposition order %d", ErrHarmonicOutOfRange, order, h.order))
	}
	if order < 0 {
		return -order*2 - 1
	}
	return order * 2
}

// HarmonicName returns "Harmonic <order>".
func (h Harmonics) HarmonicName(index int) string {
	return fmt.Sprintf("Harmonic %d", h.HarmonicOrder(index))
}

func (h Harmonics) checkIndex(index int) {
	if index < 0 || index >= h.NumberOfHarmonics() {
		panic(fmt.Errorf("%w: index %d, have %d", ErrHarmonicOutOfRange, index, h.NumberOfHarmonics()))
	}
}
