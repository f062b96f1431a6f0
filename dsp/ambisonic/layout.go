package ambisonic

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ambisonic/dsp/core"
)

// Layout is an ordered set of channel azimuths, stored in [0, 2π).
// The zero value has no channels. Setters replace the backing slice, so a
// copied Layout never observes later changes.
type Layout struct {
	azimuths []float64
}

// NewRegularLayout returns n evenly spaced channels starting at the front.
func NewRegularLayout(n int) (Layout, error) {
	if n < 1 {
		return Layout{}, fmt.Errorf("%w: %d", ErrTooFewChannels, n)
	}
	az := make([]float64, n)
	for i := range az {
		az[i] = float64(i) * core.TwoPi / float64(n)
	}
	return Layout{azimuths: az}, nil
}

// NewLayout returns a layout with the given azimuths, in radians.
func NewLayout(azimuths []float64) (Layout, error) {
	if len(azimuths) < 1 {
		return Layout{}, fmt.Errorf("%w: 0", ErrTooFewChannels)
	}
	az, err := wrapAzimuths(azimuths)
	if err != nil {
		return Layout{}, err
	}
	return Layout{azimuths: az}, nil
}

// NumberOfChannels returns the channel count.
func (l Layout) NumberOfChannels() int {
	return len(l.azimuths)
}

// Azimuth returns the azimuth of channel index in [0, 2π).
func (l Layout) Azimuth(index int) float64 {
	l.checkIndex(index)
	return l.azimuths[index]
}

// Abscissa returns cos(Azimuth(index)).
func (l Layout) Abscissa(index int) float64 {
	return math.Cos(l.Azimuth(index))
}

// Ordinate returns sin(Azimuth(index)).
func (l Layout) Ordinate(index int) float64 {
	return math.Sin(l.Azimuth(index))
}

// Name returns "Channel <index+1> : <degrees>°". Degrees are rounded to the
// nearest integer, not truncated: the second channel of a six-channel ring,
// stored as 59.99999999999999°, is named "Channel 2 : 60°".
func (l Layout) Name(index int) string {
	deg := int(math.Round(core.Degrees(l.Azimuth(index)))) % 360
	return fmt.Sprintf("Channel %d : %d°", index+1, deg)
}

// Azimuths returns a copy of all azimuths.
func (l Layout) Azimuths() []float64 {
	return append([]float64(nil), l.azimuths...)
}

// WithAzimuth returns a copy of l with channel index moved to azimuth.
func (l Layout) WithAzimuth(index int, azimuth float64) (Layout, error) {
	if index < 0 || index >= len(l.azimuths) {
		return l, fmt.Errorf("%w: index %d, have %d", ErrChannelOutOfRange, index, len(l.azimuths))
	}
	if !core.IsFinite(azimuth) {
		return l, fmt.Errorf("%w: %v", ErrInvalidAzimuth, azimuth)
	}
	az := l.Azimuths()
	az[index] = core.WrapTwoPi(azimuth)
	return Layout{azimuths: az}, nil
}

// WithAzimuths returns a layout holding azimuths, which must have exactly
// NumberOfChannels() entries.
func (l Layout) WithAzimuths(azimuths []float64) (Layout, error) {
	if len(azimuths) != len(l.azimuths) {
		return l, fmt.Errorf("%w: %d azimuths for %d channels", ErrLengthMismatch, len(azimuths), len(l.azimuths))
	}
	az, err := wrapAzimuths(azimuths)
	if err != nil {
		return l, err
	}
	return Layout{azimuths: az}, nil
}

// smallestGap returns the smallest non-zero circular distance between two
// channels, or 2π when there is no such pair.
func (l Layout) smallestGap() float64 {
	gap := core.TwoPi
	for i, a := range l.azimuths {
		for _, b := range l.azimuths[i+1:] {
			if d := core.ClosestDistance(a, b); d > 0 && d < gap {
				gap = d
			}
		}
	}
	return gap
}

func (l Layout) checkIndex(index int) {
	if index < 0 || index >= len(l.azimuths) {
		panic(fmt.Errorf("%w: index %d, have %d", ErrChannelOutOfRange, index, len(l.azimuths)))
	}
}

func wrapAzimuths(azimuths []float64) ([]float64, error) {
	out := make([]float64, len(azimuths))
	for i, a := range azimuths {
		if !core.IsFinite(a) {
			return nil, fmt.Errorf("%w: channel %d: %v", ErrInvalidAzimuth, i, a)
		}
		out[i] = core.WrapTwoPi(a)
	}
	return out, nil
}

// SetAzimuth moves channel index to azimuth. On error l is unchanged.
func (l *Layout) SetAzimuth(index int, azimuth float64) error {
	next, err := l.WithAzimuth(index, azimuth)
	if err != nil {
		return err
	}
	*l = next
	return nil
}

// SetAzimuths replaces every azimuth. On error l is unchanged.
func (l *Layout) SetAzimuths(azimuths []float64) error {
	next, err := l.WithAzimuths(azimuths)
	if err != nil {
		return err
	}
	*l = next
	return nil
}
