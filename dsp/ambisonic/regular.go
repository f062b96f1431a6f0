package ambisonic

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-ambisonic/dsp/core"
)

// RegularT decodes to loudspeakers evenly spaced on a circle. The decoding
// matrix column of channel i is the plane-wave encoding of its azimuth plus
// the layout offset, divided by the channel count, so an omnidirectional
// field of unit gain reaches every loudspeaker at 1/N.
//
// The type parameter F selects precision.
type RegularT[F algofft.Float] struct {
	Harmonics

	layout Layout
	offset float64

	matrix  []F // [channel*harmonics + harmonic]
	scratch []F
}

// Regular is the float64 specialization of RegularT.
type Regular = RegularT[float64]

// Regular32 is the float32 specialization of RegularT.
type Regular32 = RegularT[float32]

// NewRegularT creates a regular decoder with channels >= 2*order+1
// loudspeakers. WithOffset is the only option it honours.
func NewRegularT[F algofft.Float](order, channels int, opts ...Option) (*RegularT[F], error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return newRegular[F](order, channels, cfg.offset)
}

// NewRegular creates a float64 regular decoder.
func NewRegular(order, channels int, opts ...Option) (*Regular, error) {
	return NewRegularT[float64](order, channels, opts...)
}

// NewRegular32 creates a float32 regular decoder.
func NewRegular32(order, channels int, opts ...Option) (*Regular32, error) {
	return NewRegularT[float32](order, channels, opts...)
}

func newRegular[F algofft.Float](order, channels int, offset float64) (*RegularT[F], error) {
	h, err := NewHarmonics(order)
	if err != nil {
		return nil, err
	}
	d := &RegularT[F]{
		Harmonics: h,
		scratch:   make([]F, h.NumberOfHarmonics()),
	}
	if err := d.rebuild(channels, offset); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *RegularT[F]) rebuild(channels int, offset float64) error {
	if channels < d.NumberOfHarmonics() {
		return fmt.Errorf("%w: %d channels for order %d, need at least %d",
			ErrTooFewChannels, channels, d.order, d.NumberOfHarmonics())
	}
	layout, err := NewRegularLayout(channels)
	if err != nil {
		return err
	}
	matrix, err := encodeMatrix[F](d.order, layout, offset)
	if err != nil {
		return err
	}
	d.layout = layout
	d.offset = offset
	d.matrix = matrix
	return nil
}

// encodeMatrix returns the channel-major matrix whose row i is the encoding
// of layout azimuth i plus offset, scaled by 1/N.
func encodeMatrix[F algofft.Float](order int, layout Layout, offset float64) ([]F, error) {
	enc, err := NewEncoder(order)
	if err != nil {
		return nil, err
	}
	nh := enc.NumberOfHarmonics()
	n := layout.NumberOfChannels()
	gain := 1 / float64(n)

	vec := make([]float64, nh)
	matrix := make([]F, n*nh)
	for i := range n {
		enc.SetAzimuth(layout.Azimuth(i) + offset)
		enc.Encode(vec)
		row := matrix[i*nh : (i+1)*nh]
		for j, v := range vec {
			row[j] = F(v * gain)
		}
	}
	return matrix, nil
}

// NumberOfChannels returns the loudspeaker count.
func (d *RegularT[F]) NumberOfChannels() int {
	return d.layout.NumberOfChannels()
}

// SetNumberOfChannels rebuilds the decoder for n evenly spaced
// loudspeakers. n must be at least 2*order+1.
func (d *RegularT[F]) SetNumberOfChannels(n int) error {
	return d.rebuild(n, d.offset)
}

// ChannelsOffset returns the layout rotation in [0, 2π).
func (d *RegularT[F]) ChannelsOffset() float64 {
	return d.offset
}

// SetChannelsOffset rotates the whole layout and rebuilds the matrix.
func (d *RegularT[F]) SetChannelsOffset(offset float64) error {
	if !core.IsFinite(offset) {
		return fmt.Errorf("%w: offset %v", ErrInvalidAzimuth, offset)
	}
	return d.rebuild(d.NumberOfChannels(), core.WrapTwoPi(offset))
}

// ChannelAzimuth returns the azimuth of channel index, not including the
// offset.
func (d *RegularT[F]) ChannelAzimuth(index int) float64 {
	return d.layout.Azimuth(index)
}

// ChannelAbscissa returns cos(ChannelAzimuth(index)).
func (d *RegularT[F]) ChannelAbscissa(index int) float64 {
	return d.layout.Abscissa(index)
}

// ChannelOrdinate returns sin(ChannelAzimuth(index)).
func (d *RegularT[F]) ChannelOrdinate(index int) float64 {
	return d.layout.Ordinate(index)
}

// ChannelName returns "Channel <index+1> : <degrees>°".
func (d *RegularT[F]) ChannelName(index int) string {
	return d.layout.Name(index)
}

// Layout returns the loudspeaker layout.
func (d *RegularT[F]) Layout() Layout {
	return d.layout
}

// Matrix returns a copy of the decoding coefficients as [channel][harmonic].
func (d *RegularT[F]) Matrix() [][]float64 {
	nh := d.NumberOfHarmonics()
	out := make([][]float64, d.NumberOfChannels())
	for i := range out {
		out[i] = make([]float64, nh)
		core.Convert(out[i], d.matrix[i*nh:(i+1)*nh])
	}
	return out
}

// Process decodes one frame. in holds NumberOfHarmonics() coefficients and
// out receives NumberOfChannels() samples. in and out may share memory.
func (d *RegularT[F]) Process(in, out []F) {
	nh := len(d.scratch)
	copy(d.scratch, in[:nh])
	d.decode(out[:d.NumberOfChannels()])
}

// decode writes the decoding of d.scratch into out.
func (d *RegularT[F]) decode(out []F) {
	nh := len(d.scratch)
	for i := range out {
		row := d.matrix[i*nh : (i+1)*nh]
		var sum F
		for j, c := range row {
			sum += c * d.scratch[j]
		}
		out[i] = sum
	}
}

// ProcessBlock decodes planar buffers in[harmonic][n] into out[channel][n].
func (d *RegularT[F]) ProcessBlock(in, out [][]F) error {
	n, err := checkPlanar(in, out, d.NumberOfHarmonics(), d.NumberOfChannels())
	if err != nil {
		return err
	}
	nh := len(d.scratch)
	nc := d.NumberOfChannels()
	for s := range n {
		for j := range nh {
			d.scratch[j] = in[j][s]
		}
		for i := range nc {
			row := d.matrix[i*nh : (i+1)*nh]
			var sum F
			for j, c := range row {
				sum += c * d.scratch[j]
			}
			out[i][s] = sum
		}
	}
	return nil
}
