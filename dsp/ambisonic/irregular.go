package ambisonic

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-ambisonic/dsp/core"
)

// MaxVirtualChannels bounds the virtual ring of an irregular decoder.
const MaxVirtualChannels = 720

// pairSnap is the fraction of a virtual step under which a physical channel
// counts as coinciding with a virtual one.
const pairSnap = 1e-9

// NearestPair links a physical channel to the two virtual channels that
// bracket it. LowWeight + HighWeight = 1 and both are in [0, 1].
type NearestPair struct {
	Low        int
	High       int
	LowWeight  float64
	HighWeight float64
}

// IrregularT decodes to loudspeakers at arbitrary azimuths. The field is
// first decoded to a dense, evenly spaced virtual ring; each physical
// channel then mixes its two nearest virtual channels with inverse-distance
// weights. The output is scaled by V/N so that an omnidirectional field
// reaches every loudspeaker at 1/N, like RegularT.
type IrregularT[F algofft.Float] struct {
	Harmonics

	layout Layout
	offset float64

	virtual *RegularT[F]
	pairs   []NearestPair
	gain    float64

	low, high []F // per-channel weights, gain included
	vout      []F
}

// Irregular is the float64 specialization of IrregularT.
type Irregular = IrregularT[float64]

// Irregular32 is the float32 specialization of IrregularT.
type Irregular32 = IrregularT[float32]

// NewIrregularT creates an irregular decoder for channels (>= 1)
// loudspeakers, evenly spaced unless WithAzimuths is given. WithAzimuths
// must then hold exactly channels values.
func NewIrregularT[F algofft.Float](order, channels int, opts ...Option) (*IrregularT[F], error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if cfg.azimuths != nil && len(cfg.azimuths) != channels {
		return nil, fmt.Errorf("%w: %d azimuths for %d channels", ErrLengthMismatch, len(cfg.azimuths), channels)
	}
	return newIrregular[F](order, channels, cfg)
}

// NewIrregular creates a float64 irregular decoder.
func NewIrregular(order, channels int, opts ...Option) (*Irregular, error) {
	return NewIrregularT[float64](order, channels, opts...)
}

// NewIrregular32 creates a float32 irregular decoder.
func NewIrregular32(order, channels int, opts ...Option) (*Irregular32, error) {
	return NewIrregularT[float32](order, channels, opts...)
}

func newIrregular[F algofft.Float](order, channels int, cfg config) (*IrregularT[F], error) {
	h, err := NewHarmonics(order)
	if err != nil {
		return nil, err
	}
	var layout Layout
	if cfg.azimuths != nil {
		layout, err = NewLayout(cfg.azimuths)
	} else {
		layout, err = NewRegularLayout(channels)
	}
	if err != nil {
		return nil, err
	}

	d := &IrregularT[F]{Harmonics: h}
	if err := d.rebuild(layout, cfg.offset); err != nil {
		return nil, err
	}
	return d, nil
}

// VirtualChannelCount returns the size of the virtual ring used for layout
// at the given order: the smallest multiple of 2*order+1 whose spacing is
// at most half the smallest gap between two loudspeakers, capped at
// MaxVirtualChannels (rounded down to a multiple of 2*order+1).
//
// When the cap applies, the ring spacing is about 0.5° or more, so two
// loudspeakers closer than about 1° may fall between the same pair of
// virtual channels and receive nearly identical signals. Coincident
// azimuths do not count as a gap.
func VirtualChannelCount(order int, layout Layout) int {
	nh := HarmonicCount(order)
	limit := max(MaxVirtualChannels/nh*nh, nh)

	gap := layout.smallestGap()
	k := int(math.Ceil(2*core.TwoPi/(gap*float64(nh)) - pairSnap))
	k = max(k, 1)
	if k > limit/nh {
		return limit
	}
	return k * nh
}

// rebuild computes every derived quantity for layout and offset, then
// swaps them in. d is untouched on error.
func (d *IrregularT[F]) rebuild(layout Layout, offset float64) error {
	nv := VirtualChannelCount(d.order, layout)

	virtual := d.virtual
	if virtual == nil || virtual.NumberOfChannels() != nv || virtual.ChannelsOffset() != offset {
		var err error
		virtual, err = newRegular[F](d.order, nv, offset)
		if err != nil {
			return err
		}
	}

	n := layout.NumberOfChannels()
	gain := float64(nv) / float64(n)
	pairs := make([]NearestPair, n)
	low := make([]F, n)
	high := make([]F, n)
	for i := range n {
		p := nearestPair(layout.Azimuth(i), nv)
		pairs[i] = p
		low[i] = F(p.LowWeight * gain)
		high[i] = F(p.HighWeight * gain)
	}

	d.layout = layout
	d.offset = offset
	d.virtual = virtual
	d.pairs = pairs
	d.gain = gain
	d.low = low
	d.high = high
	d.vout = core.EnsureLen(d.vout, nv)
	return nil
}

// nearestPair brackets azimuth between two virtual channels of a ring of nv.
// The offset rotates the physical and virtual channels alike, so it cancels.
func nearestPair(azimuth float64, nv int) NearestPair {
	t := core.WrapTwoPi(azimuth) * float64(nv) / core.TwoPi
	lo := math.Floor(t)
	frac := t - lo

	switch {
	case frac < pairSnap:
		frac = 0
	case frac > 1-pairSnap:
		lo++
		frac = 0
	}

	low := int(lo) % nv
	return NearestPair{
		Low:        low,
		High:       (low + 1) % nv,
		LowWeight:  1 - frac,
		HighWeight: frac,
	}
}

// NumberOfChannels returns the loudspeaker count.
func (d *IrregularT[F]) NumberOfChannels() int {
	return d.layout.NumberOfChannels()
}

// SetNumberOfChannels resets the layout to n evenly spaced loudspeakers.
func (d *IrregularT[F]) SetNumberOfChannels(n int) error {
	layout, err := NewRegularLayout(n)
	if err != nil {
		return err
	}
	return d.rebuild(layout, d.offset)
}

// NumberOfVirtualChannels returns the size of the virtual ring.
func (d *IrregularT[F]) NumberOfVirtualChannels() int {
	return d.virtual.NumberOfChannels()
}

// VirtualAzimuth returns the azimuth of virtual channel index, not including
// the offset.
func (d *IrregularT[F]) VirtualAzimuth(index int) float64 {
	return d.virtual.ChannelAzimuth(index)
}

// ChannelPair returns the virtual pair feeding physical channel index.
func (d *IrregularT[F]) ChannelPair(index int) NearestPair {
	d.layout.checkIndex(index)
	return d.pairs[index]
}

// PairFor returns the virtual pair a loudspeaker at azimuth would use with
// the current virtual ring.
func (d *IrregularT[F]) PairFor(azimuth float64) NearestPair {
	return nearestPair(azimuth, d.NumberOfVirtualChannels())
}

// OutputGain returns V/N, the factor applied after blending.
func (d *IrregularT[F]) OutputGain() float64 {
	return d.gain
}

// ChannelsOffset returns the layout rotation in [0, 2π).
func (d *IrregularT[F]) ChannelsOffset() float64 {
	return d.offset
}

// SetChannelsOffset rotates the physical and virtual layouts together.
func (d *IrregularT[F]) SetChannelsOffset(offset float64) error {
	if !core.IsFinite(offset) {
		return fmt.Errorf("%w: offset %v", ErrInvalidAzimuth, offset)
	}
	return d.rebuild(d.layout, core.WrapTwoPi(offset))
}

// SetChannelAzimuth moves one loudspeaker. The virtual ring is resized if the
// smallest gap changes.
func (d *IrregularT[F]) SetChannelAzimuth(index int, azimuth float64) error {
	layout, err := d.layout.WithAzimuth(index, azimuth)
	if err != nil {
		return err
	}
	return d.rebuild(layout, d.offset)
}

// SetChannelsAzimuth moves every loudspeaker at once. azimuths must hold
// NumberOfChannels() values.
func (d *IrregularT[F]) SetChannelsAzimuth(azimuths []float64) error {
	layout, err := d.layout.WithAzimuths(azimuths)
	if err != nil {
		return err
	}
	return d.rebuild(layout, d.offset)
}

// ChannelAzimuth returns the azimuth of channel index, not including the
// offset.
func (d *IrregularT[F]) ChannelAzimuth(index int) float64 {
	return d.layout.Azimuth(index)
}

// ChannelAbscissa returns cos(ChannelAzimuth(index)).
func (d *IrregularT[F]) ChannelAbscissa(index int) float64 {
	return d.layout.Abscissa(index)
}

// ChannelOrdinate returns sin(ChannelAzimuth(index)).
func (d *IrregularT[F]) ChannelOrdinate(index int) float64 {
	return d.layout.Ordinate(index)
}

// ChannelName returns "Channel <index+1> : <degrees>°".
func (d *IrregularT[F]) ChannelName(index int) string {
	return d.layout.Name(index)
}

// Layout returns the loudspeaker layout.
func (d *IrregularT[F]) Layout() Layout {
	return d.layout
}

// Process decodes one frame. in and out may share memory.
func (d *IrregularT[F]) Process(in, out []F) {
	d.virtual.Process(in, d.vout)
	d.blend(out)
}

func (d *IrregularT[F]) blend(out []F) {
	for i, p := range d.pairs {
		out[i] = d.low[i]*d.vout[p.Low] + d.high[i]*d.vout[p.High]
	}
}

// ProcessBlock decodes planar buffers in[harmonic][n] into out[channel][n].
func (d *IrregularT[F]) ProcessBlock(in, out [][]F) error {
	n, err := checkPlanar(in, out, d.NumberOfHarmonics(), d.NumberOfChannels())
	if err != nil {
		return err
	}
	v := d.virtual
	for s := range n {
		for j := range v.scratch {
			v.scratch[j] = in[j][s]
		}
		v.decode(d.vout)
		for i, p := range d.pairs {
			out[i][s] = d.low[i]*d.vout[p.Low] + d.high[i]*d.vout[p.High]
		}
	}
	return nil
}
