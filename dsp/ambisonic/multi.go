package ambisonic

import (
	"fmt"
	"strings"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-ambisonic/dsp/hrtf"
)

// Mode selects the decoder a MultiT dispatches to.
type Mode int

const (
	// ModeRegular decodes to evenly spaced loudspeakers.
	ModeRegular Mode = iota
	// ModeIrregular decodes to loudspeakers at arbitrary azimuths.
	ModeIrregular
	// ModeBinaural decodes to headphones.
	ModeBinaural
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeRegular:
		return "regular"
	case ModeIrregular:
		return "irregular"
	case ModeBinaural:
		return "binaural"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= ModeRegular && m <= ModeBinaural
}

// ParseMode converts a mode name (any case) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular":
		return ModeRegular, nil
	case "irregular":
		return ModeIrregular, nil
	case "binaural":
		return ModeBinaural, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MultiT owns a regular, an irregular and a binaural decoder of the same
// order and forwards every call to the one selected by its mode. Switching
// modes only changes the dispatch target: each decoder keeps its own
// configuration.
type MultiT[F algofft.Float, C algofft.Complex] struct {
	Harmonics

	mode      Mode
	regular   *RegularT[F]
	irregular *IrregularT[F]
	binaural  *BinauralT[F, C]
}

// Multi is the float64 specialization of MultiT.
type Multi = MultiT[float64, complex128]

// Multi32 is the float32 specialization of MultiT.
type Multi32 = MultiT[float32, complex64]

// DefaultChannels returns the loudspeaker count NewMulti starts with.
func DefaultChannels(order int) int {
	return 2*order + 2
}

// NewMultiT creates a multi decoder in ModeRegular. Both loudspeaker
// decoders start with DefaultChannels(order) channels, except that
// WithAzimuths sets the irregular layout. Every option is passed on to the
// decoders it applies to.
func NewMultiT[F algofft.Float, C algofft.Complex](order int, opts ...Option) (*MultiT[F, C], error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	h, err := NewHarmonics(order)
	if err != nil {
		return nil, err
	}

	channels := DefaultChannels(order)
	regular, err := newRegular[F](order, channels, cfg.offset)
	if err != nil {
		return nil, err
	}
	if cfg.azimuths != nil {
		channels = len(cfg.azimuths)
	}
	irregular, err := newIrregular[F](order, channels, cfg)
	if err != nil {
		return nil, err
	}
	binaural, err := newBinaural[F, C](order, cfg)
	if err != nil {
		return nil, err
	}

	return &MultiT[F, C]{
		Harmonics: h,
		mode:      ModeRegular,
		regular:   regular,
		irregular: irregular,
		binaural:  binaural,
	}, nil
}

// NewMulti creates a float64 multi decoder.
func NewMulti(order int, opts ...Option) (*Multi, error) {
	return NewMultiT[float64, complex128](order, opts...)
}

// NewMulti32 creates a float32 multi decoder.
func NewMulti32(order int, opts ...Option) (*Multi32, error) {
	return NewMultiT[float32, complex64](order, opts...)
}

// DecodingMode returns the current mode.
func (m *MultiT[F, C]) DecodingMode() Mode {
	return m.mode
}

// SetDecodingMode selects the active decoder.
func (m *MultiT[F, C]) SetDecodingMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	m.mode = mode
	return nil
}

// Regular returns the regular decoder.
func (m *MultiT[F, C]) Regular() *RegularT[F] { return m.regular }

// Irregular returns the irregular decoder.
func (m *MultiT[F, C]) Irregular() *IrregularT[F] { return m.irregular }

// Binaural returns the binaural decoder.
func (m *MultiT[F, C]) Binaural() *BinauralT[F, C] { return m.binaural }

func (m *MultiT[F, C]) active() Decoder[F] {
	switch m.mode {
	case ModeIrregular:
		return m.irregular
	case ModeBinaural:
		return m.binaural
	default:
		return m.regular
	}
}

func (m *MultiT[F, C]) unsupported(op string) error {
	return fmt.Errorf("%w: %s in %s mode", ErrUnsupportedInMode, op, m.mode)
}

// NumberOfChannels returns the output count of the active decoder.
func (m *MultiT[F, C]) NumberOfChannels() int {
	return m.active().NumberOfChannels()
}

// SetNumberOfChannels rebuilds the active loudspeaker decoder with n evenly
// spaced channels. It does nothing in binaural mode.
func (m *MultiT[F, C]) SetNumberOfChannels(n int) error {
	switch m.mode {
	case ModeRegular:
		return m.regular.SetNumberOfChannels(n)
	case ModeIrregular:
		return m.irregular.SetNumberOfChannels(n)
	default:
		return nil
	}
}

// NumberOfVirtualChannels returns the virtual ring size in irregular mode
// and 0 otherwise.
func (m *MultiT[F, C]) NumberOfVirtualChannels() int {
	if m.mode == ModeIrregular {
		return m.irregular.NumberOfVirtualChannels()
	}
	return 0
}

// ChannelsOffset returns the layout rotation of the active loudspeaker
// decoder, or 0 in binaural mode.
func (m *MultiT[F, C]) ChannelsOffset() float64 {
	switch m.mode {
	case ModeRegular:
		return m.regular.ChannelsOffset()
	case ModeIrregular:
		return m.irregular.ChannelsOffset()
	default:
		return 0
	}
}

// SetChannelsOffset rotates the active loudspeaker layout.
func (m *MultiT[F, C]) SetChannelsOffset(offset float64) error {
	switch m.mode {
	case ModeRegular:
		return m.regular.SetChannelsOffset(offset)
	case ModeIrregular:
		return m.irregular.SetChannelsOffset(offset)
	default:
		return m.unsupported("channels offset")
	}
}

// SetChannelAzimuth moves one irregular loudspeaker.
func (m *MultiT[F, C]) SetChannelAzimuth(index int, azimuth float64) error {
	if m.mode != ModeIrregular {
		return m.unsupported("channel azimuth")
	}
	return m.irregular.SetChannelAzimuth(index, azimuth)
}

// SetChannelsAzimuth moves every irregular loudspeaker.
func (m *MultiT[F, C]) SetChannelsAzimuth(azimuths []float64) error {
	if m.mode != ModeIrregular {
		return m.unsupported("channel azimuths")
	}
	return m.irregular.SetChannelsAzimuth(azimuths)
}

// SampleRate returns the binaural sample rate.
func (m *MultiT[F, C]) SampleRate() int {
	return m.binaural.SampleRate()
}

// SetSampleRate reloads the binaural responses in any mode.
func (m *MultiT[F, C]) SetSampleRate(rate int) error {
	return m.binaural.SetSampleRate(rate)
}

// PinnaSize returns the binaural pinna profile.
func (m *MultiT[F, C]) PinnaSize() hrtf.Pinna {
	return m.binaural.PinnaSize()
}

// SetPinnaSize reloads the binaural responses in any mode.
func (m *MultiT[F, C]) SetPinnaSize(pinna hrtf.Pinna) error {
	return m.binaural.SetPinnaSize(pinna)
}

// ChannelAzimuth returns the azimuth of channel index of the active decoder.
func (m *MultiT[F, C]) ChannelAzimuth(index int) float64 {
	return m.active().ChannelAzimuth(index)
}

// ChannelAbscissa returns the abscissa of channel index of the active decoder.
func (m *MultiT[F, C]) ChannelAbscissa(index int) float64 {
	return m.active().ChannelAbscissa(index)
}

// ChannelOrdinate returns the ordinate of channel index of the active decoder.
func (m *MultiT[F, C]) ChannelOrdinate(index int) float64 {
	return m.active().ChannelOrdinate(index)
}

// ChannelName returns the name of channel index of the active decoder.
func (m *MultiT[F, C]) ChannelName(index int) string {
	return m.active().ChannelName(index)
}

// Process decodes one frame with the active decoder.
func (m *MultiT[F, C]) Process(in, out []F) {
	m.active().Process(in, out)
}

// ProcessBlock decodes planar buffers with the active decoder.
func (m *MultiT[F, C]) ProcessBlock(in, out [][]F) error {
	return m.active().ProcessBlock(in, out)
}

// Reset clears the binaural convolution history.
func (m *MultiT[F, C]) Reset() {
	m.binaural.Reset()
}
