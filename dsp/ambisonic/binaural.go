package ambisonic

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-ambisonic/dsp/conv"
	"github.com/cwbudde/algo-ambisonic/dsp/core"
	"github.com/cwbudde/algo-ambisonic/dsp/hrtf"
)

// headphones is the fixed two-channel output layout: left ear then right.
var headphones = Layout{azimuths: []float64{math.Pi / 2, 3 * math.Pi / 2}}

var headphoneNames = [2]string{"Headphone Left", "Headphone Right"}

// BinauralT renders a harmonic field for headphones. The field is decoded to
// a virtual ring of hrtf.RingSize(order) loudspeakers, each of which is
// convolved with a left and a right head-related impulse response.
//
// Process runs the convolution in direct form; ProcessBlock uses FFT
// overlap-save for full blocks. Both share the same filter history, so they
// can be mixed freely and neither adds latency.
//
// The type parameters F and C select precision.
type BinauralT[F algofft.Float, C algofft.Complex] struct {
	Harmonics

	ring *RegularT[F]

	provider  hrtf.Provider
	key       hrtf.Key
	filters   *hrtf.FilterBank
	bank      *conv.BankT[F, C]
	blockSize int

	vframe  []F
	vblock  [][]F
	vview   [][]F
	inView  [][]F
	outView [][]F
}

// Binaural is the float64 specialization of BinauralT.
type Binaural = BinauralT[float64, complex128]

// Binaural32 is the float32 specialization of BinauralT.
type Binaural32 = BinauralT[float32, complex64]

// NewBinauralT creates a binaural decoder. It honours WithSampleRate,
// WithPinna, WithProvider and WithBlockSize.
func NewBinauralT[F algofft.Float, C algofft.Complex](order int, opts ...Option) (*BinauralT[F, C], error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return newBinaural[F, C](order, cfg)
}

// NewBinaural creates a float64 binaural decoder.
func NewBinaural(order int, opts ...Option) (*Binaural, error) {
	return NewBinauralT[float64, complex128](order, opts...)
}

// NewBinaural32 creates a float32 binaural decoder.
func NewBinaural32(order int, opts ...Option) (*Binaural32, error) {
	return NewBinauralT[float32, complex64](order, opts...)
}

func newBinaural[F algofft.Float, C algofft.Complex](order int, cfg config) (*BinauralT[F, C], error) {
	h, err := NewHarmonics(order)
	if err != nil {
		return nil, err
	}
	ring, err := newRegular[F](order, hrtf.RingSize(order), 0)
	if err != nil {
		return nil, err
	}

	d := &BinauralT[F, C]{
		Harmonics: h,
		ring:      ring,
		vframe:    make([]F, ring.NumberOfChannels()),
		vview:     make([][]F, ring.NumberOfChannels()),
		inView:    make([][]F, h.NumberOfHarmonics()),
		outView:   make([][]F, 2),
	}

	key := hrtf.Key{
		Order:      order,
		Pinna:      cfg.pinna,
		SampleRate: int(cfg.processor.SampleRate),
	}
	if err := d.load(key, cfg.provider, cfg.processor.BlockSize); err != nil {
		return nil, err
	}
	return d, nil
}

// load fetches the filter bank for key and builds its convolution engine.
// Nothing is changed unless every step succeeds.
func (d *BinauralT[F, C]) load(key hrtf.Key, provider hrtf.Provider, blockSize int) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if blockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	filters, err := provider.Load(key)
	if err != nil {
		return fmt.Errorf("ambisonic: loading hrtf %s: %w", key, err)
	}
	if err := filters.Validate(); err != nil {
		return fmt.Errorf("ambisonic: loading hrtf %s: %w", key, err)
	}
	if filters.Key != key {
		return fmt.Errorf("ambisonic: loading hrtf %s: %w: provider returned %s",
			key, hrtf.ErrInvalidFilterBank, filters.Key)
	}

	kernels := [][][]F{
		toKernels[F](filters.Left),
		toKernels[F](filters.Right),
	}
	bank, err := conv.NewBankT[F, C](kernels, blockSize)
	if err != nil {
		return fmt.Errorf("ambisonic: building hrtf convolution: %w", err)
	}

	if d.vblock == nil {
		d.vblock = make([][]F, d.ring.NumberOfChannels())
	}
	for i := range d.vblock {
		d.vblock[i] = core.EnsureLen(d.vblock[i], blockSize)
	}
	d.provider = provider
	d.key = key
	d.filters = filters
	d.bank = bank
	d.blockSize = blockSize
	return nil
}

func toKernels[F algofft.Float](irs [][]float64) [][]F {
	out := make([][]F, len(irs))
	for i, ir := range irs {
		k := make([]F, len(ir))
		for n, v := range ir {
			k[n] = F(v)
		}
		out[i] = k
	}
	return out
}

// NumberOfChannels always returns 2.
func (d *BinauralT[F, C]) NumberOfChannels() int {
	return 2
}

// NumberOfVirtualChannels returns the size of the virtual loudspeaker ring.
func (d *BinauralT[F, C]) NumberOfVirtualChannels() int {
	return d.ring.NumberOfChannels()
}

// ChannelAzimuth returns π/2 for the left ear and 3π/2 for the right.
func (d *BinauralT[F, C]) ChannelAzimuth(index int) float64 {
	return headphones.Azimuth(index)
}

// ChannelAbscissa returns cos(ChannelAzimuth(index)).
func (d *BinauralT[F, C]) ChannelAbscissa(index int) float64 {
	return headphones.Abscissa(index)
}

// ChannelOrdinate returns sin(ChannelAzimuth(index)).
func (d *BinauralT[F, C]) ChannelOrdinate(index int) float64 {
	return headphones.Ordinate(index)
}

// ChannelName returns "Headphone Left" or "Headphone Right".
func (d *BinauralT[F, C]) ChannelName(index int) string {
	headphones.checkIndex(index)
	return headphoneNames[index]
}

// SampleRate returns the rate of the loaded responses.
func (d *BinauralT[F, C]) SampleRate() int {
	return d.key.SampleRate
}

// SetSampleRate reloads the responses for rate. Unsupported rates return an
// error wrapping hrtf.ErrUnsupportedSampleRate and keep the current bank.
func (d *BinauralT[F, C]) SetSampleRate(rate int) error {
	key := d.key
	key.SampleRate = rate
	return d.load(key, d.provider, d.blockSize)
}

// PinnaSize returns the loaded pinna profile.
func (d *BinauralT[F, C]) PinnaSize() hrtf.Pinna {
	return d.key.Pinna
}

// SetPinnaSize reloads the responses for pinna.
func (d *BinauralT[F, C]) SetPinnaSize(pinna hrtf.Pinna) error {
	key := d.key
	key.Pinna = pinna
	return d.load(key, d.provider, d.blockSize)
}

// SetProvider switches the response source and reloads the current key.
func (d *BinauralT[F, C]) SetProvider(provider hrtf.Provider) error {
	if provider == nil {
		return ErrNilProvider
	}
	return d.load(d.key, provider, d.blockSize)
}

// BlockSize returns the FFT block length of ProcessBlock.
func (d *BinauralT[F, C]) BlockSize() int {
	return d.blockSize
}

// SetBlockSize changes the FFT block length. Filter history is cleared.
func (d *BinauralT[F, C]) SetBlockSize(n int) error {
	return d.load(d.key, d.provider, n)
}

// FilterBank returns a copy of the loaded responses.
func (d *BinauralT[F, C]) FilterBank() *hrtf.FilterBank {
	return d.filters.Clone()
}

// Reset clears the convolution history.
func (d *BinauralT[F, C]) Reset() {
	d.bank.Reset()
}

// Process decodes one frame of harmonics into out[0] (left) and out[1]
// (right). in and out may share memory.
func (d *BinauralT[F, C]) Process(in, out []F) {
	d.ring.Process(in, d.vframe)
	d.bank.ProcessSample(out[:2], d.vframe)
}

// ProcessBlock decodes planar buffers in[harmonic][n] into out[0] (left)
// and out[1] (right).
func (d *BinauralT[F, C]) ProcessBlock(in, out [][]F) error {
	n, err := checkPlanar(in, out, d.NumberOfHarmonics(), 2)
	if err != nil {
		return err
	}

	for off := 0; off < n; off += d.blockSize {
		m := min(d.blockSize, n-off)
		for j := range d.inView {
			d.inView[j] = in[j][off : off+m]
		}
		for c := range d.vview {
			d.vview[c] = d.vblock[c][:m]
		}
		if err := d.ring.ProcessBlock(d.inView, d.vview); err != nil {
			return err
		}

		d.outView[0] = out[0][off : off+m]
		d.outView[1] = out[1][off : off+m]
		if err := d.bank.ProcessBlock(d.outView, d.vview); err != nil {
			return err
		}
	}
	return nil
}
