package ambisonic

import (
	"fmt"

	"github.com/cwbudde/algo-ambisonic/dsp/core"
	"github.com/cwbudde/algo-ambisonic/dsp/hrtf"
)

// Option configures a decoder at construction time. Options that do not
// apply to a decoder kind are ignored by it.
type Option func(*config) error

type config struct {
	offset    float64
	azimuths  []float64
	processor core.ProcessorConfig
	pinna     hrtf.Pinna
	provider  hrtf.Provider

	processorOpts []core.ProcessorOption
}

func defaultConfig() config {
	return config{
		pinna: hrtf.Small,
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	cfg.processor = core.ApplyProcessorOptions(cfg.processorOpts...)
	if cfg.provider == nil {
		cfg.provider = hrtf.NewCache(hrtf.DefaultModel())
	}
	return cfg, nil
}

// WithOffset rotates the loudspeaker layout by offset radians.
func WithOffset(offset float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(offset) {
			return fmt.Errorf("%w: offset %v", ErrInvalidAzimuth, offset)
		}
		cfg.offset = core.WrapTwoPi(offset)
		return nil
	}
}

// WithAzimuths sets the initial azimuths of an irregular layout. Its length
// becomes the channel count of irregular decoders built by NewMulti.
func WithAzimuths(azimuths []float64) Option {
	return func(cfg *config) error {
		az, err := wrapAzimuths(azimuths)
		if err != nil {
			return err
		}
		if len(az) == 0 {
			return fmt.Errorf("%w: empty azimuth list", ErrTooFewChannels)
		}
		cfg.azimuths = az
		return nil
	}
}

// WithSampleRate sets the binaural sample rate, one of
// hrtf.SupportedSampleRates.
func WithSampleRate(rate int) Option {
	return func(cfg *config) error {
		if err := hrtf.ValidateSampleRate(rate); err != nil {
			return err
		}
		cfg.processorOpts = append(cfg.processorOpts, core.WithSampleRate(float64(rate)))
		return nil
	}
}

// WithBlockSize sets the FFT block length of binaural convolution.
func WithBlockSize(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBlockSize, n)
		}
		cfg.processorOpts = append(cfg.processorOpts, core.WithBlockSize(n))
		return nil
	}
}

// WithPinna selects the binaural pinna profile.
func WithPinna(p hrtf.Pinna) Option {
	return func(cfg *config) error {
		if !p.Valid() {
			return fmt.Errorf("%w: %d", hrtf.ErrInvalidPinna, int(p))
		}
		cfg.pinna = p
		return nil
	}
}

// WithProvider sets the source of binaural filter banks. The default is a
// cached spherical-head model.
func WithProvider(p hrtf.Provider) Option {
	return func(cfg *config) error {
		cfg.provider = p
		return nil
	}
}
