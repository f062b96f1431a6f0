package ambisonic

import "errors"

// Errors returned (or, for accessors, panicked with) by the decoders.
var (
	ErrInvalidOrder       = errors.New("ambisonic: decomposition order must be >= 1")
	ErrTooFewChannels     = errors.New("ambisonic: not enough channels")
	ErrInvalidAzimuth     = errors.New("ambisonic: azimuth must be finite")
	ErrLengthMismatch     = errors.New("ambisonic: buffer length mismatch")
	ErrChannelOutOfRange  = errors.New("ambisonic: channel index out of range")
	ErrHarmonicOutOfRange = errors.New("ambisonic: harmonic index out of range")
	ErrInvalidMode        = errors.New("ambisonic: invalid decoding mode")
	ErrUnsupportedInMode  = errors.New("ambisonic: operation not supported in current decoding mode")
	ErrInvalidBlockSize   = errors.New("ambisonic: block size must be > 0")
	ErrNilProvider        = errors.New("ambisonic: nil hrtf provider")
)
