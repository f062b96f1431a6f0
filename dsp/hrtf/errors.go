package hrtf

import "errors"

// Errors returned by the providers.
var (
	ErrUnsupportedSampleRate = errors.New("hrtf: unsupported sample rate")
	ErrInvalidPinna          = errors.New("hrtf: invalid pinna profile")
	ErrInvalidOrder          = errors.New("hrtf: decomposition order must be >= 1")
	ErrInvalidFilterBank     = errors.New("hrtf: invalid filter bank")
	ErrMissingResponse       = errors.New("hrtf: missing impulse response")
	ErrInvalidResponseFile   = errors.New("hrtf: invalid impulse response file")
)
