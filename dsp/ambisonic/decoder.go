package ambisonic

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

// Decoder is the behaviour shared by every decoder kind.
type Decoder[F algofft.Float] interface {
	Order() int
	NumberOfHarmonics() int
	NumberOfChannels() int

	ChannelAzimuth(index int) float64
	ChannelAbscissa(index int) float64
	ChannelOrdinate(index int) float64
	ChannelName(index int) string

	// Process decodes one frame of NumberOfHarmonics() coefficients into
	// NumberOfChannels() outputs.
	Process(in, out []F)

	// ProcessBlock decodes planar buffers in[harmonic][n] into
	// out[channel][n].
	ProcessBlock(in, out [][]F) error
}

var (
	_ Decoder[float64] = (*Regular)(nil)
	_ Decoder[float64] = (*Irregular)(nil)
	_ Decoder[float64] = (*Binaural)(nil)
	_ Decoder[float64] = (*Multi)(nil)
	_ Decoder[float32] = (*Regular32)(nil)
	_ Decoder[float32] = (*Irregular32)(nil)
	_ Decoder[float32] = (*Binaural32)(nil)
	_ Decoder[float32] = (*Multi32)(nil)
)

// checkPlanar validates planar block buffers and returns the frame count.
func checkPlanar[F algofft.Float](in, out [][]F, inputs, outputs int) (int, error) {
	if len(in) < inputs {
		return 0, fmt.Errorf("%w: %d input channels, want %d", ErrLengthMismatch, len(in), inputs)
	}
	if len(out) < outputs {
		return 0, fmt.Errorf("%w: %d output channels, want %d", ErrLengthMismatch, len(out), outputs)
	}
	n := len(in[0])
	for i := range inputs {
		if len(in[i]) != n {
			return 0, fmt.Errorf("%w: input %d has %d samples, want %d", ErrLengthMismatch, i, len(in[i]), n)
		}
	}
	for o := range outputs {
		if len(out[o]) != n {
			return 0, fmt.Errorf("%w: output %d has %d samples, want %d", ErrLengthMismatch, o, len(out[o]), n)
		}
	}
	return n, nil
}
