// Command hoadecode decodes a planar ambisonic recording to loudspeaker feeds
// or binaural headphone audio.
//
// The input is a WAV or Ogg Vorbis file whose channels are circular
// harmonics in the order W, sin θ, cos θ, sin 2θ, cos 2θ, ... The output is a
// PCM WAV file with one channel per loudspeaker (or two for headphones).
//
// Usage:
//
//	hoadecode [flags] input.{wav,ogg} output.wav
//
// Examples:
//
//	hoadecode -channels 8 scene.wav speakers.wav
//	hoadecode -mode irregular -azimuths 30,-30,0,110,-110 scene.wav surround.wav
//	hoadecode -mode binaural -pinna large scene.ogg headphones.wav
//	hoadecode -mode binaural -hrtf ./responses scene.wav headphones.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-ambisonic/dsp/ambisonic"
	"github.com/cwbudde/algo-ambisonic/dsp/core"
	"github.com/cwbudde/algo-ambisonic/dsp/hrtf"
)

const chunkFrames = 4096

type options struct {
	order    int
	mode     ambisonic.Mode
	channels int
	azimuths []float64
	offset   float64
	pinna    hrtf.Pinna
	hrtfDir  string
	block    int
	bits     int
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("hoadecode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	order := fs.Int("order", 0, "decomposition order (0: derive from the input channel count)")
	mode := fs.String("mode", "regular", "decoding mode: regular, irregular or binaural")
	channels := fs.Int("channels", 0, "loudspeaker count for regular mode (0: 2*order+2)")
	azimuths := fs.String("azimuths", "", "comma separated loudspeaker azimuths in degrees for irregular mode")
	offset := fs.Float64("offset", 0, "layout rotation in degrees")
	pinna := fs.String("pinna", "small", "binaural pinna profile: small or large")
	hrtfDir := fs.String("hrtf", "", "directory of measured responses (<pinna>/<rate>/aziNNN.wav); default is the spherical head model")
	block := fs.Int("block", 256, "binaural FFT block size")
	bits := fs.Int("bits", 24, "output bit depth: 16 or 24")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hoadecode [flags] input.{wav,ogg} output.wav\n\n")
		fmt.Fprintf(stderr, "Decodes a planar ambisonic recording to loudspeakers or headphones.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("expected input and output paths, got %d arguments", fs.NArg())
	}

	opts := options{
		order:    *order,
		channels: *channels,
		offset:   core.Radians(*offset),
		hrtfDir:  *hrtfDir,
		block:    *block,
		bits:     *bits,
	}
	var err error
	if opts.mode, err = ambisonic.ParseMode(*mode); err != nil {
		return err
	}
	if opts.pinna, err = hrtf.ParsePinna(*pinna); err != nil {
		return err
	}
	if opts.azimuths, err = parseDegrees(*azimuths); err != nil {
		return err
	}
	if opts.mode == ambisonic.ModeIrregular && len(opts.azimuths) == 0 {
		return errors.New("irregular mode needs -azimuths")
	}
	if opts.bits != 16 && opts.bits != 24 {
		return fmt.Errorf("unsupported bit depth %d", opts.bits)
	}

	in, err := readClip(fs.Arg(0))
	if err != nil {
		return err
	}
	out, err := decode(in, opts)
	if err != nil {
		return err
	}
	return writeClip(fs.Arg(1), out, opts.bits)
}

// parseDegrees parses "30,-30,110" into radians.
func parseDegrees(list string) ([]float64, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	fields := strings.Split(list, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("azimuth %d: %w", i+1, err)
		}
		out[i] = core.Radians(v)
	}
	return out, nil
}

// orderFor returns the decomposition order to decode a clip of the given
// channel count with.
func orderFor(channels, requested int) (int, error) {
	if requested > 0 {
		if need := ambisonic.HarmonicCount(requested); channels < need {
			return 0, fmt.Errorf("order %d needs %d input channels, file has %d", requested, need, channels)
		}
		return requested, nil
	}
	if channels < 3 {
		return 0, fmt.Errorf("file has %d channels, need at least 3 harmonics", channels)
	}
	return (channels - 1) / 2, nil
}

func newDecoder(order, rate int, opts options) (*ambisonic.Multi, error) {
	decOpts := []ambisonic.Option{
		ambisonic.WithOffset(opts.offset),
		ambisonic.WithPinna(opts.pinna),
		ambisonic.WithBlockSize(opts.block),
	}
	if opts.mode == ambisonic.ModeBinaural {
		decOpts = append(decOpts, ambisonic.WithSampleRate(rate))
	}
	if opts.azimuths != nil {
		decOpts = append(decOpts, ambisonic.WithAzimuths(opts.azimuths))
	}
	if opts.hrtfDir != "" {
		decOpts = append(decOpts, ambisonic.WithProvider(hrtf.NewCache(hrtf.WAVSet{FS: os.DirFS(opts.hrtfDir)})))
	}

	m, err := ambisonic.NewMulti(order, decOpts...)
	if err != nil {
		return nil, err
	}
	if err := m.SetDecodingMode(opts.mode); err != nil {
		return nil, err
	}
	if opts.channels > 0 && opts.mode == ambisonic.ModeRegular {
		if err := m.SetNumberOfChannels(opts.channels); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// decode runs the whole clip through the decoder selected by opts.
func decode(in *clip, opts options) (*clip, error) {
	order, err := orderFor(len(in.data), opts.order)
	if err != nil {
		return nil, err
	}
	m, err := newDecoder(order, in.rate, opts)
	if err != nil {
		return nil, err
	}

	frames := in.frames()
	out := &clip{
		rate: in.rate,
		data: core.Planar[float64](m.NumberOfChannels(), frames),
	}

	harmonics := in.data[:m.NumberOfHarmonics()]
	inView := make([][]float64, len(harmonics))
	outView := make([][]float64, len(out.data))
	for off := 0; off < frames; off += chunkFrames {
		end := min(off+chunkFrames, frames)
		for j, ch := range harmonics {
			inView[j] = ch[off:end]
		}
		for i, ch := range out.data {
			outView[i] = ch[off:end]
		}
		if err := m.ProcessBlock(inView, outView); err != nil {
			return nil, err
		}
	}
	return out, nil
}
