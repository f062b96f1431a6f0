package hrtf

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-ambisonic/dsp/core"
)

// wavFormatPCM is the WAVE format tag of integer PCM data.
const wavFormatPCM = 1

// WAVSet loads measured responses from stereo WAV files (left ear on
// channel 0, right ear on channel 1) laid out as
//
//	<pinna>/<rate>/azi<degrees>.wav
//
// where degrees is the ring azimuth rounded to an integer, for example
// "small/44100/azi045.wav". The file's sample rate must match the key.
type WAVSet struct {
	FS fs.FS
}

// ResponsePath returns the file name WAVSet reads for one ring azimuth.
func ResponsePath(pinna Pinna, rate int, azimuth float64) string {
	deg := int(math.Round(core.Degrees(core.WrapTwoPi(azimuth)))) % 360
	return path.Join(pinna.String(), fmt.Sprint(rate), fmt.Sprintf("azi%03d.wav", deg))
}

// Load reads one file per ring azimuth of key.Order.
func (s WAVSet) Load(key Key) (*FilterBank, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	azimuths := RingAzimuths(key.Order)
	bank := &FilterBank{
		Key:      key,
		Azimuths: azimuths,
		Left:     make([][]float64, len(azimuths)),
		Right:    make([][]float64, len(azimuths)),
	}

	for i, az := range azimuths {
		name := ResponsePath(key.Pinna, key.SampleRate, az)
		left, right, err := s.readPair(name, key.SampleRate)
		if err != nil {
			return nil, err
		}
		bank.Left[i], bank.Right[i] = left, right
	}

	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return bank, nil
}

func (s WAVSet) readPair(name string, rate int) ([]float64, []float64, error) {
	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingResponse, name)
		}
		return nil, nil, fmt.Errorf("hrtf: reading %s: %w", name, err)
	}

	// go-audio needs a ReadSeeker.
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, nil, fmt.Errorf("%w: %s is not a PCM WAV file", ErrInvalidResponseFile, name)
	}
	if dec.WavAudioFormat != wavFormatPCM || dec.BitDepth < 16 {
		return nil, nil, fmt.Errorf("%w: %s must be 16, 24 or 32 bit integer PCM (format %d, %d bit)",
			ErrInvalidResponseFile, name, dec.WavAudioFormat, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponseFile, name, err)
	}
	if int(dec.SampleRate) != rate {
		return nil, nil, fmt.Errorf("%w: %s is %d Hz, want %d Hz", ErrInvalidResponseFile, name, dec.SampleRate, rate)
	}
	if buf.Format == nil || buf.Format.NumChannels != 2 {
		return nil, nil, fmt.Errorf("%w: %s must have 2 channels", ErrInvalidResponseFile, name)
	}

	scale := 1 / float64(int64(1)<<(dec.BitDepth-1))

	frames := len(buf.Data) / 2
	left := make([]float64, frames)
	right := make([]float64, frames)
	for n := range frames {
		left[n] = float64(buf.Data[2*n]) * scale
		right[n] = float64(buf.Data[2*n+1]) * scale
	}
	return left, right, nil
}

// WriteWAVSet stores bank below dir in the layout read by WAVSet, as
// integer PCM with the given bit depth (16 or 24).
func WriteWAVSet(dir string, bank *FilterBank, bitDepth int) error {
	if err := bank.Validate(); err != nil {
		return err
	}
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("hrtf: unsupported bit depth %d", bitDepth)
	}

	full := float64(int64(1)<<(bitDepth-1)) - 1
	for i, az := range bank.Azimuths {
		name := filepath.Join(dir, filepath.FromSlash(ResponsePath(bank.Key.Pinna, bank.Key.SampleRate, az)))
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return fmt.Errorf("hrtf: %w", err)
		}

		left, right := bank.Left[i], bank.Right[i]
		frames := max(len(left), len(right))
		data := make([]int, 2*frames)
		for n := range frames {
			if n < len(left) {
				data[2*n] = quantize(left[n], full)
			}
			if n < len(right) {
				data[2*n+1] = quantize(right[n], full)
			}
		}

		if err := writePCM(name, bank.Key.SampleRate, bitDepth, wavFormatPCM, data); err != nil {
			return err
		}
	}
	return nil
}

func writePCM(name string, rate, bitDepth, audioFormat int, data []int) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("hrtf: %w", err)
	}

	enc := wav.NewEncoder(f, rate, bitDepth, 2, audioFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("hrtf: writing %s: %w", name, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("hrtf: closing %s: %w", name, err)
	}
	return f.Close()
}

func quantize(v, full float64) int {
	return int(math.Round(math.Max(-1, math.Min(1, v)) * full))
}
