package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jfreymuth/oggvorbis"
)

// clip is a planar recording: data[channel][frame].
type clip struct {
	rate int
	data [][]float64
}

func (c *clip) frames() int {
	if len(c.data) == 0 {
		return 0
	}
	return len(c.data[0])
}

func readClip(path string) (*clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".ogg") {
		samples, format, err := oggvorbis.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return deinterleave(format.SampleRate, format.Channels, len(samples), func(i int) float64 {
			return float64(samples[i])
		}), nil
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}
	// Samples are scaled as signed integers.
	if dec.WavAudioFormat != 1 || dec.BitDepth < 16 {
		return nil, fmt.Errorf("%s: unsupported WAV encoding (format %d, %d bit), want 16, 24 or 32 bit integer PCM",
			path, dec.WavAudioFormat, dec.BitDepth)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	full := float64(int64(1) << (dec.BitDepth - 1))
	return deinterleave(int(dec.SampleRate), buf.Format.NumChannels, len(buf.Data), func(i int) float64 {
		return float64(buf.Data[i]) / full
	}), nil
}

func deinterleave(rate, channels, samples int, at func(int) float64) *clip {
	frames := samples / channels
	c := &clip{rate: rate, data: make([][]float64, channels)}
	for ch := range c.data {
		c.data[ch] = make([]float64, frames)
		for n := range frames {
			c.data[ch][n] = at(n*channels + ch)
		}
	}
	return c
}

func writeClip(path string, c *clip, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	channels := len(c.data)
	frames := c.frames()
	full := float64(int64(1)<<(bitDepth-1)) - 1
	data := make([]int, channels*frames)
	for n := range frames {
		for ch := range channels {
			v := math.Max(-1, math.Min(1, c.data[ch][n]))
			data[n*channels+ch] = int(math.Round(v * full))
		}
	}

	enc := wav.NewEncoder(f, c.rate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: c.rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
