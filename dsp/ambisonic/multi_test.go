package ambisonic

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ambisonic/dsp/hrtf"
	"github.com/cwbudde/algo-ambisonic/internal/testutil"
)

func TestMultiDefaults(t *testing.T) {
	m, err := NewMulti(2)
	if err != nil {
		t.Fatalf("NewMulti: %v", err)
	}
	if m.DecodingMode() != ModeRegular {
		t.Fatalf("DecodingMode = %s", m.DecodingMode())
	}
	if m.NumberOfChannels() != 6 || m.Irregular().NumberOfChannels() != 6 {
		t.Fatalf("channels = %d / %d, want 6", m.NumberOfChannels(), m.Irregular().NumberOfChannels())
	}
	if m.NumberOfVirtualChannels() != 0 {
		t.Fatalf("NumberOfVirtualChannels = %d in regular mode", m.NumberOfVirtualChannels())
	}
	if m.NumberOfHarmonics() != 5 {
		t.Fatalf("NumberOfHarmonics = %d", m.NumberOfHarmonics())
	}
}

func TestMultiSetDecodingMode(t *testing.T) {
	m, _ := NewMulti(1)
	for _, mode := range []Mode{ModeIrregular, ModeBinaural, ModeRegular} {
		if err := m.SetDecodingMode(mode); err != nil {
			t.Fatalf("SetDecodingMode(%s): %v", mode, err)
		}
		if m.DecodingMode() != mode {
			t.Fatalf("DecodingMode = %s, want %s", m.DecodingMode(), mode)
		}
	}
	if err := m.SetDecodingMode(Mode(7)); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("SetDecodingMode(7) err = %v", err)
	}
	if m.DecodingMode() != ModeRegular {
		t.Fatal("invalid mode changed the decoder")
	}
}

func TestMultiModesKeepTheirConfiguration(t *testing.T) {
	m, _ := NewMulti(1)

	if err := m.SetDecodingMode(ModeIrregular); err != nil {
		t.Fatal(err)
	}
	if err := m.SetChannelAzimuth(0, 0.25); err != nil {
		t.Fatalf("SetChannelAzimuth: %v", err)
	}

	if err := m.SetDecodingMode(ModeRegular); err != nil {
		t.Fatal(err)
	}
	testutil.RequireNearlyEqual(t, "regular azimuth", m.ChannelAzimuth(0), 0, 0)
	if err := m.SetChannelsOffset(1); err != nil {
		t.Fatalf("SetChannelsOffset: %v", err)
	}
	if err := m.SetNumberOfChannels(5); err != nil {
		t.Fatalf("SetNumberOfChannels: %v", err)
	}

	if err := m.SetDecodingMode(ModeIrregular); err != nil {
		t.Fatal(err)
	}
	testutil.RequireNearlyEqual(t, "irregular azimuth", m.ChannelAzimuth(0), 0.25, 1e-15)
	testutil.RequireNearlyEqual(t, "irregular offset", m.ChannelsOffset(), 0, 0)
	if m.NumberOfChannels() != 4 {
		t.Fatalf("irregular channels = %d, want 4", m.NumberOfChannels())
	}
	if m.NumberOfVirtualChannels() != m.Irregular().NumberOfVirtualChannels() {
		t.Fatal("NumberOfVirtualChannels not forwarded in irregular mode")
	}
}

func TestMultiUnsupportedInMode(t *testing.T) {
	m, _ := NewMulti(1)
	if err := m.SetChannelAzimuth(0, 1); !errors.Is(err, ErrUnsupportedInMode) {
		t.Fatalf("SetChannelAzimuth in regular err = %v", err)
	}
	if err := m.SetChannelsAzimuth([]float64{0, 1, 2, 3}); !errors.Is(err, ErrUnsupportedInMode) {
		t.Fatalf("SetChannelsAzimuth in regular err = %v", err)
	}

	if err := m.SetDecodingMode(ModeBinaural); err != nil {
		t.Fatal(err)
	}
	if err := m.SetChannelsOffset(1); !errors.Is(err, ErrUnsupportedInMode) {
		t.Fatalf("SetChannelsOffset in binaural err = %v", err)
	}
	if m.ChannelsOffset() != 0 {
		t.Fatalf("ChannelsOffset = %v in binaural mode", m.ChannelsOffset())
	}
	if err := m.SetNumberOfChannels(9); err != nil {
		t.Fatalf("SetNumberOfChannels in binaural: %v", err)
	}
	if m.NumberOfChannels() != 2 || m.Regular().NumberOfChannels() != 4 {
		t.Fatalf("binaural SetNumberOfChannels changed something: %d / %d",
			m.NumberOfChannels(), m.Regular().NumberOfChannels())
	}
	if m.ChannelName(1) != "Headphone Right" {
		t.Fatalf("ChannelName(1) = %q", m.ChannelName(1))
	}
}

func TestMultiBinauralSettersInAnyMode(t *testing.T) {
	m, _ := NewMulti(1)
	if err := m.SetSampleRate(48000); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	if err := m.SetPinnaSize(hrtf.Large); err != nil {
		t.Fatalf("SetPinnaSize: %v", err)
	}
	if m.SampleRate() != 48000 || m.PinnaSize() != hrtf.Large {
		t.Fatalf("binaural = %d Hz, %s", m.SampleRate(), m.PinnaSize())
	}
	if err := m.SetSampleRate(1); !errors.Is(err, hrtf.ErrUnsupportedSampleRate) {
		t.Fatalf("SetSampleRate(1) err = %v", err)
	}
	if m.SampleRate() != 48000 {
		t.Fatalf("SampleRate = %d after rejected change", m.SampleRate())
	}
}

func TestMultiDispatchesProcess(t *testing.T) {
	m, _ := NewMulti(1, WithAzimuths(degrees(30, 330)))
	field := testutil.CircularField(1, math.Pi/6, 1)

	tests := []struct {
		mode Mode
		dec  Decoder[float64]
	}{
		{ModeRegular, m.Regular()},
		{ModeIrregular, m.Irregular()},
	}
	for _, tt := range tests {
		if err := m.SetDecodingMode(tt.mode); err != nil {
			t.Fatal(err)
		}
		got := make([]float64, m.NumberOfChannels())
		want := make([]float64, tt.dec.NumberOfChannels())
		m.Process(field, got)
		tt.dec.Process(field, want)
		testutil.RequireSliceNearlyEqual(t, got, want, 0)
	}

	if err := m.SetDecodingMode(ModeIrregular); err != nil {
		t.Fatal(err)
	}
	if m.NumberOfChannels() != 2 {
		t.Fatalf("irregular channels = %d, want 2", m.NumberOfChannels())
	}
}

func TestMultiBinauralMatchesBinaural(t *testing.T) {
	m, _ := NewMulti(2, WithBlockSize(32))
	if err := m.SetDecodingMode(ModeBinaural); err != nil {
		t.Fatal(err)
	}
	ref, _ := NewBinaural(2, WithBlockSize(32))

	in := planarField(2, 1.3, testutil.DeterministicNoise(2, 1, 100))
	got := [][]float64{make([]float64, 100), make([]float64, 100)}
	want := [][]float64{make([]float64, 100), make([]float64, 100)}
	if err := m.ProcessBlock(in, got); err != nil {
		t.Fatal(err)
	}
	if err := ref.ProcessBlock(in, want); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got[0], want[0], 0)
	testutil.RequireSliceNearlyEqual(t, got[1], want[1], 0)
}

func TestParseMode(t *testing.T) {
	for _, mode := range []Mode{ModeRegular, ModeIrregular, ModeBinaural} {
		got, err := ParseMode(" " + mode.String() + " ")
		if err != nil || got != mode {
			t.Fatalf("ParseMode(%q) = %v, %v", mode.String(), got, err)
		}
	}
	if _, err := ParseMode("surround"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("ParseMode(surround) err = %v", err)
	}
}

func TestNewMultiErrors(t *testing.T) {
	if _, err := NewMulti(0); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("order 0 err = %v", err)
	}
	if _, err := NewMulti(1, WithPinna(hrtf.Pinna(5))); !errors.Is(err, hrtf.ErrInvalidPinna) {
		t.Fatalf("bad pinna err = %v", err)
	}
	if _, err := NewMulti(1, WithBlockSize(-1)); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("bad block size err = %v", err)
	}
}

func TestMulti32(t *testing.T) {
	m, err := NewMulti32(1)
	if err != nil {
		t.Fatalf("NewMulti32: %v", err)
	}
	out := make([]float32, 4)
	m.Process([]float32{1, 0, 0}, out)
	for _, v := range out {
		testutil.RequireNearlyEqual(t, "omni", float64(v), 0.25, 1e-7)
	}
}
