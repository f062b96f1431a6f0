package hrtf

import (
	"errors"
	"math"
	"testing"
)

func energy(x []float64) float64 {
	e := 0.0
	for _, v := range x {
		e += v * v
	}
	return e
}

func firstArrival(x []float64) int {
	peak := 0.0
	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}
	for i, v := range x {
		if math.Abs(v) >= 0.1*peak {
			return i
		}
	}
	return -1
}

func TestModelShape(t *testing.T) {
	for _, rate := range SupportedSampleRates {
		key := Key{Order: 3, Pinna: Small, SampleRate: rate}
		bank, err := DefaultModel().Load(key)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", key, err)
		}
		if err := bank.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if bank.Channels() != RingSize(3) {
			t.Fatalf("Channels() = %d, want %d", bank.Channels(), RingSize(3))
		}
		if bank.Taps() != DefaultModel().Taps(rate) {
			t.Fatalf("Taps() = %d, want %d", bank.Taps(), DefaultModel().Taps(rate))
		}
	}
}

func TestModelLateralization(t *testing.T) {
	// Order 1: ring at 0°, 90°, 180°, 270°. Channel 1 sits on the left ear.
	bank, err := DefaultModel().Load(Key{Order: 1, Pinna: Small, SampleRate: 48000})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	left, right := bank.Left[1], bank.Right[1]
	if energy(left) <= energy(right) {
		t.Fatalf("left source: left energy %v <= right energy %v", energy(left), energy(right))
	}
	if firstArrival(left) >= firstArrival(right) {
		t.Fatalf("left source: left arrival %d >= right arrival %d", firstArrival(left), firstArrival(right))
	}

	// The front source reaches both ears at the same time.
	if firstArrival(bank.Left[0]) != firstArrival(bank.Right[0]) {
		t.Fatalf("front source arrivals differ: %d vs %d", firstArrival(bank.Left[0]), firstArrival(bank.Right[0]))
	}
}

func TestModelMirrorSymmetry(t *testing.T) {
	bank, err := DefaultModel().Load(Key{Order: 2, Pinna: Large, SampleRate: 44100})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Channel i at θ mirrors channel n-i at -θ: swap ears.
	n := bank.Channels()
	for i := 1; i < n; i++ {
		m := n - i
		for k := range bank.Left[i] {
			if math.Abs(bank.Left[i][k]-bank.Right[m][k]) > 1e-9 {
				t.Fatalf("channel %d/%d tap %d not mirrored: %v vs %v", i, m, k, bank.Left[i][k], bank.Right[m][k])
			}
		}
	}
}

func TestModelDeterministicAndPinnaDependent(t *testing.T) {
	m := DefaultModel()
	small1, err := m.Load(Key{Order: 2, Pinna: Small, SampleRate: 96000})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	large, err := m.Load(Key{Order: 2, Pinna: Large, SampleRate: 96000})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	small2, err := m.Load(Key{Order: 2, Pinna: Small, SampleRate: 96000})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !small1.Equal(small2) {
		t.Fatal("model is not deterministic")
	}
	if equalResponses(small1.Left, large.Left) {
		t.Fatal("pinna profile has no effect")
	}
}

func TestModelRejectsUnsupportedRate(t *testing.T) {
	_, err := Model{}.Load(Key{Order: 1, Pinna: Small, SampleRate: 32000})
	if !errors.Is(err, ErrUnsupportedSampleRate) {
		t.Fatalf("err = %v, want ErrUnsupportedSampleRate", err)
	}
}

func TestModelPeakNormalized(t *testing.T) {
	bank, err := Model{}.Load(Key{Order: 4, Pinna: Small, SampleRate: 88200})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	peak := 0.0
	for i := range bank.Left {
		for _, ir := range [][]float64{bank.Left[i], bank.Right[i]} {
			for _, v := range ir {
				peak = math.Max(peak, math.Abs(v))
			}
			if ir[len(ir)-1] != 0 {
				t.Fatalf("response of channel %d is not faded out: %v", i, ir[len(ir)-1])
			}
		}
	}
	if math.Abs(peak-modelPeak) > 1e-12 {
		t.Fatalf("peak = %v, want %v", peak, modelPeak)
	}
}
