package ambisonic

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ambisonic/internal/testutil"
)

func TestNewRegularLayout(t *testing.T) {
	l, err := NewRegularLayout(4)
	if err != nil {
		t.Fatalf("NewRegularLayout: %v", err)
	}
	want := []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}
	testutil.RequireSliceNearlyEqual(t, l.Azimuths(), want, 1e-15)

	if _, err := NewRegularLayout(0); !errors.Is(err, ErrTooFewChannels) {
		t.Fatalf("NewRegularLayout(0) err = %v", err)
	}
}

func TestLayoutWrapsAzimuths(t *testing.T) {
	l, err := NewLayout([]float64{-math.Pi / 2, 5 * math.Pi / 2})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	testutil.RequireNearlyEqual(t, "az0", l.Azimuth(0), 3*math.Pi/2, 1e-12)
	testutil.RequireNearlyEqual(t, "az1", l.Azimuth(1), math.Pi/2, 1e-12)
	for i := range l.NumberOfChannels() {
		if az := l.Azimuth(i); az < 0 || az >= 2*math.Pi {
			t.Fatalf("azimuth %d = %v outside [0, 2π)", i, az)
		}
	}
}

func TestLayoutCoordinates(t *testing.T) {
	l, _ := NewLayout([]float64{math.Pi / 2, math.Pi})
	testutil.RequireNearlyEqual(t, "abscissa", l.Abscissa(0), 0, 1e-15)
	testutil.RequireNearlyEqual(t, "ordinate", l.Ordinate(0), 1, 1e-15)
	testutil.RequireNearlyEqual(t, "abscissa", l.Abscissa(1), -1, 1e-15)
	testutil.RequireNearlyEqual(t, "ordinate", l.Ordinate(1), 0, 1e-15)
}

func TestLayoutName(t *testing.T) {
	l, _ := NewRegularLayout(4)
	want := []string{"Channel 1 : 0°", "Channel 2 : 90°", "Channel 3 : 180°", "Channel 4 : 270°"}
	for i, w := range want {
		if got := l.Name(i); got != w {
			t.Fatalf("Name(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestLayoutSettersRejectWithoutSideEffects(t *testing.T) {
	l, _ := NewRegularLayout(3)
	before := l.Azimuths()

	if err := l.SetAzimuth(3, 1); !errors.Is(err, ErrChannelOutOfRange) {
		t.Fatalf("SetAzimuth(3) err = %v", err)
	}
	if err := l.SetAzimuth(0, math.NaN()); !errors.Is(err, ErrInvalidAzimuth) {
		t.Fatalf("SetAzimuth(NaN) err = %v", err)
	}
	if err := l.SetAzimuths([]float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("SetAzimuths(short) err = %v", err)
	}
	if err := l.SetAzimuths([]float64{1, math.Inf(1), 2}); !errors.Is(err, ErrInvalidAzimuth) {
		t.Fatalf("SetAzimuths(Inf) err = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, l.Azimuths(), before, 0)

	if err := l.SetAzimuth(1, -math.Pi/4); err != nil {
		t.Fatalf("SetAzimuth: %v", err)
	}
	testutil.RequireNearlyEqual(t, "az1", l.Azimuth(1), 7*math.Pi/4, 1e-12)
}

func TestLayoutCopiesDoNotShare(t *testing.T) {
	l, _ := NewRegularLayout(2)
	c := l
	if err := l.SetAzimuth(0, 1); err != nil {
		t.Fatal(err)
	}
	if c.Azimuth(0) != 0 {
		t.Fatalf("copy observed change: %v", c.Azimuth(0))
	}
}

func TestLayoutOutOfRangePanics(t *testing.T) {
	l, _ := NewRegularLayout(2)
	requirePanicIs(t, ErrChannelOutOfRange, func() { l.Azimuth(2) })
	requirePanicIs(t, ErrChannelOutOfRange, func() { l.Name(-1) })
}

func TestLayoutNameRoundsDegrees(t *testing.T) {
	l, _ := NewRegularLayout(6)
	if got := l.Name(1); got != "Channel 2 : 60°" {
		t.Fatalf("Name(1) = %q", got)
	}
	l, _ = NewLayout([]float64{2*math.Pi - 1e-9})
	if got := l.Name(0); got != "Channel 1 : 0°" {
		t.Fatalf("Name(0) = %q", got)
	}
}
