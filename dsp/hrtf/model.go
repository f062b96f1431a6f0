package hrtf

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ambisonic/dsp/conv"
	"github.com/cwbudde/algo-ambisonic/dsp/core"
)

const (
	defaultHeadRadius   = 0.0875
	defaultSpeedOfSound = 343.0

	// Head-shadow filter shape: gain factor at the far side and the angle
	// from the ear axis where it is reached.
	shadowAlphaMin = 0.1
	shadowThetaMin = 150 * math.Pi / 180

	// Samples of lead-in before the earliest arrival.
	modelPreDelay = 2.0
	modelFadeLen  = 16
	modelPeak     = 0.5
	referenceRate = 44100.0
)

// Pinna echo table at 44.1 kHz for the horizontal plane:
// delay = scale * (A*cos(φ/2)*sin(D*π/2) + B) samples, amplitude ρ.
var pinnaEchoes = [...]struct {
	rho, a, b, d float64
}{
	{rho: 0.5, a: 1, b: 2, d: 1},
	{rho: -1, a: 5, b: 4, d: 0.5},
	{rho: 0.5, a: 5, b: 7, d: 0.5},
	{rho: -0.25, a: 5, b: 11, d: 0.5},
	{rho: 0.25, a: 5, b: 13, d: 0.5},
}

// Model is a spherical-head HRTF model. Each response combines the
// interaural arrival delay, a one-pole/one-zero head-shadow filter and a
// short train of pinna echoes whose spacing grows with the pinna profile.
type Model struct {
	// HeadRadius in meters. Zero selects 8.75 cm.
	HeadRadius float64
	// SpeedOfSound in m/s. Zero selects 343 m/s.
	SpeedOfSound float64
}

// DefaultModel returns a Model with an average adult head.
func DefaultModel() Model {
	return Model{HeadRadius: defaultHeadRadius, SpeedOfSound: defaultSpeedOfSound}
}

// Taps returns the response length the model produces at rate.
func (m Model) Taps(rate int) int {
	if rate > 48000 {
		return 256
	}
	return 128
}

// Load builds the bank for key. It is deterministic: the same key always
// yields a bit-identical bank.
func (m Model) Load(key Key) (*FilterBank, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	radius := m.HeadRadius
	if radius <= 0 {
		radius = defaultHeadRadius
	}
	speed := m.SpeedOfSound
	if speed <= 0 {
		speed = defaultSpeedOfSound
	}

	fs := float64(key.SampleRate)
	taps := m.Taps(key.SampleRate)
	azimuths := RingAzimuths(key.Order)

	bank := &FilterBank{
		Key:      key,
		Azimuths: azimuths,
		Left:     make([][]float64, len(azimuths)),
		Right:    make([][]float64, len(azimuths)),
	}

	ears := [2]float64{math.Pi / 2, 3 * math.Pi / 2}
	for i, az := range azimuths {
		for e, earAz := range ears {
			ir, err := m.response(az, earAz, radius, speed, fs, taps, key.Pinna)
			if err != nil {
				return nil, err
			}
			if e == 0 {
				bank.Left[i] = ir
			} else {
				bank.Right[i] = ir
			}
		}
	}

	normalizeBank(bank, taps)
	return bank, nil
}

// response renders one ear's impulse response for a source at azimuth.
func (m Model) response(azimuth, earAz, radius, speed, fs float64, taps int, pinna Pinna) ([]float64, error) {
	// Angle between the source and the ear axis.
	psi := core.ClosestDistance(azimuth, earAz)

	var itd float64
	if psi < math.Pi/2 {
		itd = radius / speed * (1 - math.Cos(psi))
	} else {
		itd = radius / speed * (psi - math.Pi/2 + 1)
	}

	direct := make([]float64, taps)
	placeFractional(direct, modelPreDelay+itd*fs, 1)
	headShadow(direct, psi, radius, speed, fs)

	echoes := pinnaKernel(azimuth, fs, pinna)
	full, err := conv.Direct(direct, echoes)
	if err != nil {
		return nil, fmt.Errorf("hrtf: model convolution: %w", err)
	}

	return full[:taps], nil
}

// headShadow filters x in place with the bilinear transform of
// H(s) = (1 + α·s/(2ω0)) / (1 + s/(2ω0)), ω0 = c/a.
func headShadow(x []float64, psi, radius, speed, fs float64) {
	alpha := (1 + shadowAlphaMin/2) + (1-shadowAlphaMin/2)*math.Cos(psi/shadowThetaMin*math.Pi)
	tau := radius / (2 * speed)
	k := 2 * fs

	a0 := 1 + tau*k
	b0 := (1 + alpha*tau*k) / a0
	b1 := (1 - alpha*tau*k) / a0
	a1 := (1 - tau*k) / a0

	var x1, y1 float64
	for n, v := range x {
		y := b0*v + b1*x1 - a1*y1
		x1, y1 = v, y
		x[n] = y
	}
}

// pinnaKernel returns the sparse echo train for a source at azimuth.
func pinnaKernel(azimuth, fs float64, pinna Pinna) []float64 {
	scale := fs / referenceRate
	if pinna == Large {
		scale *= 1.3
	}

	// Signed angle from the front, in [-π, π].
	phi := azimuth
	if phi > math.Pi {
		phi -= core.TwoPi
	}
	c := math.Cos(phi / 2)

	longest := 0.0
	delays := make([]float64, len(pinnaEchoes))
	for i, e := range pinnaEchoes {
		delays[i] = scale * (e.a*c*math.Sin(e.d*math.Pi/2) + e.b)
		longest = math.Max(longest, delays[i])
	}

	kernel := make([]float64, int(math.Ceil(longest))+2)
	kernel[0] = 1
	for i, e := range pinnaEchoes {
		placeFractional(kernel, delays[i], e.rho)
	}
	return kernel
}

// placeFractional adds gain at a fractional index by linear interpolation.
func placeFractional(buf []float64, pos, gain float64) {
	i := int(math.Floor(pos))
	frac := pos - float64(i)
	if i >= 0 && i < len(buf) {
		buf[i] += gain * (1 - frac)
	}
	if i+1 >= 0 && i+1 < len(buf) {
		buf[i+1] += gain * frac
	}
}

// normalizeBank fades out every response and scales the whole bank so its
// largest coefficient equals modelPeak.
func normalizeBank(b *FilterBank, taps int) {
	fade := make([]float64, taps)
	for i := range fade {
		fade[i] = 1
	}
	for i := range modelFadeLen {
		fade[taps-modelFadeLen+i] = 0.5 * (1 + math.Cos(math.Pi*float64(i+1)/float64(modelFadeLen)))
	}

	peak := 0.0
	for i := range b.Left {
		for _, ir := range [][]float64{b.Left[i], b.Right[i]} {
			vecmath.MulBlockInPlace(ir, fade)
			for _, v := range ir {
				peak = math.Max(peak, math.Abs(v))
			}
		}
	}
	if peak == 0 {
		return
	}

	g := modelPeak / peak
	for i := range b.Left {
		vecmath.ScaleBlock(b.Left[i], b.Left[i], g)
		vecmath.ScaleBlock(b.Right[i], b.Right[i], g)
	}
}
