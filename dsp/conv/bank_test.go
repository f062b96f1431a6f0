package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-ambisonic/internal/testutil"
)

// referenceBank computes the bank output offline with Direct.
func referenceBank(t *testing.T, kernels [][][]float64, in [][]float64) [][]float64 {
	t.Helper()

	n := len(in[0])
	out := make([][]float64, len(kernels))
	for o, row := range kernels {
		out[o] = make([]float64, n)
		for i, k := range row {
			full, err := Direct(in[i], k)
			if err != nil {
				t.Fatalf("Direct() error = %v", err)
			}
			for j := range n {
				out[o][j] += full[j]
			}
		}
	}
	return out
}

func testKernels() [][][]float64 {
	return [][][]float64{
		{
			{1, 0.5, 0.25, 0.125, 0.0625},
			{0, 0, 1},
			{0.3, -0.2},
		},
		{
			{-1, 0.1},
			{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
			{0, 0, 0, 0, 1},
		},
	}
}

func testInput(n int) [][]float64 {
	return [][]float64{
		testutil.DeterministicNoise(1, 1, n),
		testutil.DeterministicSine(440, 44100, 0.5, n),
		testutil.Impulse(n, 3),
	}
}

func TestBankSampleMatchesReference(t *testing.T) {
	kernels := testKernels()
	in := testInput(50)
	want := referenceBank(t, kernels, in)

	b, err := NewBank(kernels, 8)
	if err != nil {
		t.Fatalf("NewBank() error = %v", err)
	}

	got := [][]float64{make([]float64, 50), make([]float64, 50)}
	frameIn := make([]float64, 3)
	frameOut := make([]float64, 2)
	for n := range 50 {
		for i := range in {
			frameIn[i] = in[i][n]
		}
		b.ProcessSample(frameOut, frameIn)
		got[0][n], got[1][n] = frameOut[0], frameOut[1]
	}

	for o := range want {
		testutil.RequireSliceNearlyEqual(t, got[o], want[o], 1e-12)
	}
}

func TestBankBlockMatchesReference(t *testing.T) {
	kernels := testKernels()
	in := testInput(64)
	want := referenceBank(t, kernels, in)

	for _, blockSize := range []int{1, 4, 7, 16, 64} {
		b, err := NewBank(kernels, blockSize)
		if err != nil {
			t.Fatalf("NewBank(%d) error = %v", blockSize, err)
		}

		got := [][]float64{make([]float64, 64), make([]float64, 64)}
		if err := b.ProcessBlock(got, in); err != nil {
			t.Fatalf("ProcessBlock() error = %v", err)
		}

		for o := range want {
			testutil.RequireSliceNearlyEqual(t, got[o], want[o], 1e-9)
		}
	}
}

func TestBankInterleavedPaths(t *testing.T) {
	kernels := testKernels()
	in := testInput(60)
	want := referenceBank(t, kernels, in)

	b, err := NewBank(kernels, 8)
	if err != nil {
		t.Fatalf("NewBank() error = %v", err)
	}

	got := [][]float64{make([]float64, 60), make([]float64, 60)}

	// Three single frames, a block call with a partial tail, then frames again.
	frameIn := make([]float64, 3)
	frameOut := make([]float64, 2)
	step := func(n int) {
		for i := range in {
			frameIn[i] = in[i][n]
		}
		b.ProcessSample(frameOut, frameIn)
		got[0][n], got[1][n] = frameOut[0], frameOut[1]
	}
	for n := range 3 {
		step(n)
	}

	sub := func(buf [][]float64, lo, hi int) [][]float64 {
		out := make([][]float64, len(buf))
		for i := range buf {
			out[i] = buf[i][lo:hi]
		}
		return out
	}
	if err := b.ProcessBlock(sub(got, 3, 30), sub(in, 3, 30)); err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}
	for n := 30; n < 60; n++ {
		step(n)
	}

	for o := range want {
		testutil.RequireSliceNearlyEqual(t, got[o], want[o], 1e-9)
	}
}

func TestBankReset(t *testing.T) {
	b, err := NewBank([][][]float64{{{1, 1, 1}}}, 4)
	if err != nil {
		t.Fatalf("NewBank() error = %v", err)
	}

	out := make([]float64, 1)
	b.ProcessSample(out, []float64{1})
	b.Reset()
	b.ProcessSample(out, []float64{0})
	if out[0] != 0 {
		t.Fatalf("output after Reset = %v, want 0", out[0])
	}
}

func TestBank32(t *testing.T) {
	b, err := NewBank32([][][]float32{{{1, 0.5}}, {{0, 2}}}, 2)
	if err != nil {
		t.Fatalf("NewBank32() error = %v", err)
	}

	in := [][]float32{{1, 0, 0, 0, 0}}
	out := [][]float32{make([]float32, 5), make([]float32, 5)}
	if err := b.ProcessBlock(out, in); err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	want := [][]float32{{1, 0.5, 0, 0, 0}, {0, 2, 0, 0, 0}}
	for o := range want {
		for n := range want[o] {
			if d := out[o][n] - want[o][n]; d > 1e-5 || d < -1e-5 {
				t.Fatalf("out[%d][%d] = %v, want %v", o, n, out[o][n], want[o][n])
			}
		}
	}
}

func TestBankAccessors(t *testing.T) {
	b, err := NewBank(testKernels(), 16)
	if err != nil {
		t.Fatalf("NewBank() error = %v", err)
	}
	if b.Inputs() != 3 || b.Outputs() != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", b.Inputs(), b.Outputs())
	}
	if b.KernelLen() != 7 {
		t.Fatalf("KernelLen() = %d, want 7", b.KernelLen())
	}
	if b.BlockSize() != 16 || b.FFTSize() != 32 {
		t.Fatalf("BlockSize/FFTSize = %d/%d, want 16/32", b.BlockSize(), b.FFTSize())
	}
}

func TestBankErrors(t *testing.T) {
	if _, err := NewBank(testKernels(), 0); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("err = %v, want ErrInvalidBlockSize", err)
	}
	if _, err := NewBank(nil, 4); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("err = %v, want ErrEmptyKernel", err)
	}
	if _, err := NewBank([][][]float64{{{}}}, 4); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("err = %v, want ErrEmptyKernel", err)
	}
	ragged := [][][]float64{{{1}, {1}}, {{1}}}
	if _, err := NewBank(ragged, 4); !errors.Is(err, ErrKernelShape) {
		t.Fatalf("err = %v, want ErrKernelShape", err)
	}

	b, err := NewBank(testKernels(), 4)
	if err != nil {
		t.Fatalf("NewBank() error = %v", err)
	}
	in := testInput(8)
	if err := b.ProcessBlock([][]float64{make([]float64, 8)}, in); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
	if err := b.ProcessBlock([][]float64{make([]float64, 8), make([]float64, 7)}, in); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func BenchmarkBankProcessBlock(b *testing.B) {
	kernels := make([][][]float64, 2)
	for o := range kernels {
		kernels[o] = make([][]float64, 8)
		for i := range kernels[o] {
			kernels[o][i] = testutil.DeterministicNoise(int64(o*8+i), 0.1, 256)
		}
	}
	bank, err := NewBank(kernels, 256)
	if err != nil {
		b.Fatal(err)
	}

	in := make([][]float64, 8)
	for i := range in {
		in[i] = testutil.DeterministicNoise(int64(i), 1, 256)
	}
	out := [][]float64{make([]float64, 256), make([]float64, 256)}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if err := bank.ProcessBlock(out, in); err != nil {
			b.Fatal(err)
		}
	}
}
