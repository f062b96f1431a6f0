package conv

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

// BankT is a multi-input, multi-output FIR filter bank. Output o is
// sum_i (input_i * kernel[o][i]). All kernels share one length; shorter
// kernels are zero padded at construction.
//
// The type parameters F and C select precision.
type BankT[F algofft.Float, C algofft.Complex] struct {
	inputs    int
	outputs   int
	kernelLen int
	blockSize int
	fftSize   int

	kernels [][][]F // [out][in][tap]
	spectra [][][]C // [out][in][bin]

	plan *algofft.Plan[C]

	// history[i] holds kernelLen-1 past samples followed by room for one
	// block; pos is the next write index, shared by every input.
	history [][]F
	pos     int

	frame []C
	accum [][]C

	sampleIn  []F
	sampleOut []F
}

// Bank is the float64 specialization of BankT.
type Bank = BankT[float64, complex128]

// Bank32 is the float32 specialization of BankT.
type Bank32 = BankT[float32, complex64]

// NewBankT creates a filter bank from kernels indexed [output][input][tap].
// blockSize is the FFT block length used by ProcessBlock.
func NewBankT[F algofft.Float, C algofft.Complex](kernels [][][]F, blockSize int) (*BankT[F, C], error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	if len(kernels) == 0 || len(kernels[0]) == 0 {
		return nil, ErrEmptyKernel
	}

	outputs := len(kernels)
	inputs := len(kernels[0])
	kernelLen := 0
	for o, row := range kernels {
		if len(row) != inputs {
			return nil, fmt.Errorf("%w: output %d has %d inputs, want %d", ErrKernelShape, o, len(row), inputs)
		}
		for _, k := range row {
			kernelLen = max(kernelLen, len(k))
		}
	}
	if kernelLen == 0 {
		return nil, ErrEmptyKernel
	}

	fftSize := nextPowerOf2(blockSize + kernelLen - 1)
	plan, err := algofft.NewPlanT[C](fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	b := &BankT[F, C]{
		inputs:    inputs,
		outputs:   outputs,
		kernelLen: kernelLen,
		blockSize: blockSize,
		fftSize:   fftSize,
		kernels:   make([][][]F, outputs),
		spectra:   make([][][]C, outputs),
		plan:      plan,
		history:   make([][]F, inputs),
		pos:       kernelLen - 1,
		frame:     make([]C, fftSize),
		accum:     make([][]C, outputs),
		sampleIn:  make([]F, inputs),
		sampleOut: make([]F, outputs),
	}

	for i := range b.history {
		b.history[i] = make([]F, kernelLen-1+blockSize)
	}

	for o, row := range kernels {
		b.kernels[o] = make([][]F, inputs)
		b.spectra[o] = make([][]C, inputs)
		b.accum[o] = make([]C, fftSize)
		for i, k := range row {
			padded := make([]F, kernelLen)
			copy(padded, k)
			b.kernels[o][i] = padded

			spec := make([]C, fftSize)
			for n, v := range padded {
				spec[n] = toComplex[F, C](v)
			}
			if err := plan.Forward(spec, spec); err != nil {
				return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
			}
			b.spectra[o][i] = spec
		}
	}

	return b, nil
}

// NewBank creates a float64 filter bank.
func NewBank(kernels [][][]float64, blockSize int) (*Bank, error) {
	return NewBankT[float64, complex128](kernels, blockSize)
}

// NewBank32 creates a float32 filter bank.
func NewBank32(kernels [][][]float32, blockSize int) (*Bank32, error) {
	return NewBankT[float32, complex64](kernels, blockSize)
}

// ProcessSample filters one frame. in must hold at least Inputs() samples
// and out at least Outputs() samples.
func (b *BankT[F, C]) ProcessSample(out, in []F) {
	pos := b.pos
	for i := range b.inputs {
		b.history[i][pos] = in[i]
	}

	for o := range b.outputs {
		var sum F
		for i, k := range b.kernels[o] {
			h := b.history[i]
			for j, coeff := range k {
				sum += coeff * h[pos-j]
			}
		}
		out[o] = sum
	}

	b.pos++
	if b.pos == len(b.history[0]) {
		b.compact()
	}
}

// ProcessBlock filters planar buffers: in[input][n] into out[output][n].
// Every channel buffer must have the same length. Full blocks of BlockSize()
// samples run through the FFT path; a trailing partial block is filtered in
// direct form.
func (b *BankT[F, C]) ProcessBlock(out, in [][]F) error {
	if len(in) != b.inputs {
		return fmt.Errorf("%w: %d input channels, want %d", ErrLengthMismatch, len(in), b.inputs)
	}
	if len(out) != b.outputs {
		return fmt.Errorf("%w: %d output channels, want %d", ErrLengthMismatch, len(out), b.outputs)
	}

	n := len(in[0])
	for i, ch := range in {
		if len(ch) != n {
			return fmt.Errorf("%w: input %d has %d samples, want %d", ErrLengthMismatch, i, len(ch), n)
		}
	}
	for o, ch := range out {
		if len(ch) != n {
			return fmt.Errorf("%w: output %d has %d samples, want %d", ErrLengthMismatch, o, len(ch), n)
		}
	}

	off := 0
	for ; off+b.blockSize <= n; off += b.blockSize {
		if err := b.processFFT(out, in, off); err != nil {
			return err
		}
	}

	for ; off < n; off++ {
		for i := range b.inputs {
			b.sampleIn[i] = in[i][off]
		}
		b.ProcessSample(b.sampleOut, b.sampleIn)
		for o := range b.outputs {
			out[o][off] = b.sampleOut[o]
		}
	}

	return nil
}

// processFFT runs one overlap-save block starting at off.
func (b *BankT[F, C]) processFFT(out, in [][]F, off int) error {
	hist := b.kernelLen - 1
	if b.pos != hist {
		b.compact()
	}

	for o := range b.outputs {
		clear(b.accum[o])
	}

	for i := range b.inputs {
		h := b.history[i]
		copy(h[hist:], in[i][off:off+b.blockSize])

		clear(b.frame)
		for n, v := range h {
			b.frame[n] = toComplex[F, C](v)
		}
		if err := b.plan.Forward(b.frame, b.frame); err != nil {
			return fmt.Errorf("conv: forward FFT failed: %w", err)
		}

		for o := range b.outputs {
			spec := b.spectra[o][i]
			acc := b.accum[o]
			for k := range acc {
				acc[k] += b.frame[k] * spec[k]
			}
		}
	}

	for o := range b.outputs {
		acc := b.accum[o]
		if err := b.plan.Inverse(acc, acc); err != nil {
			return fmt.Errorf("conv: inverse FFT failed: %w", err)
		}
		dst := out[o][off : off+b.blockSize]
		for n := range dst {
			dst[n] = toFloat[F, C](acc[hist+n])
		}
	}

	b.pos = hist + b.blockSize
	b.compact()

	return nil
}

// compact moves the most recent kernelLen-1 samples of every history to the
// front so a full block fits behind them.
func (b *BankT[F, C]) compact() {
	hist := b.kernelLen - 1
	if b.pos == hist {
		return
	}
	for _, h := range b.history {
		copy(h, h[b.pos-hist:b.pos])
	}
	b.pos = hist
}

// Reset clears the input history.
func (b *BankT[F, C]) Reset() {
	for _, h := range b.history {
		clear(h)
	}
	b.pos = b.kernelLen - 1
}

// Inputs returns the number of input channels.
func (b *BankT[F, C]) Inputs() int { return b.inputs }

// Outputs returns the number of output channels.
func (b *BankT[F, C]) Outputs() int { return b.outputs }

// KernelLen returns the common (padded) kernel length.
func (b *BankT[F, C]) KernelLen() int { return b.kernelLen }

// BlockSize returns the FFT block length.
func (b *BankT[F, C]) BlockSize() int { return b.blockSize }

// FFTSize returns the FFT size used by the block path.
func (b *BankT[F, C]) FFTSize() int { return b.fftSize }

func toComplex[F algofft.Float, C algofft.Complex](v F) C {
	return C(complex(float64(v), 0))
}

func toFloat[F algofft.Float, C algofft.Complex](c C) F {
	return F(real(complex128(c)))
}
