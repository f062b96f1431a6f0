// Package conv provides the FIR convolution engines used by the binaural
// decoder.
//
//   - Direct: O(N*M) time-domain linear convolution, used to compose short
//     impulse responses offline and as a reference in tests.
//   - Bank: a set of FIR filters from N input channels to M output channels.
//     Every output is the sum of its per-input convolutions, so one history
//     per input and one forward FFT per input block serve all outputs.
//
// # Bank processing
//
// A Bank can be driven one sample at a time or one block at a time, and the
// two paths may be interleaved freely: both read and write the same input
// history.
//
//	b, err := conv.NewBank(kernels, 64) // kernels[out][in][tap]
//	b.ProcessSample(out, in)            // direct form, one frame
//	err = b.ProcessBlock(outs, ins)     // FFT overlap-save per full block
//
// Full blocks run through an overlap-save FFT of size
// nextPow2(blockSize + kernelLen - 1); a trailing partial block falls back to
// the direct form. Neither path adds latency.
package conv
