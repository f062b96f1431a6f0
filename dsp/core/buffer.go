package core

// Float is the sample type set accepted by the generic helpers.
type Float interface {
	~float32 | ~float64
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen[F Float](buf []F, n int) []F {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]F, n)
}

// Convert copies src into dst with a precision change and returns the
// number of converted elements.
func Convert[D, S Float](dst []D, src []S) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = D(src[i])
	}
	return n
}

// Planar allocates channels buffers of n samples each.
func Planar[F Float](channels, n int) [][]F {
	out := make([][]F, channels)
	for i := range out {
		out[i] = make([]F, n)
	}
	return out
}
