// Package ambisonic decodes planar (2D) higher-order ambisonic sound fields
// to loudspeaker arrays and headphones.
//
// A field of decomposition order N is carried by 2N+1 circular harmonics,
// ordered h[0], h[-1], h[1], h[-2], h[2], ... h[N], where h[-k] is the
// sin(kθ) component and h[k] the cos(kθ) component. Azimuths are in
// radians, 0 at the front, increasing counterclockwise.
//
// Decoders:
//
//   - [RegularT]: closed-form decoding matrix for evenly spaced loudspeakers.
//     Needs at least 2N+1 channels.
//   - [IrregularT]: decodes to a dense virtual ring and pans every physical
//     loudspeaker between its two nearest virtual neighbours. Any number of
//     channels, any placement.
//   - [BinauralT]: decodes to a virtual ring of 2N+2 loudspeakers and
//     convolves each with left/right head-related impulse responses from an
//     [hrtf.Provider].
//   - [MultiT]: owns one decoder of each kind and dispatches to the one
//     selected by its [Mode].
//
// Every decoder has a float64 and a float32 flavour (Regular, Regular32,
// ...). Configuration changes rebuild matrices and filter banks completely
// before returning; a rejected change leaves the decoder untouched.
// Process and ProcessBlock never allocate. Decoders are not safe for
// concurrent use: callers must serialize configuration changes with audio
// processing.
//
// Index arguments of accessors (harmonic or channel indices) are
// preconditions: an out-of-range index panics with an error wrapping
// [ErrHarmonicOutOfRange] or [ErrChannelOutOfRange]. Setters taking an
// index return those errors instead.
package ambisonic
