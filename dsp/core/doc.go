// Package core holds the small numeric helpers shared by the ambisonic
// decoders and the HRTF providers: circular angle arithmetic, level
// conversion, buffer reuse and common processor settings.
package core
