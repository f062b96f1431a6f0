// Package hrtf supplies head-related impulse responses for binaural
// decoding of ambisonic fields.
//
// A [FilterBank] holds one left/right impulse-response pair per virtual
// loudspeaker of the ring used by the binaural decoder. Banks are keyed by
// decomposition order, pinna profile and sample rate and are produced by a
// [Provider]:
//
//   - [Model]: a deterministic spherical-head model (interaural delay,
//     head-shadow filter and pinna echoes) that needs no data files.
//   - [WAVSet]: measured responses stored as stereo WAV files in an fs.FS.
//   - [Cache]: memoizes any provider so reloading a key returns the same bank.
//
// Supported sample rates are 44100, 48000, 88200 and 96000 Hz.
package hrtf
