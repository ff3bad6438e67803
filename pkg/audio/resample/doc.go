// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts stereo sample-pair streams between sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates and keeps the
// last frame of each chunk so consecutive chunks join without a gap.
//
// Example:
//
//	r := resample.New(48000, 44100)
//	out := make([]audio.SamplePair, r.OutputFramesNeeded(len(in)))
//	n := r.Resample(in, out)
package resample
