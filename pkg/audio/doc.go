// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines SamplePair, Packet, Format and sample conversion functions
// Package audio provides the sample types shared by the playback pipeline and
// the spectrum analyzer.
//
// This package defines:
//   - SamplePair: one stereo frame of 16-bit signed PCM
//   - Packet: a fixed-length run of SamplePairs moved between goroutines
//   - Format: describes a decoded source (codec, sample rate, channels, bit depth)
//
// It also provides conversions between int16 PCM and the normalized float32
// samples expected by audio devices.
//
// Example:
//
//	p := audio.NewPacket(256)
//	out := make([]float32, 2*len(p))
//	audio.Interleave(p, out)
package audio
