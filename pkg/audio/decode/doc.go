// ABOUTME: Audio source package for decoding files into stereo int16 pairs
// ABOUTME: Provides the Source interface and WAV, MP3, FLAC, Opus, Vorbis, raw PCM and tone sources
// Package decode turns audio files into a lazy stream of 16-bit stereo
// sample pairs.
//
// Supports: WAV, MP3, FLAC, Ogg Opus, Ogg Vorbis and headerless s16le PCM.
// Lossy codecs are rendered at 16 bits; otherwise only 16-bit
// signed input is accepted; mono input is duplicated onto both channels.
//
// All sources implement the Source interface and report exhaustion with
// io.EOF.
//
// Example:
//
//	src, err := decode.Open("song.wav")
//	pairs := make([]audio.SamplePair, 1024)
//	n, err := src.ReadPairs(pairs)
package decode
