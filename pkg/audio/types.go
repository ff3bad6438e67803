// ABOUTME: Audio type definitions
// ABOUTME: Defines sample pairs, packets, formats and int16/float conversions
package audio

import "math"

const (
	// int16 PCM range constants
	MaxInt16 = 32767
	MinInt16 = -32768

	// int16Scale maps int16 PCM onto [-1.0, 1.0)
	int16Scale = 32768.0
)

// SamplePair is one stereo frame of 16-bit signed PCM
type SamplePair struct {
	Left  int16
	Right int16
}

// Packet is a fixed-length run of sample pairs.
// Packets placed on a pipeline queue are always fully populated.
type Packet []SamplePair

// NewPacket allocates a zeroed packet of n pairs
func NewPacket(n int) Packet {
	return make(Packet, n)
}

// Format describes a decoded audio source
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Int16ToFloat converts an int16 sample to float32 in [-1.0, 1.0)
func Int16ToFloat(sample int16) float32 {
	return float32(sample) / int16Scale
}

// FloatToInt16 converts a float sample to int16, clamping out-of-range values
func FloatToInt16(sample float64) int16 {
	scaled := math.Round(sample * int16Scale)
	if scaled > MaxInt16 {
		return MaxInt16
	}
	if scaled < MinInt16 {
		return MinInt16
	}
	return int16(scaled)
}

// Interleave writes p into dst as L,R,L,R... floats and returns the number of
// floats written. It stops early if dst is too short for the whole packet.
func Interleave(p Packet, dst []float32) int {
	n := 0
	for _, pair := range p {
		if n+1 >= len(dst) {
			break
		}
		dst[n] = Int16ToFloat(pair.Left)
		dst[n+1] = Int16ToFloat(pair.Right)
		n += 2
	}
	return n
}

// Duplicate returns a stereo pair carrying the same sample on both channels
func Duplicate(sample int16) SamplePair {
	return SamplePair{Left: sample, Right: sample}
}
