// ABOUTME: Test tone generator source
// ABOUTME: Generates an endless sine wave on both channels
package decode

import (
	"math"

	"github.com/harperreed/audioscope/pkg/audio"
)

// ToneSource generates a sine tone
type ToneSource struct {
	sampleIndex uint64
	frequency   float64
	amplitude   float64
	sampleRate  int
}

// NewTone creates a sine generator; amplitude is a fraction of full scale
func NewTone(frequency float64, sampleRate int, amplitude float64) *ToneSource {
	return &ToneSource{
		frequency:  frequency,
		amplitude:  amplitude,
		sampleRate: sampleRate,
	}
}

func (s *ToneSource) ReadPairs(dst []audio.SamplePair) (int, error) {
	for i := range dst {
		t := float64(s.sampleIndex+uint64(i)) / float64(s.sampleRate)
		sample := math.Sin(2 * math.Pi * s.frequency * t)
		dst[i] = audio.Duplicate(audio.FloatToInt16(sample * s.amplitude))
	}
	s.sampleIndex += uint64(len(dst))
	return len(dst), nil
}

func (s *ToneSource) Format() audio.Format {
	return audio.Format{Codec: "tone", SampleRate: s.sampleRate, Channels: 2, BitDepth: 16}
}
func (s *ToneSource) Metadata() (string, string, string) {
	return "Test Tone", "audioscope", "Test Signal"
}
func (s *ToneSource) Close() error { return nil }
