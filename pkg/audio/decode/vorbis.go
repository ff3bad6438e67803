// ABOUTME: Ogg Vorbis file source
// ABOUTME: Decodes Vorbis float frames into 16-bit stereo pairs using oggvorbis
package decode

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/harperreed/audioscope/pkg/audio"
	"github.com/jfreymuth/oggvorbis"
)

// vorbisReader is the subset of oggvorbis.Reader the source needs
type vorbisReader interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
}

// VorbisSource reads from an Ogg Vorbis file
type VorbisSource struct {
	file     io.Closer
	dec      vorbisReader
	channels int
	buf      []float32
	format   audio.Format
	title    string
	eof      bool
}

// NewVorbisSource creates a new Ogg Vorbis audio source
func NewVorbisSource(filePath string) (*VorbisSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Vorbis file: %w", err)
	}

	dec, err := oggvorbis.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode Vorbis: %w", err)
	}

	s, err := newVorbisSource(dec, f, titleFromPath(filePath))
	if err != nil {
		f.Close()
		return nil, err
	}

	log.Printf("Loaded Vorbis: %s (sample rate: %d Hz, channels: %d)", s.title, s.format.SampleRate, s.channels)
	return s, nil
}

func newVorbisSource(dec vorbisReader, closer io.Closer, title string) (*VorbisSource, error) {
	// Vorbis is lossy float; it is rendered at 16 bits so only the layout is checked
	if err := checkLayout(16, dec.Channels()); err != nil {
		return nil, err
	}
	return &VorbisSource{
		file:     closer,
		dec:      dec,
		channels: dec.Channels(),
		format: audio.Format{
			Codec:      "vorbis",
			SampleRate: dec.SampleRate(),
			Channels:   dec.Channels(),
			BitDepth:   16,
		},
		title: title,
	}, nil
}

func (s *VorbisSource) ReadPairs(dst []audio.SamplePair) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) * s.channels
	if cap(s.buf) < want {
		s.buf = make([]float32, want)
	}
	buf := s.buf[:want]

	// Read returns the number of interleaved values, not frames
	n, err := s.dec.Read(buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("vorbis decode error: %w", err)
	}

	frames := n / s.channels
	for i := 0; i < frames; i++ {
		if s.channels == 1 {
			dst[i] = audio.Duplicate(audio.FloatToInt16(float64(buf[i])))
			continue
		}
		dst[i] = audio.SamplePair{
			Left:  audio.FloatToInt16(float64(buf[i*2])),
			Right: audio.FloatToInt16(float64(buf[i*2+1])),
		}
	}

	if err == io.EOF || (n == 0 && len(dst) > 0) {
		s.eof = true
		return frames, io.EOF
	}
	return frames, nil
}

func (s *VorbisSource) Format() audio.Format { return s.format }
func (s *VorbisSource) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *VorbisSource) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
