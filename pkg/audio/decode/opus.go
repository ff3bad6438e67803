// ABOUTME: Ogg Opus file source
// ABOUTME: Decodes stereo Ogg Opus files to 16-bit pairs using hraban/opus
package decode

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/harperreed/audioscope/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// opusSampleRate is the fixed decode rate of libopusfile
const opusSampleRate = 48000

// OpusSource reads from an Ogg Opus file.
// Streams are decoded as interleaved stereo.
type OpusSource struct {
	file    *os.File
	stream  *opus.Stream
	pcm     []int16
	pending []int16 // decoded samples not yet handed out
	format  audio.Format
	title   string
	eof     bool
}

// NewOpusSource creates a new Ogg Opus audio source
func NewOpusSource(filePath string) (*OpusSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Opus file: %w", err)
	}

	stream, err := opus.NewStream(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode Opus: %w", err)
	}

	title := titleFromPath(filePath)
	log.Printf("Loaded Opus: %s (sample rate: %d Hz)", title, opusSampleRate)

	return &OpusSource{
		file:   f,
		stream: stream,
		pcm:    make([]int16, 5760*2), // max frame size, stereo
		format: audio.Format{
			Codec:      "opus",
			SampleRate: opusSampleRate,
			Channels:   2,
			BitDepth:   16,
		},
		title: title,
	}, nil
}

func (s *OpusSource) ReadPairs(dst []audio.SamplePair) (int, error) {
	read := 0
	for read < len(dst) {
		if len(s.pending) < 2 {
			if s.eof {
				break
			}
			n, err := s.stream.Read(s.pcm)
			if err != nil && err != io.EOF {
				return read, fmt.Errorf("opus decode error: %w", err)
			}
			if err == io.EOF || n == 0 {
				s.eof = true
				break
			}
			s.pending = s.pcm[:n*2]
			continue
		}
		dst[read] = audio.SamplePair{Left: s.pending[0], Right: s.pending[1]}
		s.pending = s.pending[2:]
		read++
	}

	if s.eof && len(s.pending) < 2 {
		return read, io.EOF
	}
	return read, nil
}

func (s *OpusSource) Format() audio.Format { return s.format }
func (s *OpusSource) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *OpusSource) Close() error {
	s.stream.Close()
	return s.file.Close()
}
