// ABOUTME: FLAC file source
// ABOUTME: Decodes 16-bit FLAC frame by frame using mewkiz/flac
package decode

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/harperreed/audioscope/pkg/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// FLACSource reads from a FLAC file
type FLACSource struct {
	file   *os.File
	stream *flac.Stream
	frame  *frame.Frame // current frame being drained
	pos    int          // next sample index within frame
	format audio.Format
	title  string
	eof    bool
}

// NewFLACSource creates a new FLAC audio source
func NewFLACSource(filePath string) (*FLACSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}

	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	sampleRate := int(info.SampleRate)
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	if err := checkLayout(bitDepth, channels); err != nil {
		f.Close()
		return nil, err
	}

	title := titleFromPath(filePath)
	log.Printf("Loaded FLAC: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		title, sampleRate, channels, bitDepth)

	return &FLACSource{
		file:   f,
		stream: stream,
		format: audio.Format{
			Codec:      "flac",
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   bitDepth,
		},
		title: title,
	}, nil
}

func (s *FLACSource) ReadPairs(dst []audio.SamplePair) (int, error) {
	read := 0
	for read < len(dst) {
		if s.frame == nil || s.pos >= int(s.frame.BlockSize) {
			if s.eof {
				break
			}
			fr, err := s.stream.ParseNext()
			if err == io.EOF {
				s.eof = true
				break
			}
			if err != nil {
				return read, fmt.Errorf("flac decode error: %w", err)
			}
			s.frame = fr
			s.pos = 0
		}

		left := s.frame.Subframes[0].Samples
		right := left
		if s.format.Channels == 2 {
			right = s.frame.Subframes[1].Samples
		}
		for s.pos < int(s.frame.BlockSize) && read < len(dst) {
			dst[read] = audio.SamplePair{
				Left:  int16(left[s.pos]),
				Right: int16(right[s.pos]),
			}
			s.pos++
			read++
		}
	}

	if s.eof && (s.frame == nil || s.pos >= int(s.frame.BlockSize)) {
		return read, io.EOF
	}
	return read, nil
}

func (s *FLACSource) Format() audio.Format { return s.format }
func (s *FLACSource) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *FLACSource) Close() error {
	s.stream.Close()
	return s.file.Close()
}
