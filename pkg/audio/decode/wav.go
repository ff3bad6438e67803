// ABOUTME: WAV file source
// ABOUTME: Decodes 16-bit PCM WAV files using go-audio/wav
package decode

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/harperreed/audioscope/pkg/audio"
)

// WAVSource reads from a WAV file
type WAVSource struct {
	file    *os.File
	decoder *wav.Decoder
	buf     *goaudio.IntBuffer
	format  audio.Format
	title   string
	eof     bool
}

// NewWAVSource creates a new WAV audio source
func NewWAVSource(filePath string) (*WAVSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("%w: not a WAV file: %s", ErrInvalidFile, filePath)
	}
	if decoder.WavAudioFormat != 1 {
		f.Close()
		return nil, fmt.Errorf("%w: WAV audio format %d is not PCM", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	channels := int(decoder.NumChans)
	bitDepth := int(decoder.BitDepth)
	if err := checkLayout(bitDepth, channels); err != nil {
		f.Close()
		return nil, err
	}

	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to find WAV data chunk: %w", err)
	}

	return &WAVSource{
		file:    f,
		decoder: decoder,
		buf: &goaudio.IntBuffer{
			Format:         decoder.Format(),
			SourceBitDepth: bitDepth,
		},
		format: audio.Format{
			Codec:      "wav",
			SampleRate: int(decoder.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
		title: titleFromPath(filePath),
	}, nil
}

func (s *WAVSource) ReadPairs(dst []audio.SamplePair) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	channels := s.format.Channels
	want := len(dst) * channels
	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.decoder.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("wav decode error: %w", err)
	}

	frames := n / channels
	for i := 0; i < frames; i++ {
		if channels == 1 {
			dst[i] = audio.Duplicate(int16(s.buf.Data[i]))
			continue
		}
		dst[i] = audio.SamplePair{
			Left:  int16(s.buf.Data[i*2]),
			Right: int16(s.buf.Data[i*2+1]),
		}
	}

	if err == io.EOF || n < want {
		s.eof = true
		return frames, io.EOF
	}
	return frames, nil
}

func (s *WAVSource) Format() audio.Format { return s.format }
func (s *WAVSource) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *WAVSource) Close() error {
	return s.file.Close()
}
