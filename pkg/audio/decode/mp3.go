// ABOUTME: MP3 file source
// ABOUTME: Decodes MP3 to 16-bit stereo pairs using go-mp3
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/go-mp3"
	"github.com/harperreed/audioscope/pkg/audio"
)

// mp3FrameBytes is the size of one decoded frame (go-mp3 always emits s16le stereo)
const mp3FrameBytes = 4

// MP3Source reads from an MP3 file
type MP3Source struct {
	file    *os.File
	decoder *mp3.Decoder
	buf     []byte
	format  audio.Format
	title   string
	eof     bool
}

// NewMP3Source creates a new MP3 audio source
func NewMP3Source(filePath string) (*MP3Source, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	title := titleFromPath(filePath)
	log.Printf("Loaded MP3: %s (sample rate: %d Hz)", title, decoder.SampleRate())

	return &MP3Source{
		file:    f,
		decoder: decoder,
		format: audio.Format{
			Codec:      "mp3",
			SampleRate: decoder.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
		title: title,
	}, nil
}

func (s *MP3Source) ReadPairs(dst []audio.SamplePair) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	numBytes := len(dst) * mp3FrameBytes
	if cap(s.buf) < numBytes {
		s.buf = make([]byte, numBytes)
	}
	buf := s.buf[:numBytes]

	n, err := io.ReadFull(s.decoder, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("mp3 decode error: %w", err)
	}

	frames := n / mp3FrameBytes
	for i := 0; i < frames; i++ {
		dst[i] = audio.SamplePair{
			Left:  int16(binary.LittleEndian.Uint16(buf[i*4:])),
			Right: int16(binary.LittleEndian.Uint16(buf[i*4+2:])),
		}
	}

	if err != nil {
		s.eof = true
		return frames, io.EOF
	}
	return frames, nil
}

func (s *MP3Source) Format() audio.Format { return s.format }
func (s *MP3Source) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *MP3Source) Close() error {
	return s.file.Close()
}
