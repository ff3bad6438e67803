// ABOUTME: Raw PCM file source
// ABOUTME: Reads headerless s16le stereo files
package decode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/audioscope/pkg/audio"
)

// PCMSource reads headerless little-endian 16-bit stereo PCM
type PCMSource struct {
	closer io.Closer
	reader *bufio.Reader
	buf    []byte
	format audio.Format
	title  string
	eof    bool
}

// NewPCMSource opens a raw PCM file recorded at sampleRate
func NewPCMSource(filePath string, sampleRate int) (*PCMSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PCM file: %w", err)
	}

	src := NewPCMReader(f, sampleRate)
	src.closer = f
	src.title = titleFromPath(filePath)
	return src, nil
}

// NewPCMReader wraps any reader of s16le stereo PCM
func NewPCMReader(r io.Reader, sampleRate int) *PCMSource {
	return &PCMSource{
		reader: bufio.NewReader(r),
		format: audio.Format{
			Codec:      "pcm",
			SampleRate: sampleRate,
			Channels:   2,
			BitDepth:   16,
		},
		title: "Raw PCM",
	}
}

func (s *PCMSource) ReadPairs(dst []audio.SamplePair) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	numBytes := len(dst) * 4
	if cap(s.buf) < numBytes {
		s.buf = make([]byte, numBytes)
	}
	buf := s.buf[:numBytes]

	n, err := io.ReadFull(s.reader, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("pcm read error: %w", err)
	}

	frames := n / 4
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

func (s *PCMSource) Format() audio.Format { return s.format }
func (s *PCMSource) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *PCMSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
