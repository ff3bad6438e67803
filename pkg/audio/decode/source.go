// ABOUTME: Sample source abstraction and file opener
// ABOUTME: Selects a decoder by file extension and wraps sources with limits
package decode

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/audioscope/pkg/audio"
)

const (
	// DefaultRawSampleRate is assumed for headerless PCM files
	DefaultRawSampleRate = 44100

	// TonePrefix selects a generated sine tone instead of a file, e.g. "tone:1000"
	TonePrefix = "tone:"

	// DefaultToneDuration bounds generated tones opened by name
	DefaultToneDuration = 30 * time.Second
)

// Source provides decoded 16-bit stereo sample pairs
type Source interface {
	// ReadPairs fills dst with the next pairs. Returns the number of pairs
	// read; io.EOF marks the end of the stream and may accompany n > 0.
	ReadPairs(dst []audio.SamplePair) (int, error)

	// Format describes the decoded stream
	Format() audio.Format

	// Metadata returns title, artist, album
	Metadata() (title, artist, album string)

	// Close releases the source
	Close() error
}

// Open creates a source for the given path, selected by file extension
func Open(path string) (Source, error) {
	if strings.HasPrefix(path, TonePrefix) {
		return openTone(strings.TrimPrefix(path, TonePrefix))
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	var source Source
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".wave":
		source, err = NewWAVSource(path)
	case ".mp3":
		source, err = NewMP3Source(path)
	case ".flac":
		source, err = NewFLACSource(path)
	case ".opus":
		source, err = NewOpusSource(path)
	case ".ogg", ".oga":
		source, err = NewVorbisSource(path)
	case ".pcm", ".raw":
		source, err = NewPCMSource(path, DefaultRawSampleRate)
	default:
		return nil, fmt.Errorf("%w: %s (supported: .wav, .mp3, .flac, .opus, .ogg, .pcm)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	f := source.Format()
	log.Printf("Opened %s: %s %dHz %dch %d-bit", filepath.Base(path), f.Codec, f.SampleRate, f.Channels, f.BitDepth)

	return source, nil
}

func openTone(freqText string) (Source, error) {
	freq, err := strconv.ParseFloat(freqText, 64)
	if err != nil || freq <= 0 {
		return nil, fmt.Errorf("%w: invalid tone frequency %q", ErrUnsupportedFormat, freqText)
	}
	tone := NewTone(freq, DefaultRawSampleRate, 0.5)
	return Limit(tone, int(DefaultToneDuration.Seconds()*DefaultRawSampleRate)), nil
}

// titleFromPath derives a display title from a file name
func titleFromPath(path string) string {
	filename := filepath.Base(path)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// limitedSource stops the wrapped source after a fixed number of pairs
type limitedSource struct {
	Source
	remaining int
}

// Limit returns a source that yields at most n pairs from src
func Limit(src Source, n int) Source {
	return &limitedSource{Source: src, remaining: n}
}

func (s *limitedSource) ReadPairs(dst []audio.SamplePair) (int, error) {
	if s.remaining <= 0 {
		return 0, io.EOF
	}
	if len(dst) > s.remaining {
		dst = dst[:s.remaining]
	}
	n, err := s.Source.ReadPairs(dst)
	s.remaining -= n
	if err == nil && s.remaining == 0 {
		err = io.EOF
	}
	return n, err
}

// checkLayout validates bit depth and channel count shared by all decoders
func checkLayout(bitDepth, channels int) error {
	if bitDepth != 16 {
		return fmt.Errorf("%w (got %d-bit)", ErrUnsupportedBitDepth, bitDepth)
	}
	if channels != 1 && channels != 2 {
		return fmt.Errorf("%w (got %d channels)", ErrUnsupportedChannels, channels)
	}
	return nil
}
