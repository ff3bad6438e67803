// ABOUTME: Runtime configuration for the player and visualizer
// ABOUTME: Holds defaults, derived sizes and validation
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned by Validate for out-of-range settings
var ErrInvalid = errors.New("invalid configuration")

// TailPolicy decides what happens to a final partial packet
type TailPolicy int

const (
	// TailDrop discards pairs that do not fill a whole packet
	TailDrop TailPolicy = iota
	// TailPad zero-fills the final packet to full size
	TailPad
)

func (p TailPolicy) String() string {
	switch p {
	case TailDrop:
		return "drop"
	case TailPad:
		return "pad"
	default:
		return fmt.Sprintf("TailPolicy(%d)", int(p))
	}
}

// Config is built once at startup and passed by value
type Config struct {
	// Audio
	SampleRate      int
	Channels        int
	PacketSize      int // sample pairs per packet
	QueueCapacity   int // packets per queue
	FramesPerBuffer int
	Latency         time.Duration
	Preroll         time.Duration
	TailPolicy      TailPolicy

	// Visualizer
	Columns       int
	Height        int
	Multiplier    int
	FrameRate     int
	FrameOverscan float64
	Smoothing     float64
	MinMagnitude  float64 // floor on int16-scale |X| before log10, keeps every bar >= 0
}

// Default returns the stock configuration
func Default() Config {
	const packetSize = 256
	return Config{
		SampleRate:      44100,
		Channels:        2,
		PacketSize:      packetSize,
		QueueCapacity:   100,
		FramesPerBuffer: packetSize * 4,
		Latency:         100 * time.Millisecond,
		Preroll:         500 * time.Millisecond,
		TailPolicy:      TailDrop,

		Columns:       512,
		Height:        384,
		Multiplier:    2,
		FrameRate:     60,
		FrameOverscan: 1.2,
		Smoothing:     0.75,
		MinMagnitude:  1.0,
	}
}

// WindowLen is the number of samples fed to each transform
func (c Config) WindowLen() int {
	return c.Columns * c.Multiplier
}

// SamplesPerFrame is how many new samples the analyzer takes per display frame
func (c Config) SamplesPerFrame() int {
	return int(float64(c.SampleRate) / float64(c.FrameRate) * c.FrameOverscan)
}

// BufferDuration is the playback time covered by one full queue
func (c Config) BufferDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	pairs := c.PacketSize * c.QueueCapacity
	return time.Duration(pairs) * time.Second / time.Duration(c.SampleRate)
}

// Validate checks every setting and returns the first problem found
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive (got %d)", ErrInvalid, c.SampleRate)
	case c.Channels != 2:
		return fmt.Errorf("%w: only stereo output is supported (got %d channels)", ErrInvalid, c.Channels)
	case c.PacketSize <= 0:
		return fmt.Errorf("%w: packet size must be positive (got %d)", ErrInvalid, c.PacketSize)
	case c.QueueCapacity <= 0:
		return fmt.Errorf("%w: queue capacity must be positive (got %d)", ErrInvalid, c.QueueCapacity)
	case c.FramesPerBuffer <= 0:
		return fmt.Errorf("%w: frames per buffer must be positive (got %d)", ErrInvalid, c.FramesPerBuffer)
	case c.Latency < 0 || c.Preroll < 0:
		return fmt.Errorf("%w: latency and preroll cannot be negative", ErrInvalid)
	case c.TailPolicy != TailDrop && c.TailPolicy != TailPad:
		return fmt.Errorf("%w: unknown tail policy %v", ErrInvalid, c.TailPolicy)
	case c.Columns <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: display must be at least 1x1 (got %dx%d)", ErrInvalid, c.Columns, c.Height)
	case c.Multiplier <= 0:
		return fmt.Errorf("%w: buffer multiplier must be positive (got %d)", ErrInvalid, c.Multiplier)
	case c.FrameRate <= 0:
		return fmt.Errorf("%w: frame rate must be positive (got %d)", ErrInvalid, c.FrameRate)
	case c.FrameOverscan <= 0:
		return fmt.Errorf("%w: frame overscan must be positive (got %g)", ErrInvalid, c.FrameOverscan)
	case c.Smoothing < 0 || c.Smoothing >= 1:
		return fmt.Errorf("%w: smoothing must be in [0, 1) (got %g)", ErrInvalid, c.Smoothing)
	case c.MinMagnitude < 1:
		return fmt.Errorf("%w: minimum magnitude must be at least 1 (got %g)", ErrInvalid, c.MinMagnitude)
	}
	return nil
}
