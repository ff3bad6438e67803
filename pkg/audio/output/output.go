// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for callback-driven playback backends
package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

var (
	// ErrUnknownBackend is returned by New for unrecognised backend names
	ErrUnknownBackend = errors.New("unknown audio backend")

	// ErrNotOpen is returned when starting a backend that was not opened
	ErrNotOpen = errors.New("output not opened")
)

// Backends lists the names accepted by New
var Backends = []string{"oto", "malgo", "portaudio"}

// RenderFunc fills out with interleaved float32 samples in [-1.0, 1.0).
// It runs on the device thread and returns false when the stream has ended.
type RenderFunc func(out []float32) bool

// Config describes the requested device stream
type Config struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	Latency         time.Duration
}

// Output represents an audio output device
type Output interface {
	// Open initializes the device and binds the render function
	Open(cfg Config, render RenderFunc) error

	// Start begins pulling audio from the render function
	Start() error

	// Done is closed once the end of stream has been played
	Done() <-chan struct{}

	// Close releases output resources
	Close() error
}

// New creates an output for the named backend
func New(backend string) (Output, error) {
	switch backend {
	case "oto", "":
		return NewOto(), nil
	case "malgo":
		return NewMalgo(), nil
	case "portaudio":
		return NewPortAudio(), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: oto, malgo, portaudio)", ErrUnknownBackend, backend)
	}
}

// encodeFloat32LE writes samples as little-endian IEEE floats and returns the
// number of bytes written
func encodeFloat32LE(dst []byte, samples []float32) int {
	n := 0
	for _, s := range samples {
		if n+4 > len(dst) {
			break
		}
		binary.LittleEndian.PutUint32(dst[n:], math.Float32bits(s))
		n += 4
	}
	return n
}

// endSignal closes a channel exactly once without locking or allocating,
// so it may fire from a device callback
type endSignal struct {
	fired atomic.Bool
	ch    chan struct{}
}

func newEndSignal() *endSignal {
	return &endSignal{ch: make(chan struct{})}
}

func (e *endSignal) fire() {
	if e.fired.CompareAndSwap(false, true) {
		close(e.ch)
	}
}

func (e *endSignal) done() <-chan struct{} {
	return e.ch
}
