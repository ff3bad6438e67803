//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio output implementation (stub)
type PortAudio struct {
	end *endSignal
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{end: newEndSignal()}
}

// Open always fails without the portaudio build tag
func (p *PortAudio) Open(cfg Config, render RenderFunc) error {
	return errPortAudioDisabled
}

// Start always fails without the portaudio build tag
func (p *PortAudio) Start() error {
	return errPortAudioDisabled
}

// Done never closes
func (p *PortAudio) Done() <-chan struct{} {
	return p.end.done()
}

// Close is a no-op
func (p *PortAudio) Close() error {
	return nil
}
