//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Non-blocking PortAudio stream on the default output device
package output

import (
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation
type PortAudio struct {
	stream *portaudio.Stream
	render RenderFunc
	end    *endSignal
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{end: newEndSignal()}
}

// Open initializes PortAudio and the default output stream
func (p *PortAudio) Open(cfg Config, render RenderFunc) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	device, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to find default output device: %w", err)
	}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  cfg.Latency,
		},
		SampleRate:      float64(cfg.SampleRate),
		FramesPerBuffer: cfg.FramesPerBuffer,
	}

	p.render = render
	stream, err := portaudio.OpenStream(params, p.callback)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}
	p.stream = stream

	log.Printf("Audio output initialized: %dHz, %d channels on %s (portaudio)",
		cfg.SampleRate, cfg.Channels, device.Name)

	return nil
}

func (p *PortAudio) callback(out []float32) {
	if !p.render(out) {
		p.end.fire()
	}
}

// Start begins playback
func (p *PortAudio) Start() error {
	if p.stream == nil {
		return ErrNotOpen
	}
	return p.stream.Start()
}

// Done is closed once the render function reported the end of stream
func (p *PortAudio) Done() <-chan struct{} {
	return p.end.done()
}

// Close releases resources
func (p *PortAudio) Close() error {
	if p.stream != nil {
		if err := p.stream.Stop(); err != nil {
			return err
		}
		if err := p.stream.Close(); err != nil {
			return err
		}
		p.stream = nil
	}
	return portaudio.Terminate()
}
