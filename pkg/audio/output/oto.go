// ABOUTME: Oto-based audio output implementation
// ABOUTME: Player pulls float32 PCM from the render function through an io.Reader
package output

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ebitengine/oto/v3"
)

// drainPollInterval is how often Oto checks whether the player has emptied
const drainPollInterval = 20 * time.Millisecond

// Oto output implementation using oto library
type Oto struct {
	otoCtx *oto.Context
	player *oto.Player
	reader *renderReader
	end    *endSignal
	closed chan struct{}
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{
		end:    newEndSignal(),
		closed: make(chan struct{}),
	}
}

// renderReader adapts a RenderFunc to the io.Reader oto pulls from
type renderReader struct {
	render   RenderFunc
	channels int
	scratch  []float32
	ended    *endSignal
	eof      bool
}

func (r *renderReader) Read(p []byte) (int, error) {
	if r.eof {
		return 0, io.EOF
	}

	// whole frames only
	samples := len(p) / 4
	samples -= samples % r.channels
	if samples == 0 {
		return 0, nil
	}
	if samples > len(r.scratch) {
		r.scratch = make([]float32, samples)
	}
	buf := r.scratch[:samples]

	if !r.render(buf) {
		r.eof = true
		r.ended.fire()
	}
	return encodeFloat32LE(p, buf), nil
}

// Open initializes the output device
func (o *Oto) Open(cfg Config, render RenderFunc) error {
	if o.otoCtx != nil {
		return fmt.Errorf("oto output already opened")
	}

	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.Latency,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.reader = &renderReader{
		render:   render,
		channels: cfg.Channels,
		scratch:  make([]float32, cfg.FramesPerBuffer*cfg.Channels),
		ended:    newEndSignal(),
	}
	o.player = o.otoCtx.NewPlayer(o.reader)

	log.Printf("Audio output initialized: %dHz, %d channels, latency %v (oto)",
		cfg.SampleRate, cfg.Channels, cfg.Latency)

	return nil
}

// Start begins playback
func (o *Oto) Start() error {
	if o.player == nil {
		return ErrNotOpen
	}
	o.player.Play()
	go o.watchEnd()
	return nil
}

// watchEnd closes Done once the reader hit the end and oto drained its buffer
func (o *Oto) watchEnd() {
	select {
	case <-o.reader.ended.done():
	case <-o.closed:
		return
	}

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for o.player.IsPlaying() {
		select {
		case <-ticker.C:
		case <-o.closed:
			return
		}
	}
	o.end.fire()
}

// Done is closed after the end of stream has been played
func (o *Oto) Done() <-chan struct{} {
	return o.end.done()
}

// Close releases output resources
func (o *Oto) Close() error {
	select {
	case <-o.closed:
		return nil
	default:
		close(o.closed)
	}

	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Printf("Warning: oto player close error: %v", err)
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto suspend error: %v", err)
		}
	}
	return nil
}
