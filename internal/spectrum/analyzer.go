// ABOUTME: Spectrum analyzer fed by the played-packet queue
// ABOUTME: Windows the left channel, runs an FFT and smooths per-column magnitudes
package spectrum

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/harperreed/audioscope/internal/config"
	"github.com/harperreed/audioscope/internal/pipeline"
	"github.com/harperreed/audioscope/pkg/audio"
)

// Analyzer turns played packets into a smoothed column spectrum.
// It is driven by a display loop and must not be shared between goroutines.
type Analyzer struct {
	queue *pipeline.Queue[audio.Packet]

	samplesPerFrame int
	smoothing       float64
	minMagnitude    float64

	window  *Window
	fft     *fourier.FFT
	samples []float64
	coeffs  []complex128
	bins    []int
	draw    []float64

	ready  bool
	closed bool
	passes uint64
}

// NewAnalyzer creates an analyzer reading from q
func NewAnalyzer(q *pipeline.Queue[audio.Packet], cfg config.Config) *Analyzer {
	n := cfg.WindowLen()
	return &Analyzer{
		queue:           q,
		samplesPerFrame: cfg.SamplesPerFrame(),
		smoothing:       cfg.Smoothing,
		minMagnitude:    cfg.MinMagnitude,
		window:          NewWindow(n),
		fft:             fourier.NewFFT(n),
		samples:         make([]float64, n),
		coeffs:          make([]complex128, n/2+1),
		bins:            BinTable(cfg.Columns, n, cfg.Multiplier),
		draw:            make([]float64, cfg.Columns),
	}
}

// BinForColumn maps display column s to an FFT bin:
// floor((s/N)^2 / (1/M)^2 * N/2), which expands the low frequencies.
func BinForColumn(s, windowLen, multiplier int) int {
	return s * s * multiplier * multiplier / (2 * windowLen)
}

// BinTable precomputes BinForColumn for every column
func BinTable(columns, windowLen, multiplier int) []int {
	bins := make([]int, columns)
	for s := range bins {
		bins[s] = BinForColumn(s, windowLen, multiplier)
	}
	return bins
}

// Advance runs one display frame: it takes whole packets until a frame's worth
// of samples was read or the queue is empty, then updates the draw buffer if
// the window is full. It reports whether a transform ran.
func (a *Analyzer) Advance() bool {
	if a.closed {
		return false
	}

	taken := 0
	for taken < a.samplesPerFrame {
		p, status := a.queue.TryReceive()
		if status == pipeline.Closed {
			a.closed = true
			break
		}
		if status == pipeline.Empty {
			break
		}
		for _, pair := range p {
			a.window.Push(float64(pair.Left))
		}
		taken += len(p)
	}

	if taken == 0 || !a.window.Full() {
		return false
	}

	a.transform()
	return true
}

func (a *Analyzer) transform() {
	a.window.CopyTo(a.samples)
	a.fft.Coefficients(a.coeffs, a.samples)

	for col, bin := range a.bins {
		mag := cmplx.Abs(a.coeffs[bin])
		raw := math.Pow(math.Log10(math.Max(mag, a.minMagnitude)), 4)
		a.draw[col] = a.draw[col]*a.smoothing + raw*(1-a.smoothing)
	}

	a.ready = true
	a.passes++
}

// DrawBuffer returns the smoothed per-column values. Callers must not modify it.
func (a *Analyzer) DrawBuffer() []float64 {
	return a.draw
}

// Ready reports whether at least one transform has run
func (a *Analyzer) Ready() bool {
	return a.ready
}

// Closed reports whether the played-packet queue has been closed and drained
func (a *Analyzer) Closed() bool {
	return a.closed
}

// Passes returns the number of transforms run so far
func (a *Analyzer) Passes() uint64 {
	return a.passes
}
