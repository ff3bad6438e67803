// ABOUTME: Ebiten window host for the spectrum visualizer
// ABOUTME: Advances the analyzer each tick and draws one coloured line per column
package display

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/harperreed/audioscope/internal/spectrum"
)

// Title is the window title
const Title = "Audio Visualizer"

const (
	multStep = 0.25
	subStep  = 5.0
)

// Analyzer is the part of spectrum.Analyzer the window drives
type Analyzer interface {
	Advance() bool
	DrawBuffer() []float64
	Closed() bool
}

// Options configures a Game
type Options struct {
	Analyzer  Analyzer
	OnFrame   func(values []float64)
	Columns   int
	Height    int
	FrameRate int
	Scale     spectrum.Scale
	ExitOnEnd bool // quit once the stream has ended instead of holding the last frame
}

// Game implements ebiten.Game
type Game struct {
	opts   Options
	scale  spectrum.Scale
	colors []color.RGBA
	frames uint64
}

// NewGame creates the window host
func NewGame(opts Options) *Game {
	colors := make([]color.RGBA, opts.Columns)
	for col := range colors {
		colors[col] = spectrum.ColumnColor(col, opts.Columns)
	}
	return &Game{
		opts:   opts,
		scale:  opts.Scale,
		colors: colors,
	}
}

// Update handles input and advances the analyzer by one frame
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.scale = g.scale.Adjust(multStep, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.scale = g.scale.Adjust(-multStep, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		g.scale = g.scale.Adjust(0, -subStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.scale = g.scale.Adjust(0, subStep)
	}

	return g.step()
}

// step runs the analyzer once; ebiten.Termination ends the loop
func (g *Game) step() error {
	if g.opts.Analyzer.Advance() {
		g.frames++
		if g.opts.OnFrame != nil {
			g.opts.OnFrame(g.opts.Analyzer.DrawBuffer())
		}
	}
	if g.opts.ExitOnEnd && g.opts.Analyzer.Closed() {
		return ebiten.Termination
	}
	return nil
}

// Draw renders the bars
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(spectrum.Background)

	bottom := float32(g.opts.Height)
	for _, bar := range g.Bars() {
		vector.StrokeLine(screen, bar.X, bottom, bar.X, bar.Top, 1, g.colors[bar.Column], false)
	}
}

// Bar is one vertical line
type Bar struct {
	Column int
	X      float32 // pixel centre of the column
	Top    float32
}

// Bars lays out the current draw buffer; columns without height are skipped
func (g *Game) Bars() []Bar {
	draw := g.opts.Analyzer.DrawBuffer()
	height := float64(g.opts.Height)

	bars := make([]Bar, 0, len(draw))
	for col, v := range draw {
		if col >= len(g.colors) {
			break
		}
		top := g.scale.Top(v, height)
		if top >= height {
			continue
		}
		bars = append(bars, Bar{Column: col, X: float32(col) + 0.5, Top: float32(top)})
	}
	return bars
}

// Layout fixes the logical screen to one pixel per column
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.opts.Columns, g.opts.Height
}

// Scale returns the current bar scaling
func (g *Game) Scale() spectrum.Scale {
	return g.scale
}

// Frames returns the number of transforms shown
func (g *Game) Frames() uint64 {
	return g.frames
}

// Run opens the window and blocks until it is closed. It must be called from
// the main goroutine.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.opts.Columns, g.opts.Height)
	ebiten.SetWindowTitle(Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	if g.opts.FrameRate > 0 {
		ebiten.SetTPS(g.opts.FrameRate)
	}

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("window loop failed: %w", err)
	}
	return nil
}
