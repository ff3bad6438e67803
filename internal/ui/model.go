// ABOUTME: Bubbletea model for the terminal spectrum view
// ABOUTME: Drives the analyzer from ticks and renders coloured block bars
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/audioscope/internal/pipeline"
	"github.com/harperreed/audioscope/internal/spectrum"
)

const (
	// spectrumRows is the bar area height in terminal rows
	spectrumRows = 12

	multStep = 0.25
	subStep  = 5.0
)

// Unicode block elements for partial bar tops (9 levels including space)
var barBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0e0e0"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaf00"))
)

// Analyzer is the part of spectrum.Analyzer the view drives
type Analyzer interface {
	Advance() bool
	DrawBuffer() []float64
	Ready() bool
	Closed() bool
	Passes() uint64
}

// StreamInfo describes the playing source
type StreamInfo struct {
	Title      string
	Artist     string
	Album      string
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Options configures a Model
type Options struct {
	Analyzer    Analyzer
	Stats       func() pipeline.StageStats
	Buffered    func() int // packets waiting for playback
	OnFrame     func(values []float64)
	FrameRate   int
	Scale       spectrum.Scale
	PixelHeight float64 // height the scale is defined against
	Info        StreamInfo
}

// tickMsg advances one display frame
type tickMsg time.Time

// Model represents the TUI state
type Model struct {
	opts     Options
	interval time.Duration
	scale    spectrum.Scale

	stats    pipeline.StageStats
	buffered int
	ended    bool

	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	rate := opts.FrameRate
	if rate <= 0 {
		rate = 60
	}
	return Model{
		opts:     opts,
		interval: time.Second / time.Duration(rate),
		scale:    opts.Scale,
	}
}

// Init starts the frame ticker
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.advance()
		return m, m.tick()
	}

	return m, nil
}

// passes is the number of spectrum transforms shown so far
func (m Model) passes() uint64 {
	if m.opts.Analyzer == nil {
		return 0
	}
	return m.opts.Analyzer.Passes()
}

// advance runs one analyzer frame and refreshes stats
func (m *Model) advance() {
	if m.opts.Analyzer != nil && m.opts.Analyzer.Advance() {
		if m.opts.OnFrame != nil {
			m.opts.OnFrame(m.opts.Analyzer.DrawBuffer())
		}
	}
	if m.opts.Stats != nil {
		m.stats = m.opts.Stats()
	}
	if m.opts.Buffered != nil {
		m.buffered = m.opts.Buffered()
	}
	if m.opts.Analyzer != nil {
		m.ended = m.opts.Analyzer.Closed()
	}
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up":
		m.scale = m.scale.Adjust(multStep, 0)
	case "down":
		m.scale = m.scale.Adjust(-multStep, 0)
	case "left":
		m.scale = m.scale.Adjust(0, -subStep)
	case "right":
		m.scale = m.scale.Adjust(0, subStep)
	}

	return m, nil
}

// Scale returns the current bar scaling
func (m Model) Scale() spectrum.Scale {
	return m.scale
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(m.renderSpectrum())
	b.WriteString(m.renderStats())
	b.WriteString(m.renderHelp())
	return b.String()
}

// renderHeader renders source metadata and format
func (m Model) renderHeader() string {
	info := m.opts.Info
	title := info.Title
	if title == "" {
		title = "(untitled)"
	}

	s := titleStyle.Render("audioscope: "+truncate(title, max(10, m.width-14))) + "\n"
	if info.Artist != "" || info.Album != "" {
		s += dimStyle.Render(truncate(info.Artist+" / "+info.Album, m.width)) + "\n"
	}
	if info.Codec != "" {
		s += dimStyle.Render(fmt.Sprintf("%s %dHz %s %d-bit", info.Codec, info.SampleRate, channelName(info.Channels), info.BitDepth)) + "\n"
	}
	return s + "\n"
}

// renderSpectrum renders the bar area
func (m Model) renderSpectrum() string {
	if m.opts.Analyzer == nil || !m.opts.Analyzer.Ready() {
		return dimStyle.Render("Waiting for audio...") + strings.Repeat("\n", spectrumRows) + "\n"
	}

	draw := m.opts.Analyzer.DrawBuffer()
	levels := BarLevels(draw, m.width, spectrumRows, m.scale, m.opts.PixelHeight)
	styles := columnStyles(len(draw), len(levels))

	var b strings.Builder
	for row := spectrumRows - 1; row >= 0; row-- {
		for x, level := range levels {
			b.WriteString(styles[x].Render(BlockFor(level, row)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderStats renders pipeline statistics
func (m Model) renderStats() string {
	s := fmt.Sprintf("Played: %d  Buffered: %d  Underruns: %d  Vis drops: %d  Frames: %d\n",
		m.stats.PacketsPlayed, m.buffered, m.stats.Underruns, m.stats.VisDrops, m.passes())
	s += fmt.Sprintf("Scale: mult %.2f  sub %.0f\n", m.scale.Mult, m.scale.Sub)
	if m.ended {
		s += warnStyle.Render("End of stream") + "\n"
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return dimStyle.Render("↑/↓:Mult  ←/→:Sub  q:Quit") + "\n"
}

// BarLevels downsamples draw to width terminal columns and returns each bar's
// height in rows, using the largest value among the merged columns
func BarLevels(draw []float64, width, rows int, scale spectrum.Scale, pixelHeight float64) []float64 {
	if width <= 0 || len(draw) == 0 || pixelHeight <= 0 {
		return nil
	}
	width = min(width, len(draw))

	levels := make([]float64, width)
	for x := range levels {
		lo := x * len(draw) / width
		hi := max(lo+1, (x+1)*len(draw)/width)
		peak := draw[lo]
		for _, v := range draw[lo+1 : hi] {
			peak = max(peak, v)
		}
		levels[x] = scale.Height(peak, pixelHeight) / pixelHeight * float64(rows)
	}
	return levels
}

// BlockFor returns the glyph for one cell of a bar of the given level in rows
func BlockFor(level float64, row int) string {
	fill := level - float64(row)
	switch {
	case fill >= 1:
		return barBlocks[len(barBlocks)-1]
	case fill <= 0:
		return barBlocks[0]
	default:
		return barBlocks[int(fill*float64(len(barBlocks)-1))]
	}
}

// columnStyles colours each terminal column by the hue of its first source column
func columnStyles(columns, width int) []lipgloss.Style {
	styles := make([]lipgloss.Style, width)
	for x := range styles {
		c := spectrum.ColumnColor(x*columns/width, columns)
		styles[x] = lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
	}
	return styles
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	if length <= 3 {
		return s[:length]
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
