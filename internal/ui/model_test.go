// ABOUTME: Tests for the terminal spectrum model
// ABOUTME: Covers ticks, key handling, bar downsampling and rendering
package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/audioscope/internal/pipeline"
	"github.com/harperreed/audioscope/internal/spectrum"
)

type fakeAnalyzer struct {
	draw     []float64
	advances int
	ready    bool
	closed   bool
}

func (f *fakeAnalyzer) Advance() bool {
	f.advances++
	f.ready = true
	return true
}
func (f *fakeAnalyzer) DrawBuffer() []float64 { return f.draw }
func (f *fakeAnalyzer) Ready() bool           { return f.ready }
func (f *fakeAnalyzer) Closed() bool          { return f.closed }
func (f *fakeAnalyzer) Passes() uint64        { return uint64(f.advances) }

func newTestModel(a *fakeAnalyzer) Model {
	return NewModel(Options{
		Analyzer:    a,
		FrameRate:   60,
		Scale:       spectrum.Scale{Mult: 2, Sub: 0},
		PixelHeight: 384,
		Info:        StreamInfo{Title: "Test Song", Codec: "wav", SampleRate: 44100, Channels: 2, BitDepth: 16},
	})
}

func TestNewModel(t *testing.T) {
	m := newTestModel(&fakeAnalyzer{})

	if m.interval != time.Second/60 {
		t.Errorf("expected 60fps interval, got %v", m.interval)
	}
	if m.Init() == nil {
		t.Error("expected Init to start the ticker")
	}
	if m.View() != "Loading..." {
		t.Error("expected loading view before the window size is known")
	}
}

func TestTickAdvancesAnalyzer(t *testing.T) {
	a := &fakeAnalyzer{draw: make([]float64, 8)}
	var published [][]float64

	m := NewModel(Options{
		Analyzer: a,
		Stats: func() pipeline.StageStats {
			return pipeline.StageStats{PacketsPlayed: 42, Underruns: 3}
		},
		Buffered: func() int { return 7 },
		OnFrame: func(v []float64) {
			published = append(published, v)
		},
		Scale:       spectrum.Scale{Mult: 1},
		PixelHeight: 100,
	})

	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(Model)

	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
	if a.advances != 1 {
		t.Errorf("expected 1 advance, got %d", a.advances)
	}
	if len(published) != 1 {
		t.Errorf("expected 1 published frame, got %d", len(published))
	}
	if m.stats.PacketsPlayed != 42 || m.buffered != 7 {
		t.Errorf("unexpected stats %+v buffered %d", m.stats, m.buffered)
	}
	if m.passes() != 1 {
		t.Errorf("expected 1 transform pass, got %d", m.passes())
	}
}

func TestStatsShowTransformPasses(t *testing.T) {
	a := &fakeAnalyzer{draw: make([]float64, 8)}
	m := newTestModel(a)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	for i := 0; i < 3; i++ {
		updated, _ = updated.(Model).Update(tickMsg(time.Now()))
	}
	m = updated.(Model)

	if !strings.Contains(m.View(), "Frames: 3") {
		t.Errorf("expected 3 frames in stats line, got:\n%s", m.View())
	}
}

func TestEndOfStreamShown(t *testing.T) {
	a := &fakeAnalyzer{draw: make([]float64, 8), closed: true}
	m := newTestModel(a)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	updated, _ = updated.(Model).Update(tickMsg(time.Now()))
	m = updated.(Model)

	if !strings.Contains(m.View(), "End of stream") {
		t.Error("expected end of stream notice")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := newTestModel(&fakeAnalyzer{}).Update(key)
		if cmd == nil {
			t.Errorf("expected quit command for %q", key.String())
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected QuitMsg for %q", key.String())
		}
	}
}

func TestScaleKeys(t *testing.T) {
	m := newTestModel(&fakeAnalyzer{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyRight})
	s := updated.(Model).Scale()
	if s.Mult != 2.25 || s.Sub != 5 {
		t.Errorf("unexpected scale after up/right: %+v", s)
	}

	for i := 0; i < 20; i++ {
		updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyLeft})
	s = updated.(Model).Scale()
	if s.Mult != spectrum.MinMult || s.Sub != 0 {
		t.Errorf("unexpected scale after down/left: %+v", s)
	}
}

func TestBarLevels(t *testing.T) {
	draw := []float64{10, 50, 20, 100}
	scale := spectrum.Scale{Mult: 1, Sub: 0}

	levels := BarLevels(draw, 2, 10, scale, 100)
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	// each terminal column takes the peak of two source columns
	if levels[0] != 5 || levels[1] != 10 {
		t.Errorf("unexpected levels %v", levels)
	}

	if got := BarLevels(draw, 80, 10, scale, 100); len(got) != len(draw) {
		t.Errorf("expected width capped at %d columns, got %d", len(draw), len(got))
	}
	if BarLevels(nil, 80, 10, scale, 100) != nil {
		t.Error("expected nil for empty draw buffer")
	}
}

func TestBlockFor(t *testing.T) {
	tests := []struct {
		level float64
		row   int
		want  string
	}{
		{3, 0, "█"},
		{3, 2, "█"},
		{3, 3, " "},
		{2.5, 2, "▄"},
		{0, 0, " "},
	}
	for _, tt := range tests {
		if got := BlockFor(tt.level, tt.row); got != tt.want {
			t.Errorf("BlockFor(%v, %d) = %q, want %q", tt.level, tt.row, got, tt.want)
		}
	}
}

func TestViewRendersBars(t *testing.T) {
	a := &fakeAnalyzer{draw: []float64{400, 400, 400, 400}, ready: true}
	m := newTestModel(a)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	view := updated.(Model).View()

	if !strings.Contains(view, "Test Song") {
		t.Error("expected title in view")
	}
	if !strings.Contains(view, "█") {
		t.Error("expected full blocks for tall bars")
	}
	if !strings.Contains(view, "q:Quit") {
		t.Error("expected help line")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello world", 8); got != "hello..." {
		t.Errorf("expected 'hello...', got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected 'short', got %q", got)
	}
}
