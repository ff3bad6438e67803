// ABOUTME: Audio render stage run from the device callback
// ABOUTME: Converts queued packets to float output and forwards them for analysis
package pipeline

import (
	"sync/atomic"

	"github.com/harperreed/audioscope/pkg/audio"
)

// StageStats is a snapshot of render counters
type StageStats struct {
	PacketsPlayed uint64
	Underruns     uint64
	VisDrops      uint64 // packets the analyzer queue had no room for
}

// Stage consumes the playback queue and produces the analysis queue.
// Fill is the only method that may run on the audio callback thread; it does
// not allocate, block, log or perform I/O.
type Stage struct {
	in  *Queue[audio.Packet]
	out *Queue[audio.Packet]

	current audio.Packet
	pos     int

	finished atomic.Bool
	done     chan struct{}

	played    atomic.Uint64
	underruns atomic.Uint64
	visDrops  atomic.Uint64
}

// NewStage wires a stage between the playback and analysis queues
func NewStage(in, out *Queue[audio.Packet]) *Stage {
	return &Stage{
		in:   in,
		out:  out,
		done: make(chan struct{}),
	}
}

// Fill writes len(out) interleaved stereo floats. It returns false once the
// playback queue is closed and drained; the device should then stop.
func (s *Stage) Fill(out []float32) bool {
	if s.finished.Load() {
		clear(out)
		return false
	}

	i := 0
	for i+1 < len(out) {
		if s.current == nil {
			p, status := s.in.TryReceive()
			switch status {
			case Empty:
				s.underruns.Add(1)
				clear(out[i:])
				return true
			case Closed:
				clear(out[i:])
				s.finish()
				return false
			}
			s.current = p
			s.pos = 0
		}

		n := audio.Interleave(s.current[s.pos:], out[i:])
		s.pos += n / 2
		i += n

		if s.pos == len(s.current) {
			s.played.Add(1)
			if !s.out.TrySend(s.current) {
				s.visDrops.Add(1)
			}
			s.current = nil
		}
	}

	if i < len(out) {
		out[i] = 0
	}
	return true
}

func (s *Stage) finish() {
	s.finished.Store(true)
	s.out.Close()
	close(s.done)
}

// Finished reports whether the end of stream has been rendered
func (s *Stage) Finished() bool {
	return s.finished.Load()
}

// Done is closed when the stage renders the end of stream
func (s *Stage) Done() <-chan struct{} {
	return s.done
}

// Stats returns the current counters
func (s *Stage) Stats() StageStats {
	return StageStats{
		PacketsPlayed: s.played.Load(),
		Underruns:     s.underruns.Load(),
		VisDrops:      s.visDrops.Load(),
	}
}
