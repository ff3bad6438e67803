// ABOUTME: Tests for the packetizer
// ABOUTME: Checks packet counts, tail policies, ordering and error handling
package pipeline

import (
	"errors"
	"io"
	"testing"

	"github.com/harperreed/audioscope/internal/config"
	"github.com/harperreed/audioscope/pkg/audio"
)

// rampSource yields pairs whose left sample is the pair index
type rampSource struct {
	total int
	next  int
	chunk int // max pairs per read, 0 for unlimited
	err   error
}

func (s *rampSource) ReadPairs(dst []audio.SamplePair) (int, error) {
	if s.next >= s.total {
		if s.err != nil {
			return 0, s.err
		}
		return 0, io.EOF
	}
	if s.chunk > 0 && len(dst) > s.chunk {
		dst = dst[:s.chunk]
	}
	n := 0
	for n < len(dst) && s.next < s.total {
		dst[n] = audio.SamplePair{Left: int16(s.next), Right: int16(-s.next)}
		n++
		s.next++
	}
	return n, nil
}

func (s *rampSource) Format() audio.Format {
	return audio.Format{Codec: "ramp", SampleRate: 44100, Channels: 2, BitDepth: 16}
}
func (s *rampSource) Metadata() (string, string, string) { return "ramp", "", "" }
func (s *rampSource) Close() error                       { return nil }

func testConfig(packetSize int) config.Config {
	cfg := config.Default()
	cfg.PacketSize = packetSize
	return cfg
}

func drain(q *Queue[audio.Packet]) []audio.Packet {
	var packets []audio.Packet
	for {
		p, ok := q.Receive()
		if !ok {
			return packets
		}
		packets = append(packets, p)
	}
}

func TestPacketizeWholePackets(t *testing.T) {
	q := NewQueue[audio.Packet](16)
	src := &rampSource{total: 4 * 32, chunk: 7}

	stats, err := Packetize(src, q, testConfig(32))
	if err != nil {
		t.Fatalf("packetize failed: %v", err)
	}
	if stats.Packets != 4 || stats.DroppedPairs != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}

	packets := drain(q)
	if len(packets) != 4 {
		t.Fatalf("expected 4 packets, got %d", len(packets))
	}
	idx := 0
	for _, p := range packets {
		if len(p) != 32 {
			t.Fatalf("expected packet of 32, got %d", len(p))
		}
		for _, pair := range p {
			if int(pair.Left) != idx {
				t.Fatalf("expected pair %d in order, got %d", idx, pair.Left)
			}
			idx++
		}
	}
}

func TestPacketizeTailDrop(t *testing.T) {
	q := NewQueue[audio.Packet](16)
	src := &rampSource{total: 3*16 + 5}

	stats, err := Packetize(src, q, testConfig(16))
	if err != nil {
		t.Fatalf("packetize failed: %v", err)
	}
	if stats.DroppedPairs != 5 {
		t.Errorf("expected 5 dropped pairs, got %d", stats.DroppedPairs)
	}
	if packets := drain(q); len(packets) != 3 {
		t.Errorf("expected 3 packets, got %d", len(packets))
	}
}

func TestPacketizeTailPad(t *testing.T) {
	q := NewQueue[audio.Packet](16)
	src := &rampSource{total: 2*16 + 5}
	cfg := testConfig(16)
	cfg.TailPolicy = config.TailPad

	stats, err := Packetize(src, q, cfg)
	if err != nil {
		t.Fatalf("packetize failed: %v", err)
	}
	if stats.PaddedPairs != 11 {
		t.Errorf("expected 11 padded pairs, got %d", stats.PaddedPairs)
	}

	packets := drain(q)
	if len(packets) != 3 {
		t.Fatalf("expected 3 packets, got %d", len(packets))
	}
	last := packets[2]
	if len(last) != 16 {
		t.Fatalf("expected padded packet of 16, got %d", len(last))
	}
	if last[4].Left != 36 {
		t.Errorf("expected last real pair 36, got %d", last[4].Left)
	}
	for _, pair := range last[5:] {
		if pair != (audio.SamplePair{}) {
			t.Fatalf("expected silence padding, got %+v", pair)
		}
	}
}

func TestPacketizeEmptySource(t *testing.T) {
	q := NewQueue[audio.Packet](4)

	stats, err := Packetize(&rampSource{}, q, testConfig(16))
	if err != nil {
		t.Fatalf("packetize failed: %v", err)
	}
	if stats.Packets != 0 {
		t.Errorf("expected no packets, got %d", stats.Packets)
	}
	if _, status := q.TryReceive(); status != Closed {
		t.Errorf("expected closed queue, got %v", status)
	}
}

func TestPacketizeSourceError(t *testing.T) {
	q := NewQueue[audio.Packet](4)
	boom := errors.New("disk on fire")

	_, err := Packetize(&rampSource{total: 20, err: boom}, q, testConfig(16))
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}

	// the whole packet read before the failure is still delivered
	if packets := drain(q); len(packets) != 1 {
		t.Errorf("expected 1 packet, got %d", len(packets))
	}
}

func TestPacketizeBackpressure(t *testing.T) {
	q := NewQueue[audio.Packet](2)
	src := &rampSource{total: 50 * 8}

	done := make(chan PacketizeStats, 1)
	go func() {
		stats, _ := Packetize(src, q, testConfig(8))
		done <- stats
	}()

	count := 0
	for {
		p, ok := q.Receive()
		if !ok {
			break
		}
		if q.Len() > q.Cap() {
			t.Fatalf("len %d exceeds cap %d", q.Len(), q.Cap())
		}
		if int(p[0].Left) != count*8 {
			t.Fatalf("packet %d out of order", count)
		}
		count++
	}

	stats := <-done
	if count != 50 || stats.Packets != 50 {
		t.Errorf("expected 50 packets, got %d (stats %d)", count, stats.Packets)
	}
}
