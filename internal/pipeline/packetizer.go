// ABOUTME: Packetizer turning a sample source into fixed-size packets
// ABOUTME: Feeds the playback queue with backpressure and closes it at end of stream
package pipeline

import (
	"fmt"
	"io"
	"log"

	"github.com/harperreed/audioscope/internal/config"
	"github.com/harperreed/audioscope/pkg/audio"
	"github.com/harperreed/audioscope/pkg/audio/decode"
)

// PacketizeStats summarises one packetizer run
type PacketizeStats struct {
	Packets      int
	Pairs        int64
	DroppedPairs int // tail pairs discarded under TailDrop
	PaddedPairs  int // silent pairs appended under TailPad
}

// Packetize reads src until exhaustion and sends PacketSize-long packets to q.
// Send blocks while q is full. q is always closed on return.
func Packetize(src decode.Source, q *Queue[audio.Packet], cfg config.Config) (PacketizeStats, error) {
	defer q.Close()

	var stats PacketizeStats
	size := cfg.PacketSize
	packet := audio.NewPacket(size)
	filled := 0

	for {
		n, err := src.ReadPairs(packet[filled:])
		filled += n
		stats.Pairs += int64(n)

		if filled == size {
			if sendErr := q.Send(packet); sendErr != nil {
				return stats, fmt.Errorf("failed to queue packet: %w", sendErr)
			}
			stats.Packets++
			// the consumer owns the sent packet
			packet = audio.NewPacket(size)
			filled = 0
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read source: %w", err)
		}
	}

	if filled > 0 {
		switch cfg.TailPolicy {
		case config.TailPad:
			clear(packet[filled:])
			if err := q.Send(packet); err != nil {
				return stats, fmt.Errorf("failed to queue final packet: %w", err)
			}
			stats.Packets++
			stats.PaddedPairs = size - filled
		default:
			stats.DroppedPairs = filled
		}
	}

	log.Printf("End of file.")
	return stats, nil
}
