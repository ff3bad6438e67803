// ABOUTME: Spectrum feed message type definitions
// ABOUTME: Defines the JSON envelope and payloads sent to feed clients
package protocol

import (
	"encoding/json"
	"fmt"
)

// Message types
const (
	TypeServerHello   = "server/hello"
	TypeSpectrumFrame = "spectrum/frame"
	TypeStreamInfo    = "stream/info"
	TypeStreamEnd     = "stream/end"
)

// Version is the feed protocol version
const Version = 1

// Message is the top-level wrapper for all feed messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ServerHello is sent to each client on connect
type ServerHello struct {
	ServerID string `json:"server_id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// StreamInfo describes the source being played
type StreamInfo struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Codec      string `json:"codec"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// SpectrumFrame carries one smoothed column spectrum
type SpectrumFrame struct {
	Seq     uint64    `json:"seq"`
	Columns int       `json:"columns"`
	Values  []float64 `json:"values"`
}

// StreamEnd is sent once playback has finished
type StreamEnd struct {
	PacketsPlayed uint64 `json:"packets_played"`
	Underruns     uint64 `json:"underruns"`
}

// Envelope is a decoded message whose payload has not been parsed yet
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode parses a raw feed message and its payload
func Decode(data []byte) (string, interface{}, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("invalid message: %w", err)
	}

	var payload interface{}
	switch env.Type {
	case TypeServerHello:
		payload = &ServerHello{}
	case TypeStreamInfo:
		payload = &StreamInfo{}
	case TypeSpectrumFrame:
		payload = &SpectrumFrame{}
	case TypeStreamEnd:
		payload = &StreamEnd{}
	default:
		return env.Type, nil, fmt.Errorf("unknown message type %q", env.Type)
	}

	if err := json.Unmarshal(env.Payload, payload); err != nil {
		return env.Type, nil, fmt.Errorf("invalid %s payload: %w", env.Type, err)
	}
	return env.Type, payload, nil
}
