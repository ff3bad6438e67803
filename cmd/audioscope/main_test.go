// ABOUTME: Tests for command-line handling
// ABOUTME: Covers positional parsing and configuration overrides
package main

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/audioscope/internal/config"
)

func TestParsePositional(t *testing.T) {
	got, err := parsePositional([]string{"song.wav", "50", "1.5"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.filename != "song.wav" || got.sub != 50 || got.mult != 1.5 {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestParsePositionalErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing all", nil},
		{"missing mult", []string{"song.wav", "50"}},
		{"too many", []string{"song.wav", "50", "2", "extra"}},
		{"bad sub", []string{"song.wav", "fifty", "2"}},
		{"bad mult", []string{"song.wav", "50", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePositional(tt.args); !errors.Is(err, errUsage) {
				t.Errorf("expected usage error, got %v", err)
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig(options{
		packetSize: 128,
		queueCap:   50,
		latency:    50 * time.Millisecond,
		preroll:    time.Second,
		padTail:    true,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if cfg.PacketSize != 128 || cfg.FramesPerBuffer != 512 || cfg.QueueCapacity != 50 {
		t.Errorf("unexpected sizes %+v", cfg)
	}
	if cfg.TailPolicy != config.TailPad {
		t.Errorf("expected pad tail policy, got %v", cfg.TailPolicy)
	}

	if _, err := buildConfig(options{packetSize: 0, queueCap: 50}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
