// ABOUTME: Tests for runtime configuration
// ABOUTME: Checks defaults, derived values and validation errors
package config

import (
	"errors"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()

	if err := c.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if c.SampleRate != 44100 {
		t.Errorf("expected 44100Hz, got %d", c.SampleRate)
	}
	if c.FramesPerBuffer != c.PacketSize*4 {
		t.Errorf("expected frames per buffer %d, got %d", c.PacketSize*4, c.FramesPerBuffer)
	}
	if c.TailPolicy != TailDrop {
		t.Errorf("expected drop tail policy, got %v", c.TailPolicy)
	}
}

func TestDerivedValues(t *testing.T) {
	c := Default()

	if got := c.WindowLen(); got != 1024 {
		t.Errorf("expected window length 1024, got %d", got)
	}
	if got := c.SamplesPerFrame(); got != 882 {
		t.Errorf("expected 882 samples per frame, got %d", got)
	}

	c.PacketSize = 441
	c.QueueCapacity = 100
	if got := c.BufferDuration(); got != time.Second {
		t.Errorf("expected 1s of buffering, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"mono", func(c *Config) { c.Channels = 1 }},
		{"zero packet size", func(c *Config) { c.PacketSize = 0 }},
		{"zero queue capacity", func(c *Config) { c.QueueCapacity = 0 }},
		{"zero frames per buffer", func(c *Config) { c.FramesPerBuffer = 0 }},
		{"negative latency", func(c *Config) { c.Latency = -time.Second }},
		{"unknown tail policy", func(c *Config) { c.TailPolicy = TailPolicy(7) }},
		{"zero columns", func(c *Config) { c.Columns = 0 }},
		{"zero multiplier", func(c *Config) { c.Multiplier = 0 }},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }},
		{"smoothing of one", func(c *Config) { c.Smoothing = 1 }},
		{"magnitude floor below one", func(c *Config) { c.MinMagnitude = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestTailPolicyString(t *testing.T) {
	if TailDrop.String() != "drop" || TailPad.String() != "pad" {
		t.Errorf("unexpected names %q %q", TailDrop, TailPad)
	}
}
