// ABOUTME: Command-line argument handling for audioscope
// ABOUTME: Parses positional arguments and builds the runtime configuration
package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/audioscope/internal/config"
)

// errUsage marks a malformed command line
var errUsage = errors.New("usage error")

// positional holds the required arguments
type positional struct {
	filename string
	sub      float64
	mult     float64
}

// parsePositional parses <filename> <sub> <mult>
func parsePositional(args []string) (positional, error) {
	if len(args) != 3 {
		return positional{}, fmt.Errorf("%w: expected <filename> <sub> <mult>, got %d arguments", errUsage, len(args))
	}

	sub, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return positional{}, fmt.Errorf("%w: invalid sub %q: %v", errUsage, args[1], err)
	}
	mult, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return positional{}, fmt.Errorf("%w: invalid mult %q: %v", errUsage, args[2], err)
	}

	return positional{filename: args[0], sub: sub, mult: mult}, nil
}

// options are the flag values that feed the configuration
type options struct {
	packetSize int
	queueCap   int
	latency    time.Duration
	preroll    time.Duration
	padTail    bool
}

// buildConfig applies flag overrides to the defaults and validates the result
func buildConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	cfg.PacketSize = opts.packetSize
	cfg.FramesPerBuffer = opts.packetSize * 4
	cfg.QueueCapacity = opts.queueCap
	cfg.Latency = opts.latency
	cfg.Preroll = opts.preroll
	if opts.padTail {
		cfg.TailPolicy = config.TailPad
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
