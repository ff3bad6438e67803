// ABOUTME: Entry point for audioscope
// ABOUTME: Plays a PCM file while drawing its live spectrum
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/harperreed/audioscope/internal/config"
	"github.com/harperreed/audioscope/internal/discovery"
	"github.com/harperreed/audioscope/internal/display"
	"github.com/harperreed/audioscope/internal/feed"
	"github.com/harperreed/audioscope/internal/pipeline"
	"github.com/harperreed/audioscope/internal/protocol"
	"github.com/harperreed/audioscope/internal/spectrum"
	"github.com/harperreed/audioscope/internal/ui"
	"github.com/harperreed/audioscope/internal/version"
	"github.com/harperreed/audioscope/pkg/audio"
	"github.com/harperreed/audioscope/pkg/audio/decode"
	"github.com/harperreed/audioscope/pkg/audio/output"
)

var defaults = config.Default()

var (
	backend    = flag.String("backend", "oto", "Audio backend: oto, malgo or portaudio")
	uiMode     = flag.String("ui", "window", "User interface: window or tui")
	logFile    = flag.String("log-file", "audioscope.log", "Log file path")
	packetSize = flag.Int("packet-size", defaults.PacketSize, "Sample pairs per packet")
	queueCap   = flag.Int("queue-cap", defaults.QueueCapacity, "Packets per pipeline queue")
	latency    = flag.Duration("latency", defaults.Latency, "Suggested output latency")
	preroll    = flag.Duration("preroll", defaults.Preroll, "Buffering delay before playback starts")
	padTail    = flag.Bool("pad-tail", false, "Pad the final partial packet with silence instead of dropping it")
	feedAddr   = flag.String("feed", "", "Serve the spectrum over websocket on this address (e.g. :8928)")
	enableMDNS = flag.Bool("mdns", false, "Advertise the spectrum feed via mDNS (requires -feed)")
	name       = flag.String("name", "", "Feed instance name (default: hostname-audioscope)")
	exitOnEnd  = flag.Bool("exit-on-end", false, "Close the window when playback ends")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <filename> <sub> <mult>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  filename  16-bit audio file (.wav .mp3 .flac .opus .ogg .pcm) or tone:<hz>\n")
	fmt.Fprintf(os.Stderr, "  sub       value subtracted from each scaled bar\n")
	fmt.Fprintf(os.Stderr, "  mult      bar height multiplier\n\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	args, err := parsePositional(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := buildConfig(options{
		packetSize: *packetSize,
		queueCap:   *queueCap,
		latency:    *latency,
		preroll:    *preroll,
		padTail:    *padTail,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	useTUI := *uiMode == "tui"
	if !useTUI && *uiMode != "window" {
		fmt.Fprintf(os.Stderr, "unknown ui %q (supported: window, tui)\n", *uiMode)
		os.Exit(1)
	}

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s (backend: %s, ui: %s)", version.String(), *backend, *uiMode)
	if *enableMDNS && *feedAddr == "" {
		log.Printf("Warning: -mdns has no effect without -feed")
	}

	src, err := decode.Open(args.filename)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", args.filename, err)
	}
	defer src.Close()

	if rate := src.Format().SampleRate; rate != cfg.SampleRate {
		log.Printf("Resampling %dHz -> %dHz", rate, cfg.SampleRate)
	}
	src = decode.Resampled(src, cfg.SampleRate)

	out, err := output.New(*backend)
	if err != nil {
		log.Fatalf("Failed to create audio output: %v", err)
	}

	// Queue A carries decoded packets to the device, queue B played packets to the analyzer
	played := pipeline.NewQueue[audio.Packet](cfg.QueueCapacity)
	analysed := pipeline.NewQueue[audio.Packet](cfg.QueueCapacity)
	stage := pipeline.NewStage(played, analysed)

	go func() {
		stats, err := pipeline.Packetize(src, played, cfg)
		if err != nil && !errors.Is(err, pipeline.ErrClosed) {
			log.Printf("Packetizer error: %v", err)
		}
		log.Printf("Packetizer done: %d packets, %d pairs, %d dropped, %d padded",
			stats.Packets, stats.Pairs, stats.DroppedPairs, stats.PaddedPairs)
	}()

	log.Printf("Buffering for %v (queue holds %v)", cfg.Preroll, cfg.BufferDuration())
	time.Sleep(cfg.Preroll)

	err = out.Open(output.Config{
		SampleRate:      cfg.SampleRate,
		Channels:        cfg.Channels,
		FramesPerBuffer: cfg.FramesPerBuffer,
		Latency:         cfg.Latency,
	}, stage.Fill)
	if err != nil {
		log.Fatalf("Failed to open audio output: %v", err)
	}
	defer out.Close()

	if err := out.Start(); err != nil {
		log.Fatalf("Failed to start audio output: %v", err)
	}

	title, artist, album := src.Metadata()
	format := src.Format()

	var feedServer *feed.Server
	if *feedAddr != "" {
		var stopFeed func()
		feedServer, stopFeed = startFeed(*feedAddr, protocol.StreamInfo{
			Title:      title,
			Artist:     artist,
			Album:      album,
			Codec:      format.Codec,
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
		})
		defer stopFeed()
	}

	stop := make(chan struct{})
	defer close(stop)
	go statsLoop(stage, played, stop)
	go func() {
		select {
		case <-out.Done():
		case <-stop:
			return
		}
		stats := stage.Stats()
		log.Printf("Playback finished: %d packets, %d underruns, %d visualisation drops",
			stats.PacketsPlayed, stats.Underruns, stats.VisDrops)
		if feedServer != nil {
			feedServer.PublishEnd(protocol.StreamEnd{PacketsPlayed: stats.PacketsPlayed, Underruns: stats.Underruns})
		}
	}()

	analyzer := spectrum.NewAnalyzer(analysed, cfg)
	var onFrame func([]float64)
	if feedServer != nil {
		onFrame = feedServer.PublishFrame
	}
	scale := spectrum.Scale{Mult: args.mult, Sub: args.sub}

	if useTUI {
		err = ui.Run(ui.Options{
			Analyzer:    analyzer,
			Stats:       stage.Stats,
			Buffered:    played.Len,
			OnFrame:     onFrame,
			FrameRate:   cfg.FrameRate,
			Scale:       scale,
			PixelHeight: float64(cfg.Height),
			Info: ui.StreamInfo{
				Title:      title,
				Artist:     artist,
				Album:      album,
				Codec:      format.Codec,
				SampleRate: format.SampleRate,
				Channels:   format.Channels,
				BitDepth:   format.BitDepth,
			},
		})
	} else {
		err = display.Run(display.NewGame(display.Options{
			Analyzer:  analyzer,
			OnFrame:   onFrame,
			Columns:   cfg.Columns,
			Height:    cfg.Height,
			FrameRate: cfg.FrameRate,
			Scale:     scale,
			ExitOnEnd: *exitOnEnd,
		}))
	}
	if err != nil {
		log.Printf("UI error: %v", err)
	}

	stats := stage.Stats()
	log.Printf("Exiting: %d packets played, %d underruns, %d visualisation drops",
		stats.PacketsPlayed, stats.Underruns, stats.VisDrops)
}

// startFeed starts the websocket feed and, if requested, its mDNS
// advertisement. The returned func shuts both down.
func startFeed(addr string, info protocol.StreamInfo) (*feed.Server, func()) {
	instance := *name
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		instance = fmt.Sprintf("%s-audioscope", hostname)
	}

	s := feed.New(feed.Config{Addr: addr, Name: instance})
	if err := s.Start(); err != nil {
		log.Fatalf("Failed to start spectrum feed: %v", err)
	}
	s.SetStreamInfo(info)

	if !*enableMDNS {
		return s, s.Stop
	}

	adv := discovery.NewAdvertiser(discovery.Config{InstanceName: instance, Port: s.Port()})
	if err := adv.Start(); err != nil {
		log.Printf("mDNS advertisement failed: %v", err)
	}
	return s, func() {
		adv.Stop()
		s.Stop()
	}
}

// statsLoop logs render counters whenever they change
func statsLoop(stage *pipeline.Stage, played *pipeline.Queue[audio.Packet], stop <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var last pipeline.StageStats
	for {
		select {
		case <-stop:
			return
		case <-stage.Done():
			return
		case <-ticker.C:
			stats := stage.Stats()
			if stats.Underruns != last.Underruns || stats.VisDrops != last.VisDrops {
				log.Printf("Stats: played %d, buffered %d, underruns %d, visualisation drops %d",
					stats.PacketsPlayed, played.Len(), stats.Underruns, stats.VisDrops)
			}
			last = stats
		}
	}
}
