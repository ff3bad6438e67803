// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides the pull-based Output interface and device backends
// Package output provides audio playback backends.
//
// Every backend pulls audio from a RenderFunc on the device's own thread.
// The render function fills interleaved float32 samples and returns false once
// the stream has ended; Done is closed after the device has played it out.
//
// Supported backends are oto (default), malgo and, when built with
// -tags portaudio, PortAudio.
//
// Example:
//
//	out, err := output.New("oto")
//	err = out.Open(output.Config{SampleRate: 44100, Channels: 2}, stage.Fill)
//	err = out.Start()
//	<-out.Done()
//	out.Close()
package output
