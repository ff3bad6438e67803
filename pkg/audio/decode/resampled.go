// ABOUTME: Resampling source wrapper
// ABOUTME: Converts a source to the device sample rate on the fly
package decode

import (
	"io"

	"github.com/harperreed/audioscope/pkg/audio"
	"github.com/harperreed/audioscope/pkg/audio/resample"
)

// resampleChunkFrames is the number of input frames converted per pass
const resampleChunkFrames = 4096

// ResampledSource wraps a Source and resamples it to a target sample rate
type ResampledSource struct {
	source     Source
	resampler  *resample.Resampler
	targetRate int
	input      []audio.SamplePair
	output     []audio.SamplePair
	pending    []audio.SamplePair
	eof        bool
}

// Resampled returns src unchanged when it already runs at targetRate,
// otherwise a wrapper converting it.
func Resampled(src Source, targetRate int) Source {
	if src.Format().SampleRate == targetRate {
		return src
	}
	r := resample.New(src.Format().SampleRate, targetRate)
	return &ResampledSource{
		source:     src,
		resampler:  r,
		targetRate: targetRate,
		input:      make([]audio.SamplePair, resampleChunkFrames),
		output:     make([]audio.SamplePair, r.OutputFramesNeeded(resampleChunkFrames)),
	}
}

func (r *ResampledSource) ReadPairs(dst []audio.SamplePair) (int, error) {
	for len(r.pending) == 0 {
		if r.eof {
			return 0, io.EOF
		}
		n, err := r.source.ReadPairs(r.input)
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return 0, err
		}
		if n > 0 {
			m := r.resampler.Resample(r.input[:n], r.output)
			r.pending = r.output[:m]
		}
	}

	n := copy(dst, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *ResampledSource) Format() audio.Format {
	f := r.source.Format()
	f.SampleRate = r.targetRate
	return f
}

func (r *ResampledSource) Metadata() (string, string, string) {
	return r.source.Metadata()
}

func (r *ResampledSource) Close() error {
	return r.source.Close()
}
