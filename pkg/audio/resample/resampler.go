// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Interpolates stereo sample pairs, carrying state across chunks
package resample

import (
	"math"

	"github.com/harperreed/audioscope/pkg/audio"
)

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64
	position   float64
	last       audio.SamplePair // final frame of the previous chunk
	primed     bool
}

// New creates a new resampler
func New(inputRate, outputRate int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts input frames to the output rate.
// output should hold at least OutputFramesNeeded(len(input)) frames; frames
// that do not fit are skipped.
func (r *Resampler) Resample(input []audio.SamplePair, output []audio.SamplePair) int {
	if len(input) == 0 {
		return 0
	}

	frames := len(input)
	offset := 0
	if r.primed {
		frames++
		offset = 1
	}
	at := func(i int) audio.SamplePair {
		if i < offset {
			return r.last
		}
		return input[i-offset]
	}

	outIdx := 0
	for outIdx < len(output) {
		inputIdx := int(r.position)

		// If we've consumed all input, stop
		if inputIdx >= frames-1 {
			break
		}

		frac := r.position - float64(inputIdx)
		a, b := at(inputIdx), at(inputIdx+1)
		output[outIdx] = audio.SamplePair{
			Left:  lerp(a.Left, b.Left, frac),
			Right: lerp(a.Right, b.Right, frac),
		}

		outIdx++
		r.position += r.ratio
	}

	// The last input frame becomes index 0 of the next chunk
	r.position -= float64(frames - 1)
	if r.position < 0 {
		r.position = 0
	}
	r.last = input[len(input)-1]
	r.primed = true

	return outIdx
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0
	r.last = audio.SamplePair{}
	r.primed = false
}

// Ratio returns input rate divided by output rate
func (r *Resampler) Ratio() float64 {
	return r.ratio
}

// OutputFramesNeeded returns an upper bound on the frames produced from inputFrames
func (r *Resampler) OutputFramesNeeded(inputFrames int) int {
	return int(math.Ceil(float64(inputFrames+1)/r.ratio)) + 1
}

// InputFramesNeeded calculates how many input frames produce outputFrames
func (r *Resampler) InputFramesNeeded(outputFrames int) int {
	return int(float64(outputFrames) * r.ratio)
}

func lerp(a, b int16, frac float64) int16 {
	return int16(math.Round(float64(a)*(1.0-frac) + float64(b)*frac))
}
