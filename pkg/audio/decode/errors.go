// ABOUTME: Sentinel errors for sample sources
// ABOUTME: Callers match them with errors.Is after wrapping
package decode

import "errors"

var (
	ErrUnsupportedFormat   = errors.New("unsupported audio format")
	ErrUnsupportedBitDepth = errors.New("only 16-bit PCM supported")
	ErrUnsupportedChannels = errors.New("only mono or stereo supported")
	ErrInvalidFile         = errors.New("invalid audio file")
)
