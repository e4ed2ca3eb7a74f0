package wsola

import "fmt"

const (
	// DefaultFrameSize is the analysis window length in samples.
	DefaultFrameSize = 2048

	// DefaultChannels matches the stereo material the shifter was built for.
	DefaultChannels = 2

	// DefaultSearchStep is the candidate stride of the similarity search.
	// The scan is deliberately coarse; finer strides raise the per-grain cost
	// and change which splice points win, so the stride is a configurable
	// constant rather than something to refine silently.
	DefaultSearchStep = 4

	minFrameSize = 64
	maxFrameSize = 1 << 16
	maxChannels  = 32

	// The input ring holds eight frames; the read cursor trails the write
	// cursor by two frames of fixed latency.
	inputRingFrames = 8
	latencyFrames   = 2
)

type config struct {
	frameSize  int
	channels   int
	searchStep int
}

func defaultConfig() config {
	return config{
		frameSize:  DefaultFrameSize,
		channels:   DefaultChannels,
		searchStep: DefaultSearchStep,
	}
}

// Option configures a Shifter at construction.
type Option func(*config)

// WithFrameSize sets the analysis window length in samples. The frame size
// must be even and in [64, 65536]; the input hop is half a frame.
func WithFrameSize(n int) Option {
	return func(c *config) {
		c.frameSize = n
	}
}

// WithChannels sets the number of channels the shifter allocates state for.
func WithChannels(n int) Option {
	return func(c *config) {
		c.channels = n
	}
}

// WithSearchStep sets the similarity-search candidate stride in samples.
func WithSearchStep(n int) Option {
	return func(c *config) {
		c.searchStep = n
	}
}

func (c config) validate() error {
	if c.frameSize < minFrameSize || c.frameSize > maxFrameSize {
		return fmt.Errorf("wsola frame size must be in [%d, %d]: %d", minFrameSize, maxFrameSize, c.frameSize)
	}
	if c.frameSize%2 != 0 {
		return fmt.Errorf("wsola frame size must be even: %d", c.frameSize)
	}
	if c.channels < 1 || c.channels > maxChannels {
		return fmt.Errorf("wsola channels must be in [1, %d]: %d", maxChannels, c.channels)
	}
	if c.searchStep < 1 {
		return fmt.Errorf("wsola search step must be >= 1: %d", c.searchStep)
	}
	return nil
}
