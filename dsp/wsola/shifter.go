package wsola

import (
	"math"

	"github.com/cwbudde/algo-pitch/dsp/ring"
	"github.com/cwbudde/algo-pitch/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// bypassEpsilon: pitch values closer to unity than this copy input to
	// output verbatim with zero added latency.
	bypassEpsilon = 0.001

	// offsetSmoothing blends each raw search result toward the previously
	// accepted offset so splice points do not jitter between grains.
	offsetSmoothing = 0.25

	// headroomGain trims the output against overlap-add peaks.
	headroomGain = 0.7

	// normFloor keeps the gain division finite in near-silent regions.
	normFloor = 1e-9

	// energyTiny marks a correlation window as effectively silent.
	energyTiny = 1e-12
)

// Shifter is a streaming multichannel WSOLA pitch shifter.
//
// All buffers are allocated at construction; ProcessBlock performs no
// allocation and no locking. A Shifter is exclusively owned by one processing
// pipeline and is not safe for concurrent use.
type Shifter struct {
	cfg config

	hopIn      int
	bufferSize int
	latency    int
	searchHalf int

	win   []float64 // equal-power analysis/synthesis window, frameSize long
	winSq []float64 // squared window, accumulated into the normalization ring

	input     []*ring.Ring // one per channel, written by ingestion only
	stretched []*ring.Ring // overlap-add accumulation, one per channel
	norm      *ring.Ring   // accumulated window energy, channel-independent

	// WSOLA timing state. writeCursor counts ingested frames and never
	// wraps; physical indices are derived modulo bufferSize.
	writeCursor int
	readBase    int
	hopAccum    int
	grainTimer  int

	// Similarity-search state carried across grains.
	prevOffset int
	prevTail   [][]float64 // windowed tail of the last grain, cap frameSize
	haveTail   bool

	// Output stage state.
	stretchWrite  int
	stretchRead   int
	resamplePhase float64

	// Derived from the block's pitch value.
	hopOut     int
	overlapLen int

	grain []float64 // scratch for one windowed grain
}

// NewShifter constructs a pitch shifter with all state preallocated.
func NewShifter(opts ...Option) (*Shifter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Shifter{
		cfg:        cfg,
		hopIn:      cfg.frameSize / 2,
		bufferSize: inputRingFrames * cfg.frameSize,
		latency:    latencyFrames * cfg.frameSize,
	}
	s.searchHalf = s.hopIn / 2

	s.win = window.Generate(window.TypeSqrtHann, cfg.frameSize, window.WithPeriodic())
	s.winSq = make([]float64, cfg.frameSize)
	vecmath.MulBlock(s.winSq, s.win, s.win)

	s.input = make([]*ring.Ring, cfg.channels)
	s.stretched = make([]*ring.Ring, cfg.channels)
	s.prevTail = make([][]float64, cfg.channels)
	for ch := range s.input {
		s.input[ch] = ring.New(s.bufferSize)
		s.stretched[ch] = ring.New(s.bufferSize)
		s.prevTail[ch] = make([]float64, 0, cfg.frameSize)
	}
	s.norm = ring.New(s.bufferSize)
	s.grain = make([]float64, cfg.frameSize)

	// The overlap-add writer leads the resampler by one frame. Grain
	// emission only settles the timer debt accrued before the current
	// block, so without this lead the read cursor can enter slots whose
	// window coverage is still incomplete, notching the gain envelope at
	// the grain cadence.
	s.stretchWrite = cfg.frameSize

	s.updateHops(DefaultPitch)

	return s, nil
}

// FrameSize returns the analysis window length in samples.
func (s *Shifter) FrameSize() int { return s.cfg.frameSize }

// Channels returns the number of channels the shifter holds state for.
func (s *Shifter) Channels() int { return s.cfg.channels }

// HopIn returns the nominal input hop (half a frame).
func (s *Shifter) HopIn() int { return s.hopIn }

// BufferSize returns the input ring capacity (eight frames).
func (s *Shifter) BufferSize() int { return s.bufferSize }

// Latency returns the read-anchor delay behind the newest input in samples
// (two frames). The overlap-add stage adds up to one further frame before
// the first shifted samples reach the output.
func (s *Shifter) Latency() int { return s.latency }

// SearchHalfWidth returns the similarity-search half range in samples.
func (s *Shifter) SearchHalfWidth() int { return s.searchHalf }

// SearchStep returns the similarity-search candidate stride in samples.
func (s *Shifter) SearchStep() int { return s.cfg.searchStep }

// SetSearchStep changes the similarity-search stride between blocks. On
// error the previous stride is kept.
func (s *Shifter) SetSearchStep(n int) error {
	next := s.cfg
	next.searchStep = n
	if err := next.validate(); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

// Reset clears all rings and cursors, returning the shifter to its
// just-constructed state.
func (s *Shifter) Reset() {
	for ch := range s.input {
		s.input[ch].Zero()
		s.stretched[ch].Zero()
		for i := range s.prevTail[ch] {
			s.prevTail[ch][i] = 0
		}
	}
	s.norm.Zero()

	s.writeCursor = 0
	s.readBase = 0
	s.hopAccum = 0
	s.grainTimer = 0
	s.prevOffset = 0
	s.haveTail = false
	s.stretchWrite = s.cfg.frameSize
	s.stretchRead = 0
	s.resamplePhase = 0
}

// ProcessBlock transforms one audio block.
//
// in and out hold up to Channels() sample slices of equal length; nil slices
// are tolerated (missing input channels read as silence, missing output
// channels are skipped). The block length is taken as the shortest non-nil
// slice and is never changed. pitch is sampled once for the whole block and
// clamped to [MinPitch, MaxPitch]; values within bypassEpsilon of 1.0 copy
// input to output verbatim. A block with no usable channels is a no-op.
func (s *Shifter) ProcessBlock(in, out [][]float64, pitch float64) {
	frames := blockFrames(in, out)
	if frames == 0 {
		return
	}

	if math.IsNaN(pitch) {
		pitch = DefaultPitch
	}
	pitch = clampFloat(pitch, MinPitch, MaxPitch)
	if math.Abs(pitch-1) < bypassEpsilon {
		s.copyThrough(in, out, frames)
		return
	}

	s.updateHops(pitch)
	s.resyncReadBase()
	s.ingest(in, frames)

	for s.grainTimer <= 0 {
		s.emitGrain()
	}
	s.grainTimer -= frames

	s.renderOutput(out, frames, pitch)
}

// updateHops derives the output hop from the block's pitch value. The WSOLA
// stage stretches time by 1/pitch, so the output hop shrinks as pitch rises;
// the resampler advancing by pitch per output sample restores the duration.
func (s *Shifter) updateHops(pitch float64) {
	hopOut := int(math.Round(float64(s.hopIn) / pitch))
	if hopOut < 1 {
		hopOut = 1
	}
	if hopOut > s.cfg.frameSize-1 {
		hopOut = s.cfg.frameSize - 1
	}
	if hopOut == s.hopOut {
		return
	}

	s.hopOut = hopOut
	s.setOverlapLen(s.cfg.frameSize - hopOut)
}

// setOverlapLen resizes the per-channel grain tails in place. The backing
// arrays are reserved at a full frame, so this never allocates; samples
// exposed by growth are zeroed because the reserved capacity may hold a
// stale tail from before the last shrink.
func (s *Shifter) setOverlapLen(n int) {
	old := s.overlapLen
	s.overlapLen = n

	for ch := range s.prevTail {
		tail := s.prevTail[ch][:n]
		for i := old; i < n; i++ {
			tail[i] = 0
		}
		s.prevTail[ch] = tail
	}
}

// resyncReadBase nudges the read anchor toward the latency target by at most
// one input hop per block. Larger jumps would be audible; smaller drift is
// left for the similarity search to absorb. Any move is a resync, so the hop
// accumulator restarts from the new anchor.
func (s *Shifter) resyncReadBase() {
	drift := (s.writeCursor - s.latency) - s.readBase
	if drift > s.hopIn {
		s.readBase += s.hopIn
		s.hopAccum = 0
	} else if drift < -s.hopIn {
		s.readBase -= s.hopIn
		s.hopAccum = 0
	}
}

// ingest appends one block into the per-channel input rings. The write
// cursor advances once per frame whether or not every channel provided data.
func (s *Shifter) ingest(in [][]float64, frames int) {
	channels := min(len(in), s.cfg.channels)
	for ch := 0; ch < channels; ch++ {
		if in[ch] == nil {
			continue
		}
		s.input[ch].CopyIn(in[ch][:frames], s.writeCursor)
	}
	s.writeCursor += frames
}

// emitGrain extracts one similarity-aligned grain and schedules the next.
func (s *Shifter) emitGrain() {
	readNominal := s.readBase + s.hopAccum
	offset := s.bestOffset(readNominal)
	s.extractGrain(readNominal + offset)

	s.hopAccum += s.hopIn
	s.grainTimer += s.hopOut

	// Writer about to lap the reader: snap back to the nominal latency.
	if s.writeCursor-s.readBase > s.bufferSize-2*s.cfg.frameSize {
		s.readBase = s.writeCursor - s.latency
		s.hopAccum = 0
	}
}

// extractGrain windows one frame of input ending at readEnd and overlap-adds
// it into the stretched ring, accumulating window energy alongside so the
// output stage can divide the overlap gain back out.
func (s *Shifter) extractGrain(readEnd int) {
	frameSize := s.cfg.frameSize
	start := readEnd - frameSize

	for ch := range s.input {
		s.input[ch].CopyOut(s.grain, start)
		vecmath.MulBlockInPlace(s.grain, s.win)
		s.stretched[ch].Accumulate(s.grain, s.stretchWrite)
		copy(s.prevTail[ch], s.grain[frameSize-s.overlapLen:])
	}
	s.norm.Accumulate(s.winSq, s.stretchWrite)

	s.haveTail = true
	s.stretchWrite = ring.Index(s.stretchWrite+s.hopOut, s.bufferSize)
}

// copyThrough implements the bypass path: an exact copy with zero added
// latency. Output channels with no matching input are silenced.
func (s *Shifter) copyThrough(in, out [][]float64, frames int) {
	for ch := range out {
		if out[ch] == nil {
			continue
		}
		if ch < len(in) && in[ch] != nil {
			copy(out[ch][:frames], in[ch][:frames])
		} else {
			zeroSlice(out[ch][:frames])
		}
	}
}

// blockFrames returns the usable block length: the shortest non-nil slice
// across input and output, or 0 when there is nothing to process.
func blockFrames(in, out [][]float64) int {
	frames := -1
	for _, chans := range [2][][]float64{in, out} {
		for _, c := range chans {
			if c == nil {
				continue
			}
			if frames < 0 || len(c) < frames {
				frames = len(c)
			}
		}
	}
	if frames < 0 {
		return 0
	}
	return frames
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func zeroSlice(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
