package wsola

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// bestOffset scans a window of splice candidates around the nominal read
// position and returns the offset whose trailing samples best continue the
// previous grain's windowed tail.
//
// The scan is centered on the previously accepted offset and covers half the
// full search range at the configured stride, so consecutive grains track
// slowly moving waveforms without rescanning the whole range. The returned
// offset is smoothed toward the raw winner rather than adopted outright.
func (s *Shifter) bestOffset(readNominal int) int {
	if !s.haveTail || s.overlapLen == 0 {
		return 0
	}

	tailEnergy := 0.0
	for ch := range s.prevTail {
		tailEnergy += vecmath.DotProduct(s.prevTail[ch], s.prevTail[ch])
	}
	// A silent tail carries no alignment information; keep the last offset.
	if tailEnergy <= energyTiny {
		return s.prevOffset
	}

	center := clampInt(s.prevOffset, -s.searchHalf, s.searchHalf)
	half := s.searchHalf / 2
	if half < 1 {
		half = 1
	}

	best := center
	bestScore := math.Inf(-1)
	for off := center - half; off <= center+half; off += s.cfg.searchStep {
		score := s.scoreOffset(readNominal, off, tailEnergy)
		if score > bestScore {
			bestScore = score
			best = off
		}
	}

	next := s.prevOffset + int(math.Round(offsetSmoothing*float64(best-s.prevOffset)))
	s.prevOffset = clampInt(next, -s.searchHalf, s.searchHalf)
	return s.prevOffset
}

// scoreOffset computes the normalized cross-correlation between the previous
// grain's tail and the candidate segment ending at readNominal+off, summed
// over channels.
func (s *Shifter) scoreOffset(readNominal, off int, tailEnergy float64) float64 {
	end := readNominal + off
	start := end - s.overlapLen

	dot := 0.0
	candEnergy := 0.0
	for ch := range s.input {
		tail := s.prevTail[ch]
		r := s.input[ch]
		for i := 0; i < s.overlapLen; i++ {
			v := r.At(start + i)
			dot += v * tail[i]
			candEnergy += v * v
		}
	}
	if candEnergy <= energyTiny {
		return 0
	}
	return dot / math.Sqrt(candEnergy*tailEnergy)
}
