package wsola

import (
	"github.com/cwbudde/algo-pitch/dsp/ring"
	"github.com/cwbudde/algo-vecmath"
)

// renderOutput resamples the stretched buffer back to the block length.
//
// The read phase advances by pitch per output sample, undoing the 1/pitch
// time stretch of the grain stage so durations are preserved while the
// waveform plays back faster or slower. Each sample is divided by the
// accumulated window energy at the same position, flattening the overlap-add
// gain ripple. Fully consumed slots are cleared so the ring can be
// re-accumulated into on the next lap.
func (s *Shifter) renderOutput(out [][]float64, frames int, pitch float64) {
	channels := min(len(out), s.cfg.channels)

	for n := 0; n < frames; n++ {
		pos := float64(s.stretchRead) + s.resamplePhase

		norm := s.norm.ReadFrac(pos)
		if norm < normFloor {
			norm = normFloor
		}
		for ch := 0; ch < channels; ch++ {
			if out[ch] == nil {
				continue
			}
			out[ch][n] = s.stretched[ch].ReadFrac(pos) / norm
		}

		s.resamplePhase += pitch
		for s.resamplePhase >= 1 {
			s.resamplePhase--
			// Hand the slot back before the write cursor comes around.
			for ch := range s.stretched {
				s.stretched[ch].ClearRange(s.stretchRead, 1)
			}
			s.norm.ClearRange(s.stretchRead, 1)
			s.stretchRead = ring.Index(s.stretchRead+1, s.bufferSize)
		}
	}

	for ch := 0; ch < channels; ch++ {
		if out[ch] == nil {
			continue
		}
		vecmath.ScaleBlockInPlace(out[ch][:frames], headroomGain)
	}
	for ch := channels; ch < len(out); ch++ {
		if out[ch] != nil {
			zeroSlice(out[ch][:frames])
		}
	}
}
