package wsola

import "math"

// Pitch control range. Values outside are clamped by ProcessBlock.
const (
	MinPitch     = 0.5
	MaxPitch     = 2.0
	DefaultPitch = 1.0
)

// ParameterRate describes how often a control value is sampled.
type ParameterRate int

const (
	// RateBlock parameters are sampled once per processed block.
	RateBlock ParameterRate = iota
)

// ParameterSpec describes a control parameter of a block processor.
type ParameterSpec struct {
	Name    string
	Default float64
	Min     float64
	Max     float64
	Rate    ParameterRate
}

// PitchParameter returns the descriptor of the pitch control: the ratio of
// output frequency to input frequency, sampled once per block.
func PitchParameter() ParameterSpec {
	return ParameterSpec{
		Name:    "pitch",
		Default: DefaultPitch,
		Min:     MinPitch,
		Max:     MaxPitch,
		Rate:    RateBlock,
	}
}

// BlockProcessor transforms equal-length audio blocks under a block-rate
// pitch control. Implementations never change the block length.
type BlockProcessor interface {
	ProcessBlock(in, out [][]float64, pitch float64)
}

var _ BlockProcessor = (*Shifter)(nil)

// SemitonesToRatio converts a semitone offset to a pitch ratio (2^(n/12)).
func SemitonesToRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// RatioToSemitones converts a pitch ratio to semitones (12·log2).
func RatioToSemitones(ratio float64) float64 {
	return 12 * math.Log2(ratio)
}
