package wsola

import (
	"math"
	"testing"
)

func TestSemitoneConversions(t *testing.T) {
	tests := []struct {
		name      string
		semitones float64
		ratio     float64
	}{
		{name: "unison", semitones: 0, ratio: 1},
		{name: "octave up", semitones: 12, ratio: 2},
		{name: "octave down", semitones: -12, ratio: 0.5},
		{name: "fifth up", semitones: 7, ratio: math.Pow(2, 7.0/12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SemitonesToRatio(tt.semitones); math.Abs(got-tt.ratio) > 1e-12 {
				t.Fatalf("SemitonesToRatio(%v) = %v, want %v", tt.semitones, got, tt.ratio)
			}
			if got := RatioToSemitones(tt.ratio); math.Abs(got-tt.semitones) > 1e-12 {
				t.Fatalf("RatioToSemitones(%v) = %v, want %v", tt.ratio, got, tt.semitones)
			}
		})
	}
}

func TestPitchParameterSpec(t *testing.T) {
	spec := PitchParameter()

	if spec.Name != "pitch" {
		t.Fatalf("Name = %q, want \"pitch\"", spec.Name)
	}
	if spec.Default != DefaultPitch || spec.Min != MinPitch || spec.Max != MaxPitch {
		t.Fatalf("range = %v/%v/%v, want %v/%v/%v",
			spec.Default, spec.Min, spec.Max, DefaultPitch, MinPitch, MaxPitch)
	}
	if spec.Rate != RateBlock {
		t.Fatalf("Rate = %v, want RateBlock", spec.Rate)
	}
}
