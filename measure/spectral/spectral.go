// Package spectral locates dominant spectral lines in time-domain signals.
package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-pitch/dsp/window"
)

const minFFTSize = 64

// Config holds peak measurement parameters. Zero values select defaults:
// the largest power-of-two FFT that fits the signal, a periodic Hann window,
// and a search range that only excludes the DC-adjacent bins.
type Config struct {
	SampleRate float64
	FFTSize    int
	WindowType window.Type
	MinFreq    float64
}

// Result describes the strongest spectral line found.
type Result struct {
	Freq  float64 // interpolated peak frequency in Hz
	Bin   int     // index of the raw maximum bin
	Level float64 // linear magnitude of the raw maximum bin
}

// Peak measures the strongest spectral line of the signal.
func Peak(signal []float64, cfg Config) (Result, error) {
	if cfg.SampleRate <= 0 {
		return Result{}, fmt.Errorf("spectral: sample rate must be positive: %v", cfg.SampleRate)
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = largestPowerOf2(len(signal))
	}
	if fftSize < minFFTSize {
		return Result{}, fmt.Errorf("spectral: signal too short for analysis: %d samples", len(signal))
	}
	if fftSize > len(signal) {
		return Result{}, fmt.Errorf("spectral: FFT size %d exceeds signal length %d", fftSize, len(signal))
	}

	winType := cfg.WindowType
	if winType == 0 {
		winType = window.TypeHann
	}
	buf := make([]float64, fftSize)
	copy(buf, signal[:fftSize])
	window.Apply(winType, buf, window.WithPeriodic())

	src := make([]complex128, fftSize)
	dst := make([]complex128, fftSize)
	for i, v := range buf {
		src[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, err
	}
	if err := plan.Forward(dst, src); err != nil {
		return Result{}, err
	}

	binHz := cfg.SampleRate / float64(fftSize)
	firstBin := int(math.Ceil(cfg.MinFreq / binHz))
	if firstBin < 2 {
		firstBin = 2
	}
	if firstBin >= fftSize/2 {
		return Result{}, fmt.Errorf("spectral: minimum frequency %v Hz leaves no bins below Nyquist", cfg.MinFreq)
	}

	bestBin, bestMag := firstBin, 0.0
	for bin := firstBin; bin < fftSize/2; bin++ {
		if mag := cmplx.Abs(dst[bin]); mag > bestMag {
			bestBin, bestMag = bin, mag
		}
	}

	return Result{
		Freq:  (float64(bestBin) + refineBin(dst, bestBin)) * binHz,
		Bin:   bestBin,
		Level: bestMag,
	}, nil
}

// refineBin returns a sub-bin correction in [-0.5, 0.5] from a parabola fit
// through the log magnitudes of the peak bin and its neighbors.
func refineBin(spectrum []complex128, bin int) float64 {
	if bin <= 0 || bin >= len(spectrum)-1 {
		return 0
	}

	a := math.Log(cmplx.Abs(spectrum[bin-1]) + math.SmallestNonzeroFloat64)
	b := math.Log(cmplx.Abs(spectrum[bin]) + math.SmallestNonzeroFloat64)
	c := math.Log(cmplx.Abs(spectrum[bin+1]) + math.SmallestNonzeroFloat64)

	denom := a - 2*b + c
	if denom == 0 {
		return 0
	}

	d := 0.5 * (a - c) / denom
	if d < -0.5 || d > 0.5 || math.IsNaN(d) {
		return 0
	}
	return d
}

func largestPowerOf2(n int) int {
	p := 1
	for 2*p <= n && p < 1<<20 {
		p *= 2
	}
	return p
}
