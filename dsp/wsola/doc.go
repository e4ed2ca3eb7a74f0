// Package wsola implements a streaming real-time pitch shifter based on
// waveform-similarity overlap-add (WSOLA) time stretching followed by
// fractional resampling.
//
// A [Shifter] transforms fixed-size audio blocks in place of a host audio
// callback: each call ingests one input block per channel, schedules and
// overlap-adds similarity-aligned grains into an internal stretched buffer,
// and resamples that buffer back to the block length at the requested pitch
// ratio. Duration and block size are preserved; only the perceived pitch
// changes.
//
// Processing is single-threaded, bounded-time, and allocation-free in steady
// state, making ProcessBlock safe to call from a real-time audio thread.
package wsola
