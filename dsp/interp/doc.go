// Package interp provides fractional-position interpolation primitives for
// resampling and delay-line reads.
package interp
