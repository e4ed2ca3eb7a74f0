// Package window generates analysis/synthesis window functions for
// overlap-add processing.
//
// The square-root-Hann window is the equal-power choice for single-window
// overlap-add: its squared coefficients sum to unity at 50% overlap in
// periodic form, so accumulated window energy can be divided out to remove
// overlap-dependent gain ripple.
package window
