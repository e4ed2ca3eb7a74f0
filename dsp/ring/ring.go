package ring

import (
	"math"

	"github.com/cwbudde/algo-pitch/dsp/interp"
	"github.com/cwbudde/algo-vecmath"
)

// Ring is a fixed-capacity circular float64 buffer.
//
// All methods accept logical positions; physical storage indices are derived
// via Index. Block operations expect spans no longer than the capacity.
type Ring struct {
	data []float64
}

// New returns a zero-filled ring. Capacities below 1 are clamped to 1.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{data: make([]float64, capacity)}
}

// Index wraps pos into [0, size) with a non-negative modulo.
func Index(pos, size int) int {
	return ((pos % size) + size) % size
}

// Cap returns the ring capacity in samples.
func (r *Ring) Cap() int {
	return len(r.data)
}

// At returns the sample at the wrapped position.
func (r *Ring) At(pos int) float64 {
	return r.data[Index(pos, len(r.data))]
}

// Set stores v at the wrapped position.
func (r *Ring) Set(pos int, v float64) {
	r.data[Index(pos, len(r.data))] = v
}

// Add accumulates v into the wrapped position.
func (r *Ring) Add(pos int, v float64) {
	r.data[Index(pos, len(r.data))] += v
}

// ReadFrac returns the linearly interpolated sample at a fractional position.
// The position is wrapped, so reads across the buffer seam interpolate
// between the last and first stored samples.
func (r *Ring) ReadFrac(pos float64) float64 {
	size := float64(len(r.data))

	pos = math.Mod(pos, size)
	if pos < 0 {
		pos += size
	}
	if pos >= size {
		pos -= size
	}

	i0 := int(pos)
	i1 := i0 + 1
	if i1 >= len(r.data) {
		i1 = 0
	}

	return interp.Linear(pos-float64(i0), r.data[i0], r.data[i1])
}

// CopyIn writes src into the ring starting at the wrapped position.
// If src is longer than the capacity, only its trailing samples survive a
// full wrap, so the excess head is skipped up front.
func (r *Ring) CopyIn(src []float64, start int) {
	if len(src) > len(r.data) {
		drop := len(src) - len(r.data)
		src = src[drop:]
		start += drop
	}

	head, tail := r.split(start, len(src))
	n := len(src) - tail
	copy(r.data[head:head+n], src[:n])
	if tail > 0 {
		copy(r.data[:tail], src[n:])
	}
}

// CopyOut reads len(dst) samples starting at the wrapped position into dst.
// Spans longer than the capacity are left untouched.
func (r *Ring) CopyOut(dst []float64, start int) {
	if len(dst) > len(r.data) {
		return
	}

	head, tail := r.split(start, len(dst))
	n := len(dst) - tail
	copy(dst[:n], r.data[head:head+n])
	if tail > 0 {
		copy(dst[n:], r.data[:tail])
	}
}

// Accumulate adds src into the ring starting at the wrapped position.
// This is the overlap-add primitive: existing content is summed, not replaced.
// Spans longer than the capacity are ignored.
func (r *Ring) Accumulate(src []float64, start int) {
	if len(src) > len(r.data) {
		return
	}

	head, tail := r.split(start, len(src))
	n := len(src) - tail
	vecmath.AddBlockInPlace(r.data[head:head+n], src[:n])
	if tail > 0 {
		vecmath.AddBlockInPlace(r.data[:tail], src[n:])
	}
}

// ClearRange zeroes n samples starting at the wrapped position.
func (r *Ring) ClearRange(start, n int) {
	if n <= 0 {
		return
	}
	if n >= len(r.data) {
		r.Zero()
		return
	}

	head, tail := r.split(start, n)
	zero(r.data[head : head+n-tail])
	if tail > 0 {
		zero(r.data[:tail])
	}
}

// Zero clears the entire ring.
func (r *Ring) Zero() {
	zero(r.data)
}

// split wraps start and returns the physical start index plus the number of
// samples of an n-long span that wrap past the end of the storage.
func (r *Ring) split(start, n int) (head, tail int) {
	head = Index(start, len(r.data))
	tail = head + n - len(r.data)
	if tail < 0 {
		tail = 0
	}
	return head, tail
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
