// Package ring provides a fixed-capacity circular sample buffer addressed by
// logical positions. Positions may be negative or far beyond the capacity;
// every access wraps them with a non-negative modulo, so cursors can grow
// monotonically while the storage stays bounded.
//
// The block operations (CopyIn, CopyOut, Accumulate, ClearRange) split a
// wrapped span into at most two contiguous segments so hot paths can use
// vectorized slice kernels instead of per-sample modulo arithmetic.
package ring
