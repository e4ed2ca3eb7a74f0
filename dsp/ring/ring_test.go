package ring

import (
	"math"
	"math/rand"
	"testing"
)

func TestIndexWrapsNegativeAndLargePositions(t *testing.T) {
	tests := []struct {
		name string
		pos  int
		size int
		want int
	}{
		{name: "zero", pos: 0, size: 8, want: 0},
		{name: "in range", pos: 5, size: 8, want: 5},
		{name: "one past end", pos: 8, size: 8, want: 0},
		{name: "large", pos: 8*1000 + 3, size: 8, want: 3},
		{name: "minus one", pos: -1, size: 8, want: 7},
		{name: "large negative", pos: -8*1000 - 3, size: 8, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index(tt.pos, tt.size); got != tt.want {
				t.Fatalf("Index(%d, %d) = %d, want %d", tt.pos, tt.size, got, tt.want)
			}
		})
	}
}

func TestIndexAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for range 10000 {
		size := 1 + rng.Intn(4096)
		pos := rng.Intn(1<<20) - 1<<19

		got := Index(pos, size)
		if got < 0 || got >= size {
			t.Fatalf("Index(%d, %d) = %d out of [0, %d)", pos, size, got, size)
		}
	}
}

func TestNewClampsCapacity(t *testing.T) {
	if got := New(-3).Cap(); got != 1 {
		t.Fatalf("Cap() = %d, want 1", got)
	}
	if got := New(16).Cap(); got != 16 {
		t.Fatalf("Cap() = %d, want 16", got)
	}
}

func TestSetAtWrap(t *testing.T) {
	r := New(4)
	r.Set(-1, 0.5)
	r.Set(6, 0.25)

	if got := r.At(3); got != 0.5 {
		t.Fatalf("At(3) = %v, want 0.5", got)
	}
	if got := r.At(2); got != 0.25 {
		t.Fatalf("At(2) = %v, want 0.25", got)
	}
	if got := r.At(7); got != 0.5 {
		t.Fatalf("At(7) = %v, want 0.5", got)
	}
}

func TestAddAccumulates(t *testing.T) {
	r := New(4)
	r.Add(1, 0.5)
	r.Add(5, 0.25)

	if got := r.At(1); got != 0.75 {
		t.Fatalf("At(1) = %v, want 0.75", got)
	}
}

func TestReadFracInterpolates(t *testing.T) {
	r := New(4)
	r.Set(0, 0)
	r.Set(1, 1)
	r.Set(2, 2)
	r.Set(3, 3)

	if got := r.ReadFrac(1.5); math.Abs(got-1.5) > 1e-15 {
		t.Fatalf("ReadFrac(1.5) = %v, want 1.5", got)
	}
	// Across the seam: between last (3) and first (0).
	if got := r.ReadFrac(3.5); math.Abs(got-1.5) > 1e-15 {
		t.Fatalf("ReadFrac(3.5) = %v, want 1.5", got)
	}
	// Negative positions wrap too.
	if got := r.ReadFrac(-0.5); math.Abs(got-1.5) > 1e-15 {
		t.Fatalf("ReadFrac(-0.5) = %v, want 1.5", got)
	}
}

func TestReadFracNearSeamStaysInBounds(t *testing.T) {
	r := New(1024)

	// Positions that round onto the capacity after modulo must not panic.
	for _, pos := range []float64{-1e-17, 1024, 1023.9999999999999, -1024, 1e9 + 0.5} {
		got := r.ReadFrac(pos)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("ReadFrac(%v) = %v", pos, got)
		}
	}
}

func TestCopyInCopyOutRoundTrip(t *testing.T) {
	r := New(8)
	src := []float64{1, 2, 3, 4, 5}

	// Start near the end so the span wraps.
	r.CopyIn(src, 6)

	dst := make([]float64, 5)
	r.CopyOut(dst, 6)

	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("round trip mismatch at %d: got %v, want %v", i, dst[i], src[i])
		}
	}

	// Physical layout check: positions 6,7 then wrap to 0,1,2.
	want := []float64{3, 4, 5, 0, 0, 0, 1, 2}
	for i, w := range want {
		if got := r.At(i); got != w {
			t.Fatalf("At(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestCopyInLongerThanCapacityKeepsTail(t *testing.T) {
	r := New(4)
	src := []float64{1, 2, 3, 4, 5, 6}

	r.CopyIn(src, 0)

	// A full wrap leaves only the trailing capacity-sized window, at the
	// positions the dropped head would have advanced past.
	dst := make([]float64, 4)
	r.CopyOut(dst, 2)

	want := []float64{3, 4, 5, 6}
	for i, w := range want {
		if dst[i] != w {
			t.Fatalf("tail mismatch at %d: got %v, want %v", i, dst[i], w)
		}
	}
}

func TestAccumulateOverlapAdd(t *testing.T) {
	r := New(8)
	a := []float64{1, 1, 1, 1}
	b := []float64{2, 2, 2, 2}

	r.Accumulate(a, 6)
	r.Accumulate(b, 6)

	dst := make([]float64, 4)
	r.CopyOut(dst, 6)

	for i, v := range dst {
		if v != 3 {
			t.Fatalf("accumulated[%d] = %v, want 3", i, v)
		}
	}
}

func TestClearRangeAcrossSeam(t *testing.T) {
	r := New(8)
	for i := range 8 {
		r.Set(i, 1)
	}

	r.ClearRange(6, 4)

	for i := range 8 {
		want := 1.0
		if i >= 6 || i < 2 {
			want = 0
		}
		if got := r.At(i); got != want {
			t.Fatalf("At(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestClearRangeWholeBuffer(t *testing.T) {
	r := New(4)
	for i := range 4 {
		r.Set(i, 1)
	}

	r.ClearRange(2, 9)

	for i := range 4 {
		if got := r.At(i); got != 0 {
			t.Fatalf("At(%d) = %v, want 0", i, got)
		}
	}
}

func TestZero(t *testing.T) {
	r := New(4)
	r.Set(1, 1)
	r.Zero()

	for i := range 4 {
		if got := r.At(i); got != 0 {
			t.Fatalf("At(%d) = %v, want 0", i, got)
		}
	}
}

func TestBlockOpsMatchScalarOps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for range 200 {
		capacity := 4 + rng.Intn(64)
		blockRing := New(capacity)
		scalarRing := New(capacity)

		n := 1 + rng.Intn(capacity)
		start := rng.Intn(1<<16) - 1<<15
		src := make([]float64, n)
		for i := range src {
			src[i] = rng.Float64()*2 - 1
		}

		blockRing.Accumulate(src, start)
		for i, v := range src {
			scalarRing.Add(start+i, v)
		}

		for i := range capacity {
			if math.Abs(blockRing.At(i)-scalarRing.At(i)) > 1e-15 {
				t.Fatalf("cap=%d start=%d n=%d: mismatch at %d: %v vs %v",
					capacity, start, n, i, blockRing.At(i), scalarRing.At(i))
			}
		}
	}
}
