package bits

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// TestFastRangeMonotonicity verifies that for a fixed n, FastRange is
// monotone: h1 < h2 implies FastRange(h1,n) <= FastRange(h2,n).
func TestFastRangeMonotonicity(t *testing.T) {
	rng := newTestRNG(t)
	const iterations = 10000

	for i := 0; i < iterations; i++ {
		n := uint32(rng.Uint32N(math.MaxUint16)) + 1 // bucket-scale bounds
		h1 := rng.Uint64()
		h2 := rng.Uint64()
		if h1 > h2 {
			h1, h2 = h2, h1
		}

		r1 := FastRange(h1, n)
		r2 := FastRange(h2, n)
		if r1 > r2 {
			t.Fatalf("iter %d: monotonicity violated: FastRange(0x%X, %d)=%d > FastRange(0x%X, %d)=%d",
				i, h1, n, r1, h2, n, r2)
		}
	}
}

// TestReducerRange verifies that both reducers stay within [0, n).
func TestReducerRange(t *testing.T) {
	reducers := []struct {
		name   string
		reduce func(uint64, uint32) uint32
	}{
		{"FastRange", FastRange},
		{"ModRange", ModRange},
	}

	for _, r := range reducers {
		t.Run(r.name, func(t *testing.T) {
			rng := newTestRNG(t)
			const iterations = 10000

			for i := 0; i < iterations; i++ {
				n := uint32(rng.Uint32N(math.MaxUint16)) + 1
				h := rng.Uint64()

				got := r.reduce(h, n)
				if got >= n {
					t.Fatalf("iter %d: %s(0x%X, %d)=%d >= %d",
						i, r.name, h, n, got, n)
				}
			}
		})
	}
}

// TestReducerDeterminism verifies that identical inputs give identical
// outputs for both reducers.
func TestReducerDeterminism(t *testing.T) {
	rng := newTestRNG(t)
	for i := 0; i < 1000; i++ {
		n := uint32(rng.Uint32N(math.MaxUint16)) + 1
		h := rng.Uint64()
		if a, b := FastRange(h, n), FastRange(h, n); a != b {
			t.Fatalf("FastRange(0x%X, %d) unstable: %d then %d", h, n, a, b)
		}
		if a, b := ModRange(h, n), ModRange(h, n); a != b {
			t.Fatalf("ModRange(0x%X, %d) unstable: %d then %d", h, n, a, b)
		}
	}
}

// TestFastRangeEdgeCases tests deterministic edge cases:
// n=1->0, h=0->0, h=MaxUint64->n-1.
func TestFastRangeEdgeCases(t *testing.T) {
	// n=1 always returns 0
	for _, h := range []uint64{0, 1, math.MaxUint64, 0xDEADBEEF, math.MaxUint64 / 2} {
		if got := FastRange(h, 1); got != 0 {
			t.Errorf("FastRange(0x%X, 1) = %d, want 0", h, got)
		}
	}

	// h=0 always maps to 0 for any n
	for n := uint32(1); n <= 100; n++ {
		if got := FastRange(0, n); got != 0 {
			t.Errorf("FastRange(0, %d) = %d, want 0", n, got)
		}
	}

	// h=MaxUint64 maps to n-1 for any n >= 2
	for n := uint32(2); n <= 100; n++ {
		got := FastRange(math.MaxUint64, n)
		if got != n-1 {
			t.Errorf("FastRange(MaxUint64, %d) = %d, want %d", n, got, n-1)
		}
	}
}

// TestModRangeAgreesWithModulo pins ModRange to the % operator.
func TestModRangeAgreesWithModulo(t *testing.T) {
	rng := newTestRNG(t)
	for i := 0; i < 10000; i++ {
		n := uint32(rng.Uint32N(math.MaxUint16)) + 1
		h := rng.Uint64()
		want := uint32(h % uint64(n))
		if got := ModRange(h, n); got != want {
			t.Fatalf("ModRange(0x%X, %d) = %d, want %d", h, n, got, want)
		}
	}
}

// TestReducerBalance verifies that both reducers spread uniform hashes
// evenly across a small bound. With 200k draws over 16 cells the expected
// count is 12500 per cell; a 5% tolerance is far above statistical noise.
func TestReducerBalance(t *testing.T) {
	reducers := []struct {
		name   string
		reduce func(uint64, uint32) uint32
	}{
		{"FastRange", FastRange},
		{"ModRange", ModRange},
	}

	for _, r := range reducers {
		t.Run(r.name, func(t *testing.T) {
			rng := newTestRNG(t)
			const (
				n     = uint32(16)
				draws = 200000
			)
			counts := make([]int, n)
			for i := 0; i < draws; i++ {
				counts[r.reduce(rng.Uint64(), n)]++
			}
			expected := draws / int(n)
			for cell, c := range counts {
				if c < expected*95/100 || c > expected*105/100 {
					t.Errorf("cell %d: %d draws, want %d±5%%", cell, c, expected)
				}
			}
		})
	}
}
