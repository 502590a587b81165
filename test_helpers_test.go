package anchorhash

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"slices"
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

// optionCombos enumerates every strategy combination so tests exercise
// the hardware and portable variants of both the remix hash and the
// range reducer.
var optionCombos = []struct {
	name string
	opts []Option
}{
	{"hw+fastrange", []Option{WithHardwareHash(true), WithFastRange(true)}},
	{"hw+mod", []Option{WithHardwareHash(true), WithFastRange(false)}},
	{"portable+fastrange", []Option{WithHardwareHash(false), WithFastRange(true)}},
	{"portable+mod", []Option{WithHardwareHash(false), WithFastRange(false)}},
}

// liveBuckets returns the ids of all live buckets in ascending order.
func liveBuckets(a *Anchor) []uint16 {
	var out []uint16
	for b, lvl := range a.anchors {
		if lvl == live {
			out = append(out, uint16(b))
		}
	}
	return out
}

// anchorSnapshot captures the full engine state for before/after
// comparison in failure-atomicity tests.
type anchorSnapshot struct {
	anchors   []uint16
	sizes     []uint16
	history   []uint16
	working   []uint16
	location  []uint16
	successor []uint16
	size      uint16
}

func snapshotAnchor(a *Anchor) anchorSnapshot {
	return anchorSnapshot{
		anchors:   append([]uint16(nil), a.anchors...),
		sizes:     append([]uint16(nil), a.sizes...),
		history:   append([]uint16(nil), a.history...),
		working:   append([]uint16(nil), a.working...),
		location:  append([]uint16(nil), a.location...),
		successor: append([]uint16(nil), a.successor...),
		size:      a.size,
	}
}

func requireSnapshotEqual(t *testing.T, want anchorSnapshot, a *Anchor) {
	t.Helper()
	got := snapshotAnchor(a)
	if !slices.Equal(want.anchors, got.anchors) {
		t.Errorf("anchors changed: want %v, got %v", want.anchors, got.anchors)
	}
	if !slices.Equal(want.sizes, got.sizes) {
		t.Errorf("sizes changed: want %v, got %v", want.sizes, got.sizes)
	}
	if !slices.Equal(want.history, got.history) {
		t.Errorf("history changed: want %v, got %v", want.history, got.history)
	}
	if !slices.Equal(want.working, got.working) {
		t.Errorf("working changed: want %v, got %v", want.working, got.working)
	}
	if !slices.Equal(want.location, got.location) {
		t.Errorf("location changed: want %v, got %v", want.location, got.location)
	}
	if !slices.Equal(want.successor, got.successor) {
		t.Errorf("successor changed: want %v, got %v", want.successor, got.successor)
	}
	if want.size != got.size {
		t.Errorf("size changed: want %d, got %d", want.size, got.size)
	}
}
