package anchorhash

import (
	"math"

	anchorerrors "github.com/tamirms/anchorhash/errors"
	intbits "github.com/tamirms/anchorhash/internal/bits"
	"github.com/tamirms/anchorhash/internal/rehash"
)

// live marks a bucket that is part of the working set. Removal levels
// start at 1, so the anchor array's zero value doubles as the sentinel.
const live uint16 = 0

// Anchor is a consistent-hashing engine implementing the AnchorHash
// algorithm (https://arxiv.org/abs/1812.09674).
//
// An Anchor maps 64-bit key digests onto a bounded set of bucket ids such
// that the mapping is near-uniform, removing or reinstating a bucket
// reassigns only the minimum necessary keys, and lookups run in O(1)
// amortized time regardless of how many keys the caller routes.
//
// All state lives in six fixed-size uint16 arrays allocated once at
// construction; the engine performs no allocation after NewAnchor returns.
// An Anchor is not safe for concurrent use; see the package documentation
// for caller-side disciplines.
type Anchor struct {
	// anchors[b] is live for a working bucket; otherwise it holds the
	// removal level at which b left the working set. Levels are assigned
	// as the depth of the removal history at the time of removal, so the
	// levels of currently removed buckets strictly increase in removal
	// order and never exceed capacity-1.
	anchors []uint16

	// sizes[level] is the working-set size immediately after the removal
	// that produced level. It bounds the re-hash range for keys displaced
	// by that removal, which is what makes each removal displace a
	// uniformly chosen, minimal subset of keys.
	sizes []uint16

	// history is the LIFO stack of removed bucket ids, in removal order.
	// AddBucket always reinstates the top of the stack, exactly undoing
	// the most recent removal's displacement.
	history []uint16

	// working, location and successor track the working set under
	// swap-removal: working[0:size] lists the live buckets, location[b]
	// is b's slot in working, and successor[b] records, for a removed b,
	// the bucket that took its slot. GetBucket uses successor to resolve
	// a working-set index into an actual live bucket id.
	working   []uint16
	location  []uint16
	successor []uint16

	// size is the number of live buckets.
	size uint16

	remix  rehash.Func
	reduce func(uint64, uint32) uint32
}

// NewAnchor creates an engine with capacity buckets, all live.
//
// Capacity is fixed for the engine's lifetime and must be in [1, 65535];
// otherwise NewAnchor returns ErrInvalidCapacity. Bucket ids are 16-bit by
// construction, keeping the whole engine state within a few cache lines
// for typical capacities.
func NewAnchor(capacity int, opts ...Option) (*Anchor, error) {
	if capacity < 1 || capacity > math.MaxUint16 {
		return nil, anchorerrors.ErrInvalidCapacity
	}
	return newAnchor(capacity, capacity, opts...), nil
}

// newAnchor builds an engine with the first working ids live and the
// remaining ids pre-removed, highest id deepest in the history so that
// successive AddBucket calls reinstate working, working+1, and so on.
// Requires 0 <= working <= capacity <= 65535.
func newAnchor(capacity, working int, opts ...Option) *Anchor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	a := &Anchor{
		anchors: make([]uint16, capacity),
		// One extra slot: with zero live buckets the deepest level
		// equals capacity.
		sizes:     make([]uint16, capacity+1),
		history:   make([]uint16, 0, capacity),
		working:   make([]uint16, capacity),
		location:  make([]uint16, capacity),
		successor: make([]uint16, capacity),
		size:      uint16(working),
		remix:     rehash.New(cfg.hardwareHash),
	}
	if cfg.fastRange {
		a.reduce = intbits.FastRange
	} else {
		a.reduce = intbits.ModRange
	}

	for b := 0; b < capacity; b++ {
		a.working[b] = uint16(b)
		a.location[b] = uint16(b)
		a.successor[b] = uint16(b)
	}
	for b := capacity - 1; b >= working; b-- {
		lvl := uint16(capacity - b)
		a.anchors[b] = lvl
		a.sizes[lvl] = uint16(b)
		a.history = append(a.history, uint16(b))
	}
	return a
}

// GetBucket maps a key digest to a live bucket id. It never fails: the
// engine structurally guarantees at least one live bucket.
//
// The caller is responsible for hashing its domain keys (strings, blobs,
// composite keys) into a uniformly distributed 64-bit digest; the engine
// never interprets key semantics. See Map for a wrapper that digests keys
// and resolves buckets to caller resources.
//
// A displaced key is re-examined only against the working set that existed
// at the moment its current candidate was removed, never against the full
// capacity. The remix salt is the removal level, so the walk is a pure
// function of (digest, anchors): repeated calls against unchanged engine
// state return the same bucket, and two engines with the same anchor state
// agree regardless of how that state was reached.
func (a *Anchor) GetBucket(keyDigest uint64) uint16 {
	b := a.reduce(keyDigest, uint32(len(a.anchors)))
	for a.anchors[b] != live {
		lvl := a.anchors[b]
		h := a.reduce(a.remix(keyDigest, uint32(lvl)), uint32(a.sizes[lvl]))
		// h indexes the working set as of b's removal. Follow successor
		// links past buckets that had already left the working set by
		// then; each link lands on the bucket that took their slot.
		for a.anchors[h] != live && a.anchors[h] <= lvl {
			h = uint32(a.successor[h])
		}
		b = h
	}
	return uint16(b)
}

// AddBucket reinstates the most recently removed bucket and returns its id.
// Returns ErrAtFullCapacity when every bucket is already live.
//
// Reinstatement is strictly LIFO: an AddBucket immediately after a
// RemoveBucket restores every key's GetBucket result to its pre-removal
// value.
func (a *Anchor) AddBucket() (uint16, error) {
	n := len(a.history)
	if n == 0 {
		return 0, anchorerrors.ErrAtFullCapacity
	}
	b := a.history[n-1]
	a.history = a.history[:n-1]

	a.anchors[b] = live
	a.location[a.working[a.size]] = a.size
	a.working[a.location[b]] = b
	a.successor[b] = b
	a.size++
	return b, nil
}

// RemoveBucket removes bucket b from the working set. Keys previously
// routed to b redistribute uniformly over the remaining live buckets; all
// other keys keep their mapping.
//
// Returns ErrUnknownBucket when b is out of range or not currently live,
// and ErrAtMinimumCapacity when b is the last live bucket. On error the
// engine state is unchanged.
func (a *Anchor) RemoveBucket(b uint16) error {
	if int(b) >= len(a.anchors) || a.anchors[b] != live {
		return anchorerrors.ErrUnknownBucket
	}
	if a.size == 1 {
		return anchorerrors.ErrAtMinimumCapacity
	}
	a.history = append(a.history, b)
	a.size--
	lvl := uint16(len(a.history))
	a.anchors[b] = lvl
	a.sizes[lvl] = a.size

	// Swap-remove b from the working array; whichever bucket takes its
	// slot becomes b's successor.
	w := a.working[a.size]
	a.working[a.location[b]] = w
	a.successor[b] = w
	a.location[w] = a.location[b]
	return nil
}

// Size returns the number of live buckets.
func (a *Anchor) Size() int {
	return int(a.size)
}

// Capacity returns the fixed maximum number of buckets.
func (a *Anchor) Capacity() int {
	return len(a.anchors)
}

// Clone returns a deep copy of the engine. The copy shares no state with
// the original, so one side can be mutated while readers keep using the
// other (see the package documentation on concurrency).
func (a *Anchor) Clone() *Anchor {
	c := &Anchor{
		anchors:   append([]uint16(nil), a.anchors...),
		sizes:     append([]uint16(nil), a.sizes...),
		history:   append(make([]uint16, 0, cap(a.history)), a.history...),
		working:   append([]uint16(nil), a.working...),
		location:  append([]uint16(nil), a.location...),
		successor: append([]uint16(nil), a.successor...),
		size:      a.size,
		remix:     a.remix,
		reduce:    a.reduce,
	}
	return c
}
