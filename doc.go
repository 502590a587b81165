// Package anchorhash implements the AnchorHash consistent-hashing
// algorithm (https://arxiv.org/abs/1812.09674): a low-memory, O(1)-lookup
// mapping from an unbounded key space onto a bounded, dynamically
// resizable set of buckets.
//
// AnchorHash keeps the mapping near-uniform across the live buckets,
// reassigns only the minimum necessary keys when a bucket joins or
// leaves, and is history-independent: two engines whose working sets were
// produced by different operation sequences but share the same anchor
// state route every key identically. Typical uses are client-side
// sharding, load balancing and cache placement.
//
// # Basic Usage
//
// Routing raw 64-bit digests with the core engine:
//
//	anchor, err := anchorhash.NewAnchor(64)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bucket := anchor.GetBucket(digest) // caller hashes its own keys
//
//	err = anchor.RemoveBucket(bucket)  // bucket's keys redistribute
//	_, err = anchor.AddBucket()        // exactly undone
//
// Routing caller keys to resources with Map:
//
//	m, err := anchorhash.NewMap[string](64,
//	    anchorhash.WithResources("cache1:11211", "cache2:11211", "cache3:11211"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	backend, _ := m.GetString("user-1234")
//
// # Package Structure
//
//   - Core engine: anchor.go (NewAnchor, GetBucket, AddBucket, RemoveBucket)
//   - Resource mapping: map.go (NewMap, Get, Add, Remove), keyhash.go
//     (KeyHasherID dispatch: XXH3, xxHash64, MurmurHash3)
//   - Configuration: options.go (WithHardwareHash, WithFastRange)
//   - Bucket remix hash: internal/rehash (CRC-32C with FNV-1a fallback)
//   - Range reduction: internal/bits (fastrange with modulo fallback)
//   - Errors: errors/ (exported sentinels, errors.Is friendly)
//
// # Distributed Consistency
//
// For multiple instances to agree on key placement they must apply the
// same add/remove operations in the same order, use the same capacity,
// the same key hasher, and the same strategy options. The remix and
// range-reduction variants produce different (equally valid) mappings, so
// mixed fleets must pin one configuration.
//
// # Concurrency
//
// Neither Anchor nor Map is internally synchronized: every operation is a
// bounded local array access, so locking policy is left to the caller.
// Either serialize mutation behind a sync.RWMutex with lookups taking the
// read side, or confine mutation to one goroutine and publish immutable
// snapshots built with Clone.
package anchorhash
