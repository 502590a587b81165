package anchorhash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	anchorerrors "github.com/tamirms/anchorhash/errors"
)

// KeyHasherID identifies the digest function a Map uses to hash caller
// keys into the 64-bit values the engine routes on.
//
// AnchorHash does not require a cryptographic hash, but it does require
// uniformly distributed digests. All three choices below satisfy that;
// pick by throughput on your key sizes. Instances that must agree on key
// placement must use the same hasher.
type KeyHasherID uint16

const (
	// KeyHasherXXH3 uses XXH3 (zeebo/xxh3). The default: fastest on
	// medium and large keys, SIMD-accelerated where available.
	KeyHasherXXH3 KeyHasherID = 0

	// KeyHasherXXHash uses xxHash64 (cespare/xxhash).
	KeyHasherXXHash KeyHasherID = 1

	// KeyHasherMurmur3 uses MurmurHash3 (spaolacci/murmur3).
	KeyHasherMurmur3 KeyHasherID = 2
)

// String returns the hasher name.
func (id KeyHasherID) String() string {
	switch id {
	case KeyHasherXXH3:
		return "xxh3"
	case KeyHasherXXHash:
		return "xxhash"
	case KeyHasherMurmur3:
		return "murmur3"
	default:
		return "unknown"
	}
}

// keyHasher digests caller keys. The string entry point avoids the
// []byte(string) copy for hashers that support it.
type keyHasher struct {
	bytes func([]byte) uint64
	str   func(string) uint64
}

// newKeyHasher resolves a KeyHasherID once, at Map construction time.
func newKeyHasher(id KeyHasherID) (keyHasher, error) {
	switch id {
	case KeyHasherXXH3:
		return keyHasher{bytes: xxh3.Hash, str: xxh3.HashString}, nil
	case KeyHasherXXHash:
		return keyHasher{bytes: xxhash.Sum64, str: xxhash.Sum64String}, nil
	case KeyHasherMurmur3:
		return keyHasher{
			bytes: murmur3.Sum64,
			str:   func(s string) uint64 { return murmur3.Sum64([]byte(s)) },
		}, nil
	}
	return keyHasher{}, anchorerrors.ErrUnknownKeyHasher
}
