// Package rehash provides the bucket-remixing hash used to re-route keys
// displaced by a bucket removal.
//
// The engine calls the remix function with the caller-supplied key digest
// and the removal level of the bucket the key collided with; the result is
// range-reduced into the working set that existed at that removal. The only
// property the engine depends on is near-uniform output bit distribution
// for distinct (digest, salt) pairs, so the two variants below are freely
// interchangeable and need not agree with each other.
package rehash

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/klauspost/cpuid/v2"
)

// Func remixes a 64-bit key digest with a removal-level salt. Pure and
// total: every (digest, salt) pair produces a value.
type Func func(digest uint64, salt uint32) uint64

// New resolves the remix strategy once, at engine construction time.
// When hardware is true and the CPU provides a CRC32 instruction (SSE4.2
// on amd64, the ARMv8 CRC32 extension on arm64), the CRC-32C variant is
// used; otherwise New transparently falls back to the portable FNV-1a
// variant.
func New(hardware bool) Func {
	if hardware && hardwareAvailable() {
		return crcMix
	}
	return fnvMix
}

func hardwareAvailable() bool {
	return cpuid.CPU.Supports(cpuid.SSE42) || cpuid.CPU.Supports(cpuid.CRC32)
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// crcMix folds the digest through two CRC-32C passes seeded with the salt
// and its complement. hash/crc32 dispatches to the hardware CRC32
// instruction for the Castagnoli polynomial where available. The two
// passes consume the digest bytes in opposite orders: CRC is affine in
// its seed, so two checksums over identical bytes would differ only by a
// salt-dependent constant. Opposite orders decorrelate the halves and
// fill all 64 result bits with salted entropy.
func crcMix(digest uint64, salt uint32) uint64 {
	var le, be [8]byte
	binary.LittleEndian.PutUint64(le[:], digest)
	binary.BigEndian.PutUint64(be[:], digest)
	lo := crc32.Update(salt, castagnoli, le[:])
	hi := crc32.Update(^salt, castagnoli, be[:])
	return uint64(hi)<<32 | uint64(lo)
}

// FNV-1a constants, 64-bit variant.
const (
	fnvOffset64 = 0xcbf29ce484222325
	fnvPrime64  = 0x100000001b3
)

// fnvMix is the portable fallback: FNV-1a over the digest bytes with the
// salt folded into the initial state.
func fnvMix(digest uint64, salt uint32) uint64 {
	h := uint64(fnvOffset64) ^ uint64(salt)
	for i := 0; i < 8; i++ {
		h ^= digest & 0xff
		h *= fnvPrime64
		digest >>= 8
	}
	return h
}
