// Package errors defines all exported error sentinels for the anchorhash
// library.
//
// This is the single source of truth for error values. Both the top-level
// anchorhash package and any internal packages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Engine errors
var (
	// ErrInvalidCapacity is returned by NewAnchor when the requested
	// capacity is zero or exceeds the 16-bit bucket id space.
	ErrInvalidCapacity = errors.New("anchorhash: capacity must be in [1, 65535]")

	// ErrAtFullCapacity is returned by AddBucket when every bucket is
	// already live and no removed bucket is available to reinstate.
	ErrAtFullCapacity = errors.New("anchorhash: all buckets are live")

	// ErrUnknownBucket is returned by RemoveBucket when the target bucket
	// is out of range or not currently live.
	ErrUnknownBucket = errors.New("anchorhash: bucket is not live")

	// ErrAtMinimumCapacity is returned by RemoveBucket when removal would
	// leave no live bucket. GetBucket is total only while at least one
	// bucket remains live, so the engine refuses to reach that state.
	ErrAtMinimumCapacity = errors.New("anchorhash: cannot remove the last live bucket")
)

// Resource map errors
var (
	// ErrResourceNotFound is returned by Map.Remove when the resource was
	// never added or has already been removed.
	ErrResourceNotFound = errors.New("anchorhash: resource not found")

	// ErrDuplicateResource is returned by Map.Add when the resource is
	// already registered.
	ErrDuplicateResource = errors.New("anchorhash: resource already registered")

	// ErrTooManyResources is returned when the number of seed resources
	// passed to NewMap exceeds the configured capacity.
	ErrTooManyResources = errors.New("anchorhash: seed resources exceed capacity")
)

// Configuration errors
var (
	// ErrUnknownKeyHasher is returned when a KeyHasherID does not name a
	// supported key digest function.
	ErrUnknownKeyHasher = errors.New("anchorhash: unknown key hasher")
)
