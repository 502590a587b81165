package anchorhash

import (
	"math"

	anchorerrors "github.com/tamirms/anchorhash/errors"
)

// Map consistently maps caller keys to resources of type R using an
// Anchor engine underneath. Resources are anything that identifies a
// routing target: server addresses, connection pools, shard handles.
//
// Keys are digested with the configured KeyHasherID before routing, so
// callers work with their natural key representation. Callers that already
// hold uniformly distributed 64-bit digests can skip the digest step with
// GetDigest.
//
// A Map is not safe for concurrent use; see the package documentation for
// caller-side disciplines.
type Map[R comparable] struct {
	anchor    *Anchor
	hash      keyHasher
	resources map[uint16]R
	buckets   map[R]uint16
}

// MapOption is a functional option configuring a Map at construction time.
type MapOption[R comparable] func(*mapConfig[R])

type mapConfig[R comparable] struct {
	resources  []R
	hasher     KeyHasherID
	anchorOpts []Option
}

// WithResources seeds the Map with an initial resource set, equivalent to
// calling Add for each in order.
func WithResources[R comparable](resources ...R) MapOption[R] {
	return func(c *mapConfig[R]) {
		c.resources = append(c.resources, resources...)
	}
}

// WithKeyHasher selects the key digest function. Default is KeyHasherXXH3.
func WithKeyHasher[R comparable](id KeyHasherID) MapOption[R] {
	return func(c *mapConfig[R]) {
		c.hasher = id
	}
}

// WithAnchorOptions forwards engine options (WithHardwareHash,
// WithFastRange) to the underlying Anchor.
func WithAnchorOptions[R comparable](opts ...Option) MapOption[R] {
	return func(c *mapConfig[R]) {
		c.anchorOpts = append(c.anchorOpts, opts...)
	}
}

// NewMap creates a Map with room for up to capacity resources.
//
// Capacity is fixed for the Map's lifetime and must be in [1, 65535];
// otherwise NewMap returns ErrInvalidCapacity. Seeding more resources than
// capacity returns ErrTooManyResources; seeding the same resource twice
// returns ErrDuplicateResource.
func NewMap[R comparable](capacity int, opts ...MapOption[R]) (*Map[R], error) {
	if capacity < 1 || capacity > math.MaxUint16 {
		return nil, anchorerrors.ErrInvalidCapacity
	}

	cfg := &mapConfig[R]{hasher: KeyHasherXXH3}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.resources) > capacity {
		return nil, anchorerrors.ErrTooManyResources
	}
	hash, err := newKeyHasher(cfg.hasher)
	if err != nil {
		return nil, err
	}

	m := &Map[R]{
		anchor:    newAnchor(capacity, 0, cfg.anchorOpts...),
		hash:      hash,
		resources: make(map[uint16]R, capacity),
		buckets:   make(map[R]uint16, capacity),
	}
	for _, r := range cfg.resources {
		if _, err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add registers a resource and returns the bucket id it was assigned.
//
// Keys immediately begin mapping to the new resource: with n resources
// each carrying 1/n of the keys, adding one more moves a uniform 1/(n+1)
// share onto it and disturbs nothing else.
//
// Returns ErrDuplicateResource if the resource is already registered and
// ErrAtFullCapacity if the Map already holds capacity resources.
func (m *Map[R]) Add(resource R) (uint16, error) {
	if _, ok := m.buckets[resource]; ok {
		return 0, anchorerrors.ErrDuplicateResource
	}
	b, err := m.anchor.AddBucket()
	if err != nil {
		return 0, err
	}
	m.resources[b] = resource
	m.buckets[resource] = b
	return b, nil
}

// Remove unregisters a resource. Keys that mapped to it redistribute
// uniformly over the remaining resources; all other keys keep their
// mapping.
//
// Returns ErrResourceNotFound if the resource is not registered. Removing
// the last resource returns ErrAtMinimumCapacity: once a Map has held a
// resource, it always retains at least one so that lookups stay total.
func (m *Map[R]) Remove(resource R) error {
	b, ok := m.buckets[resource]
	if !ok {
		return anchorerrors.ErrResourceNotFound
	}
	if err := m.anchor.RemoveBucket(b); err != nil {
		return err
	}
	delete(m.resources, b)
	delete(m.buckets, resource)
	return nil
}

// Get maps a key to a resource. The second return is false only when the
// Map holds no resources.
func (m *Map[R]) Get(key []byte) (R, bool) {
	return m.GetDigest(m.hash.bytes(key))
}

// GetString maps a string key to a resource without copying the key.
func (m *Map[R]) GetString(key string) (R, bool) {
	return m.GetDigest(m.hash.str(key))
}

// GetDigest maps a pre-computed 64-bit key digest to a resource,
// bypassing the Map's key hasher. The digest must be uniformly
// distributed for the mapping to balance.
func (m *Map[R]) GetDigest(digest uint64) (R, bool) {
	if len(m.resources) == 0 {
		var zero R
		return zero, false
	}
	return m.resources[m.anchor.GetBucket(digest)], true
}

// Has reports whether the resource is registered.
func (m *Map[R]) Has(resource R) bool {
	_, ok := m.buckets[resource]
	return ok
}

// Resources returns the registered resources in arbitrary order.
func (m *Map[R]) Resources() []R {
	rs := make([]R, 0, len(m.resources))
	for _, r := range m.resources {
		rs = append(rs, r)
	}
	return rs
}

// Len returns the number of registered resources.
func (m *Map[R]) Len() int {
	return len(m.resources)
}

// Capacity returns the fixed maximum number of resources.
func (m *Map[R]) Capacity() int {
	return m.anchor.Capacity()
}

// Clone returns a deep copy sharing no state with the original. Mutate
// the copy while readers keep using the original, then publish the copy.
func (m *Map[R]) Clone() *Map[R] {
	c := &Map[R]{
		anchor:    m.anchor.Clone(),
		hash:      m.hash,
		resources: make(map[uint16]R, len(m.resources)),
		buckets:   make(map[R]uint16, len(m.buckets)),
	}
	for b, r := range m.resources {
		c.resources[b] = r
		c.buckets[r] = b
	}
	return c
}
