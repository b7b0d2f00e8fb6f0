package generate

import "math/rand"

// Patient identifiers are eight digits: the fixed prefix 64 followed by six
// random digits.
const (
	idPrefix = 64
	idSpan   = 1000000
)

// Allocator produces unique synthetic patient identifiers from a shared
// random source. It keeps no state between calls beyond that source.
type Allocator struct {
	rng *rand.Rand
}

// NewAllocator creates an allocator drawing from rng.
func NewAllocator(rng *rand.Rand) *Allocator {
	return &Allocator{rng: rng}
}

// Allocate returns n unique identifiers. On any collision the whole batch is
// resampled, not just the colliding entry, so the draw sequence stays a pure
// function of the seed.
func (a *Allocator) Allocate(n int) []int64 {
	for {
		ids := make([]int64, n)
		seen := make(map[int64]struct{}, n)
		unique := true
		for i := range ids {
			id := int64(idPrefix*idSpan) + int64(a.rng.Intn(idSpan))
			ids[i] = id
			if _, dup := seen[id]; dup {
				unique = false
			}
			seen[id] = struct{}{}
		}
		if unique {
			return ids
		}
	}
}
