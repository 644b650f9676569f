package resolver

import (
	"math/rand"
	"sync"
	"time"
)

// ViewerCountProvider supplies the viewer count shown next to a hot spot.
// The default below fabricates numbers; a Valkey-backed implementation in
// services reads real presence counters. Keeping this behind an interface
// means swapping one for the other never touches the resolver.
type ViewerCountProvider interface {
	Viewers(hotSpotID uint) int
}

// RandomViewers returns a fresh random count in [Min, Max) on every call.
// Presentation filler only, regenerated each resolve pass.
type RandomViewers struct {
	Min int
	Max int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomViewers(min, max int) *RandomViewers {
	if max <= min {
		max = min + 1
	}
	return &RandomViewers{
		Min: min,
		Max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *RandomViewers) Viewers(hotSpotID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Min + r.rng.Intn(r.Max-r.Min)
}

// FixedViewers is handy in tests.
type FixedViewers struct {
	Count int
}

func (f FixedViewers) Viewers(hotSpotID uint) int {
	return f.Count
}
