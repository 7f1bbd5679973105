// Package sampler produces the synthetic zone readings for each cycle.
package sampler

import (
	"math/rand/v2"

	"github.com/DrSkyle/campuslab/pkg/campus"
)

// Source is the random source behind a Generator. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSeededSource returns a deterministic source. Two generators built from
// the same seed produce identical snapshots.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSource returns a randomly seeded source.
func NewSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Generator draws one reading per zone. It is not safe for concurrent use.
type Generator struct {
	src   Source
	zones []campus.Zone
}

// New creates a Generator over the given zones, or over campus.Zones() when
// none are given.
func New(src Source, zones ...campus.Zone) *Generator {
	if src == nil {
		src = NewSource()
	}
	if len(zones) == 0 {
		zones = campus.Zones()
	}
	return &Generator{src: src, zones: zones}
}

// Zones returns the zones sampled by the generator, in order.
func (g *Generator) Zones() []campus.Zone {
	out := make([]campus.Zone, len(g.zones))
	copy(out, g.zones)
	return out
}

// Generate draws a fresh snapshot. Every field of every zone is an
// independent uniform draw; nothing carries over from earlier cycles.
func (g *Generator) Generate() campus.Snapshot {
	snap := make(campus.Snapshot, 0, len(g.zones))
	for _, z := range g.zones {
		footfall := g.between(campus.MinFootfall, campus.MaxFootfall)
		occupancy := g.between(campus.MinOccupancy, campus.MaxOccupancy)
		power := g.between(campus.MinPower, campus.MaxPower)
		snap = append(snap, campus.NewReading(z, footfall, occupancy, power))
	}
	return snap
}

// between draws uniformly from [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.src.IntN(hi-lo+1)
}
