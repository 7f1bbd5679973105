package sampler

import (
	"testing"

	"github.com/DrSkyle/campuslab/pkg/campus"
)

// fixedSource always returns the same offset, clamped to the requested range.
type fixedSource struct {
	max bool
}

func (f fixedSource) IntN(n int) int {
	if f.max {
		return n - 1
	}
	return 0
}

func TestGenerate_Ranges(t *testing.T) {
	g := New(NewSeededSource(42))

	for i := 0; i < 2000; i++ {
		for _, r := range g.Generate() {
			if r.Footfall < campus.MinFootfall || r.Footfall > campus.MaxFootfall {
				t.Fatalf("footfall out of range: %d", r.Footfall)
			}
			if r.Occupancy < campus.MinOccupancy || r.Occupancy > campus.MaxOccupancy {
				t.Fatalf("occupancy out of range: %d", r.Occupancy)
			}
			if r.Power < campus.MinPower || r.Power > campus.MaxPower {
				t.Fatalf("power out of range: %d", r.Power)
			}
			if r.Risk != campus.Classify(r.Footfall) {
				t.Fatalf("risk %v does not match footfall %d", r.Risk, r.Footfall)
			}
		}
	}
}

func TestGenerate_Bounds(t *testing.T) {
	low := New(fixedSource{}).Generate()
	high := New(fixedSource{max: true}).Generate()

	for _, r := range low {
		if r.Footfall != campus.MinFootfall || r.Occupancy != campus.MinOccupancy || r.Power != campus.MinPower {
			t.Errorf("expected minimum draws, got %+v", r)
		}
		if r.Risk != campus.RiskLow {
			t.Errorf("expected Low risk at minimum footfall, got %v", r.Risk)
		}
	}
	for _, r := range high {
		if r.Footfall != campus.MaxFootfall || r.Occupancy != campus.MaxOccupancy || r.Power != campus.MaxPower {
			t.Errorf("expected maximum draws, got %+v", r)
		}
		if r.Risk != campus.RiskHigh {
			t.Errorf("expected High risk at maximum footfall, got %v", r.Risk)
		}
	}
}

func TestGenerate_OneReadingPerZoneInOrder(t *testing.T) {
	snap := New(NewSeededSource(7)).Generate()
	zones := campus.Zones()

	if len(snap) != len(zones) {
		t.Fatalf("expected %d readings, got %d", len(zones), len(snap))
	}
	for i, r := range snap {
		if r.Zone != zones[i] {
			t.Errorf("reading %d: expected zone %s, got %s", i, zones[i], r.Zone)
		}
	}
}

func TestGenerate_SeedIsDeterministic(t *testing.T) {
	a := New(NewSeededSource(2026))
	b := New(NewSeededSource(2026))

	for i := 0; i < 10; i++ {
		sa, sb := a.Generate(), b.Generate()
		for j := range sa {
			if sa[j] != sb[j] {
				t.Fatalf("cycle %d zone %d: %+v != %+v", i, j, sa[j], sb[j])
			}
		}
	}
}

func TestGenerate_CustomZones(t *testing.T) {
	g := New(NewSeededSource(1), "Library", "Sports Complex")
	snap := g.Generate()

	if len(snap) != 2 || snap[0].Zone != "Library" || snap[1].Zone != "Sports Complex" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if got := g.Zones(); len(got) != 2 {
		t.Errorf("expected 2 zones, got %v", got)
	}
}
