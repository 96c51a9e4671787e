package generator

import (
	"testing"

	"github.com/verte-zerg/pepperoni/internal/game"
)

func TestPointIsAlwaysPlaceable(t *testing.T) {
	g := NewSeeded(1)
	target := game.DefaultTarget()
	for i := 0; i < 1000; i++ {
		p := g.Point(target)
		if !game.IsValidPlacement(p, target.Center, target.Radius, target.InnerRadius) {
			t.Fatalf("point %v is not placeable", p)
		}
	}
}

func TestPointInSector(t *testing.T) {
	g := NewSeeded(2)
	target := game.DefaultTarget()
	for _, s := range game.Sectors {
		for i := 0; i < 200; i++ {
			p := g.PointInSector(target, s)
			if got := game.ClassifySector(p, target.Center); got != s {
				t.Fatalf("expected sector %s, got %s for %v", s, got, p)
			}
		}
	}
}

func TestWeightedFavoursEmptySectors(t *testing.T) {
	g := NewSeeded(3)
	target := game.DefaultTarget()
	counts := game.SectorCounts{5, 5, 0}
	hits := map[game.Sector]int{}
	for i := 0; i < 600; i++ {
		hits[game.ClassifySector(g.Weighted(target, counts, 2), target.Center)]++
	}
	if hits[game.Sector3] <= hits[game.Sector1] || hits[game.Sector3] <= hits[game.Sector2] {
		t.Fatalf("expected sector 3 to dominate, got %v", hits)
	}
}

func TestWeightedZeroFactorStillCoversAllSectors(t *testing.T) {
	g := NewSeeded(4)
	target := game.DefaultTarget()
	hits := map[game.Sector]int{}
	for i := 0; i < 300; i++ {
		hits[game.ClassifySector(g.Weighted(target, game.SectorCounts{9, 0, 0}, 0), target.Center)]++
	}
	for _, s := range game.Sectors {
		if hits[s] == 0 {
			t.Fatalf("expected sector %s to be hit, got %v", s, hits)
		}
	}
}

func TestSessionAcceptsGeneratedPoints(t *testing.T) {
	g := NewSeeded(5)
	s, err := game.NewSession(game.DefaultProfileTable(), game.DifficultyHard, game.DefaultTarget(), nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Start()
	for len(s.Tray()) > 0 {
		res := s.AttemptPlacement(g.Weighted(s.Target(), s.Counts(), 3))
		if !res.Accepted {
			t.Fatalf("placement rejected: %s", res.Reason)
		}
	}
	if s.PlacedCount() != 25 {
		t.Fatalf("expected 25 placements, got %d", s.PlacedCount())
	}
}
