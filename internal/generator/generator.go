// Package generator produces random placement points on a target.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/pepperoni/internal/game"
)

const (
	edgeMargin  = 1.0
	angleMargin = 1.0
	sectorSpan  = 360.0 / game.SectorCount
)

// Generator produces randomized valid placements.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Point returns a point uniformly distributed over the placeable ring of t.
func (g *Generator) Point(t game.Target) game.Point {
	return g.pointAt(t, g.rnd.Float64()*360)
}

// PointInSector returns a uniformly distributed placeable point inside sector s.
func (g *Generator) PointInSector(t game.Target, s game.Sector) game.Point {
	start := float64(s-1) * sectorSpan
	angle := start + angleMargin + g.rnd.Float64()*(sectorSpan-2*angleMargin)
	return g.pointAt(t, angle)
}

// Weighted picks a sector with a bias toward the least filled ones and returns a point in it.
// Each sector weighs 1 + factor*(maxCount-count).
func (g *Generator) Weighted(t game.Target, counts game.SectorCounts, factor float64) game.Point {
	return g.PointInSector(t, g.pickSector(counts, factor))
}

func (g *Generator) pickSector(counts game.SectorCounts, factor float64) game.Sector {
	maxCount := 0
	for _, s := range game.Sectors {
		maxCount = max(maxCount, counts.Get(s))
	}
	var weights [game.SectorCount]float64
	total := 0.0
	for i, s := range game.Sectors {
		w := 1.0 + float64(maxCount-counts.Get(s))*math.Max(factor, 0)
		weights[i] = w
		total += w
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return game.Sectors[i]
		}
	}
	return game.Sectors[game.SectorCount-1]
}

// pointAt samples a radius so that points are uniform by area between the inner and outer edge.
func (g *Generator) pointAt(t game.Target, angle float64) game.Point {
	inner := t.InnerRadius + edgeMargin
	outer := t.Radius - edgeMargin
	if outer < inner {
		inner, outer = t.InnerRadius, t.Radius
	}
	u := g.rnd.Float64()
	r := math.Sqrt(inner*inner + u*(outer*outer-inner*inner))
	return game.PolarPoint(t.Center, angle, r)
}
