package game

import (
	"math"
	"strconv"
)

// Sector is one of the three 120 degree slices of the pizza.
type Sector int

// Sectors partition [0,360) as [0,120), [120,240), [240,360).
const (
	Sector1 Sector = iota + 1
	Sector2
	Sector3
)

// SectorCount is the number of sectors.
const SectorCount = 3

const (
	sectorWidth = 360.0 / SectorCount
	angleSnap   = 1e9
)

// Sectors lists all sectors in order.
var Sectors = [SectorCount]Sector{Sector1, Sector2, Sector3}

func (s Sector) String() string {
	return strconv.Itoa(int(s))
}

// Valid reports whether s is one of the three sectors.
func (s Sector) Valid() bool {
	return s >= Sector1 && s <= Sector3
}

// AngleOf returns the angle of p around center in degrees, normalized to [0,360).
func AngleOf(p, center Point) float64 {
	angle := math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi
	angle = math.Mod(angle+360, 360)
	// Snap float noise so points on a boundary land on the boundary.
	angle = math.Round(angle*angleSnap) / angleSnap
	if angle >= 360 || angle < 0 || math.IsNaN(angle) {
		return 0
	}
	return angle
}

// ClassifySector maps p to its sector around center. Every angle maps to exactly one sector.
func ClassifySector(p, center Point) Sector {
	return SectorForAngle(AngleOf(p, center))
}

// SectorForAngle maps an angle in degrees to its sector. Angles outside [0,360) are normalized first.
func SectorForAngle(angle float64) Sector {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return Sector1
	}
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	idx := int(angle / sectorWidth)
	if idx < 0 || idx >= SectorCount {
		idx = 0
	}
	return Sector(idx + 1)
}

// SectorCounts holds per-sector token counts, indexed by sector-1.
type SectorCounts [SectorCount]int

// Get returns the count for s.
func (c SectorCounts) Get(s Sector) int {
	if !s.Valid() {
		return 0
	}
	return c[s-1]
}

// Total returns the sum over all sectors.
func (c SectorCounts) Total() int {
	return c[0] + c[1] + c[2]
}

func (c *SectorCounts) add(s Sector, delta int) {
	if s.Valid() {
		c[s-1] += delta
	}
}
