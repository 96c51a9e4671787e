package game

import (
	"math"
	"testing"
)

func TestIsValidPlacementRejectsBoundaries(t *testing.T) {
	center := Point{X: 225, Y: 225}
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{X: 225, Y: 225}, false},
		{Point{X: 270, Y: 225}, false},
		{Point{X: 271, Y: 225}, true},
		{Point{X: 225, Y: 300}, true},
		{Point{X: 404, Y: 225}, true},
		{Point{X: 405, Y: 225}, false},
		{Point{X: 500, Y: 500}, false},
		{Point{X: math.NaN(), Y: 225}, false},
	}
	for _, tc := range cases {
		if got := IsValidPlacement(tc.p, center, 180, 45); got != tc.want {
			t.Fatalf("IsValidPlacement(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestIsValidPlacementSweep(t *testing.T) {
	target := DefaultTarget()
	for angle := 0.0; angle < 360; angle += 7.5 {
		for r := 0.0; r <= 200; r += 2.5 {
			p := PolarPoint(target.Center, angle, r)
			d := Distance(p, target.Center)
			want := d > target.InnerRadius && d < target.Radius
			if got := target.Contains(p); got != want {
				t.Fatalf("angle=%v r=%v: got %v want %v", angle, r, got, want)
			}
		}
	}
}

func TestTargetValid(t *testing.T) {
	if !DefaultTarget().Valid() {
		t.Fatalf("expected default target to be valid")
	}
	for _, target := range []Target{
		{},
		{Radius: 10, InnerRadius: 10},
		{Radius: 10, InnerRadius: -1},
		{Radius: math.NaN()},
	} {
		if target.Valid() {
			t.Fatalf("expected %+v to be invalid", target)
		}
	}
}
