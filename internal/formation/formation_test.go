package formation

import (
	"testing"

	"github.com/san-kum/glyphflow/internal/vecmath"
)

func TestNamesComplete(t *testing.T) {
	names := Names()
	if len(names) != 16 {
		t.Errorf("expected 16 animations, got %d", len(names))
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			t.Errorf("duplicate animation name: %s", name)
		}
		seen[name] = true
	}
}

func TestLookupUnknownFallsBack(t *testing.T) {
	d := Lookup("doesNotExist")
	if d.Name != "waveSweep" {
		t.Errorf("expected waveSweep fallback, got %s", d.Name)
	}
}

func TestDirectSnapInstant(t *testing.T) {
	d := Lookup("directSnap")
	if !d.Instant {
		t.Error("directSnap should be instant")
	}
	if d.Shape != nil {
		t.Error("instant animation should carry no pre-shape")
	}
}

func TestRevealTimeMonotonic(t *testing.T) {
	d := Lookup("typewriter")

	prev := d.RevealTime(0)
	if diff := prev - d.Delay; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("first reveal should equal delay: %f vs %f", prev, d.Delay)
	}
	for c := 1; c < 8; c++ {
		r := d.RevealTime(c)
		if r <= prev {
			t.Fatalf("reveal times not increasing at char %d: %f <= %f", c, r, prev)
		}
		prev = r
	}
}

func TestRevealTimeStagger(t *testing.T) {
	d := Lookup("rainDrop")
	gap := d.RevealTime(3) - d.RevealTime(2)
	if diff := gap - d.Stagger; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("expected stagger %f between reveals, got %f", d.Stagger, gap)
	}
}

func TestShapesDeterministic(t *testing.T) {
	center := vecmath.Vec3{X: 2, Y: 0, Z: -1}
	for _, d := range defs {
		if d.Shape == nil {
			continue
		}
		a := d.Shape(1, 37, 200, center)
		b := d.Shape(1, 37, 200, center)
		if a != b {
			t.Errorf("animation %s shape not deterministic", d.Name)
		}
	}
}

func TestShapesBounded(t *testing.T) {
	// Pre-shapes feed the kernel as targets; they must stay well inside the
	// respawn boundary (r=30) for any character slot.
	center := vecmath.Vec3{X: 8, Y: 0, Z: 0}
	for _, d := range defs {
		if d.Shape == nil {
			continue
		}
		for c := 0; c < 6; c++ {
			for i := 0; i < 300; i += 17 {
				p := d.Shape(c, i, 300, center)
				if p.Length() > 30 {
					t.Fatalf("animation %s places points outside bounds: %v", d.Name, p)
				}
			}
		}
	}
}

func TestRainDropStartsAbove(t *testing.T) {
	d := Lookup("rainDrop")
	center := vecmath.Vec3{X: -3, Y: 0, Z: 2}
	for i := 0; i < 50; i++ {
		p := d.Shape(0, i, 50, center)
		if p.Y < 14 {
			t.Fatalf("rain drop should start above the text, got y=%f", p.Y)
		}
	}
}

func TestTypewriterEntersFromLeft(t *testing.T) {
	d := Lookup("typewriter")
	p := d.Shape(4, 10, 100, vecmath.Vec3{X: 12, Y: 0, Z: 0})
	if p.X != -16 {
		t.Errorf("typewriter should enter from the left edge, got x=%f", p.X)
	}
}
