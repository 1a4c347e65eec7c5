package pattern

import (
	"testing"
)

func TestLookupKnown(t *testing.T) {
	d := Lookup("galaxySpin")
	if d.ID != IDGalaxySpin {
		t.Errorf("expected id %d, got %d", IDGalaxySpin, d.ID)
	}
	if d.Kind != KindProcedural {
		t.Error("expected procedural kind")
	}
}

func TestLookupUnknownFallsBack(t *testing.T) {
	d := Lookup("doesNotExist")
	if d.Name != "organic" {
		t.Errorf("expected organic fallback, got %s", d.Name)
	}
	if d.Kind != KindPointSet {
		t.Error("expected point set kind for organic")
	}
}

func TestNamesComplete(t *testing.T) {
	names := Names()
	if len(names) != 18 {
		t.Errorf("expected 18 patterns, got %d", len(names))
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			t.Errorf("duplicate pattern name: %s", name)
		}
		seen[name] = true
	}
}

func TestEvalPure(t *testing.T) {
	// Procedural patterns keep no state: same arguments, same target.
	for id := IDCubeLine; id <= IDHelix; id++ {
		a, ok := Eval(id, 137, 10000, 2.5)
		if !ok {
			t.Fatalf("pattern %d should be procedural", id)
		}
		b, _ := Eval(id, 137, 10000, 2.5)
		if a != b {
			t.Errorf("pattern %d not pure: %v vs %v", id, a, b)
		}
	}
}

func TestEvalNonProcedural(t *testing.T) {
	if _, ok := Eval(IDNone, 0, 100, 0); ok {
		t.Error("IDNone should not evaluate")
	}
	if _, ok := Eval(IDTree, 0, 100, 0); ok {
		t.Error("point set patterns should not evaluate procedurally")
	}
	if _, ok := Eval(99, 0, 100, 0); ok {
		t.Error("unknown id should not evaluate")
	}
}

func TestGalaxySpinRotates(t *testing.T) {
	a := galaxySpin(500, 10000, 0)
	b := galaxySpin(500, 10000, 1)

	if a == b {
		t.Error("expected the spiral to move over time")
	}
	// Radius stays fixed for a given particle; only the angle advances.
	ra := radiusSq(a.X, a.Z)
	rb := radiusSq(b.X, b.Z)
	if diff := ra - rb; diff > 0.001 || diff < -0.001 {
		t.Errorf("radius drifted: %f vs %f", ra, rb)
	}
}

func radiusSq(x, z float32) float32 {
	return float32(float64(x)*float64(x) + float64(z)*float64(z))
}

func TestBuildFractalTreeBounded(t *testing.T) {
	pts := buildFractalTree()
	if len(pts) == 0 {
		t.Fatal("expected points")
	}
	// 4 points per segment, at most 5000 segments.
	if len(pts) > 20000 {
		t.Errorf("fractal tree exceeds segment cap: %d points", len(pts))
	}
}

func TestBuildersNonEmpty(t *testing.T) {
	for _, d := range defs {
		if d.Kind != KindPointSet {
			continue
		}
		pts := d.Build()
		if len(pts) == 0 {
			t.Errorf("pattern %s built no points", d.Name)
		}
	}
}

func TestByID(t *testing.T) {
	if _, ok := ByID(IDAurora); !ok {
		t.Error("expected aurora by id")
	}
	if _, ok := ByID(42); ok {
		t.Error("unexpected hit for unused id")
	}
}
