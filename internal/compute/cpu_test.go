package compute

import (
	"testing"

	"github.com/san-kum/glyphflow/internal/particle"
	"github.com/san-kum/glyphflow/internal/pattern"
	"github.com/san-kum/glyphflow/internal/vecmath"
)

func calmUniforms() *Uniforms {
	u := &Uniforms{
		Dt:      1.0 / 60,
		Elapsed: 0,
		Camera:  vecmath.Vec3{X: 0, Y: 0, Z: 55},
		Split:   1 << 30,
		Macro: Macro{
			Damping: 0.95,
		},
	}
	u.Groups[0] = GroupState{PatternScale: 1}
	u.Groups[1] = GroupState{PatternScale: 1}
	return u
}

func TestIntegrateDeterministic(t *testing.T) {
	a := particle.NewBuffers(2000)
	b := particle.NewBuffers(2000)
	backend := NewCPUBackend()

	ua := calmUniforms()
	ub := calmUniforms()
	ua.Macro = Macro{NoiseStrength: 0.8, NoiseScale: 0.5, Damping: 0.95, Vortex: 0.3, Wave: 0.2}
	ub.Macro = ua.Macro

	for step := 0; step < 30; step++ {
		ua.Elapsed = float32(step) / 60
		ub.Elapsed = ua.Elapsed
		backend.Integrate(a, ua)
		backend.Integrate(b, ub)
	}

	for i := 0; i < a.N; i++ {
		if a.PosAt(i) != b.PosAt(i) {
			t.Fatalf("positions diverged at particle %d: %v vs %v", i, a.PosAt(i), b.PosAt(i))
		}
	}
}

func TestIntegrateSpeedClamp(t *testing.T) {
	b := particle.NewBuffers(500)
	for i := 0; i < b.N; i++ {
		b.SetVel(i, vecmath.Vec3{X: 50, Y: -50, Z: 50})
	}

	u := calmUniforms()
	u.Macro.Damping = 1.0
	NewCPUBackend().Integrate(b, u)

	for i := 0; i < b.N; i++ {
		if s := b.VelAt(i).Length(); s > maxSpeed+1e-3 {
			t.Fatalf("particle %d exceeds speed clamp: %f", i, s)
		}
	}
}

func TestIntegrateRespawnOnShell(t *testing.T) {
	b := particle.NewBuffers(200)
	tgt := vecmath.Vec3{X: 3, Y: 1, Z: -2}
	for i := 0; i < b.N; i++ {
		b.SetTgt(i, tgt)
		b.LifeRem[i] = 0 // forces respawn on the next tick
	}

	u := calmUniforms()
	NewCPUBackend().Integrate(b, u)

	for i := 0; i < b.N; i++ {
		d := b.PosAt(i).Sub(tgt).Length()
		if d < 2.4 || d > 4.6 {
			t.Fatalf("particle %d respawned off the shell: %f", i, d)
		}
		if b.VelAt(i) != (vecmath.Vec3{}) {
			t.Fatalf("particle %d respawned with velocity", i)
		}
		if b.LifeRem[i] <= 0 {
			t.Fatalf("particle %d life not refilled", i)
		}
	}
}

func TestIntegrateConvergencePullsToTarget(t *testing.T) {
	b := particle.NewBuffers(100)
	tgt := vecmath.Vec3{X: 2, Y: 0, Z: 0}
	for i := 0; i < b.N; i++ {
		b.SetTgt(i, tgt)
		b.LifeRem[i] = 1e9
		b.LifeTot[i] = 1e9
	}

	u := calmUniforms()
	u.Groups[0].Convergence = 1.0
	u.Macro.Spring = 0.02
	backend := NewCPUBackend()

	before := meanDist(b, tgt)
	for step := 0; step < 300; step++ {
		u.Elapsed = float32(step) / 60
		backend.Integrate(b, u)
	}
	after := meanDist(b, tgt)

	if after >= before*0.2 {
		t.Errorf("convergence did not pull in: %f -> %f", before, after)
	}
}

func meanDist(b *particle.Buffers, tgt vecmath.Vec3) float32 {
	var sum float32
	for i := 0; i < b.N; i++ {
		sum += b.PosAt(i).Sub(tgt).Length()
	}
	return sum / float32(b.N)
}

func TestIntegrateBoundary(t *testing.T) {
	b := particle.NewBuffers(50)
	for i := 0; i < b.N; i++ {
		b.SetPos(i, vecmath.Vec3{X: 60, Y: 0, Z: 0})
		b.LifeRem[i] = 1e9
		b.LifeTot[i] = 1e9
	}

	u := calmUniforms()
	backend := NewCPUBackend()
	for step := 0; step < 600; step++ {
		backend.Integrate(b, u)
	}

	for i := 0; i < b.N; i++ {
		if d := b.PosAt(i).Length(); d > 60 {
			t.Fatalf("boundary failed to restrain particle %d: %f", i, d)
		}
		if b.PosAt(i).X >= 60 {
			t.Fatalf("particle %d never moved inward", i)
		}
	}
}

func TestIntegrateProceduralRefreshesTargets(t *testing.T) {
	b := particle.NewBuffers(100)
	u := calmUniforms()
	u.Groups[0].PatternID = pattern.IDHelix
	u.Groups[0].PatternScale = 1

	NewCPUBackend().Integrate(b, u)

	want, _ := pattern.Eval(pattern.IDHelix, 10, b.N, 0)
	if b.TgtAt(10) != want {
		t.Errorf("target not refreshed from pattern: %v vs %v", b.TgtAt(10), want)
	}
}

func TestIntegrateNoneKeepsStoredTarget(t *testing.T) {
	b := particle.NewBuffers(10)
	stored := vecmath.Vec3{X: 7, Y: 7, Z: 7}
	b.SetTgt(4, stored)

	u := calmUniforms()
	NewCPUBackend().Integrate(b, u)

	if b.TgtAt(4) != stored {
		t.Errorf("stored target was overwritten: %v", b.TgtAt(4))
	}
}

func TestResolvePatternPrecedence(t *testing.T) {
	b := particle.NewBuffers(8)
	u := calmUniforms()
	u.Groups[0].PatternID = pattern.IDRings
	u.Groups[1].PatternID = pattern.IDHelix
	u.Split = 4

	// Group pattern applies when no layers or split pattern are set.
	if id, _, _ := resolvePattern(b, u, 0, 0, &u.Groups[0]); id != pattern.IDRings {
		t.Errorf("expected group pattern, got %d", id)
	}
	if id, _, _ := resolvePattern(b, u, 5, 1, &u.Groups[1]); id != pattern.IDHelix {
		t.Errorf("expected group B pattern, got %d", id)
	}

	// Background-split pattern overrides the group pattern for background
	// particles in group A.
	b.Role[1] = particle.RoleBackground
	u.BackgroundPattern = pattern.IDAurora
	if id, _, _ := resolvePattern(b, u, 1, 0, &u.Groups[0]); id != pattern.IDAurora {
		t.Errorf("expected background pattern, got %d", id)
	}
	if id, _, _ := resolvePattern(b, u, 0, 0, &u.Groups[0]); id != pattern.IDRings {
		t.Errorf("text-role particle should keep the group pattern, got %d", id)
	}

	// Multi-layer assignment wins over everything in group A.
	u.LayerCount = 2
	u.Layers[0] = Layer{PatternID: pattern.IDDrape, Scale: 1}
	u.Layers[1] = Layer{PatternID: pattern.IDNone}
	if id, _, _ := resolvePattern(b, u, 2, 0, &u.Groups[0]); id != pattern.IDDrape {
		t.Errorf("expected layer pattern, got %d", id)
	}
	// Odd indices hit the disabled slot and keep their stored target.
	if id, _, _ := resolvePattern(b, u, 3, 0, &u.Groups[0]); id != pattern.IDNone {
		t.Errorf("disabled layer slot should resolve to none, got %d", id)
	}
	// Group B ignores layers entirely.
	if id, _, _ := resolvePattern(b, u, 6, 1, &u.Groups[1]); id != pattern.IDHelix {
		t.Errorf("group B should ignore layers, got %d", id)
	}
}

func TestSelectFallsBackToCPU(t *testing.T) {
	b := Select("nope", 100)
	if b.Name() != "cpu" {
		t.Errorf("expected cpu fallback, got %s", b.Name())
	}
}
