package compute

import (
	"runtime"
	"sync"

	"github.com/san-kum/glyphflow/internal/particle"
	"github.com/san-kum/glyphflow/internal/pattern"
	"github.com/san-kum/glyphflow/internal/vecmath"
)

const (
	maxSpeed       = 3.0
	boundaryRadius = 30.0
	directStep     = 0.08
)

// CPUBackend runs the kernel as a host-side parallel-for, chunking the index
// range across workers. Particles never read each other, so chunks share
// nothing but the read-only uniforms.
type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{workers: runtime.NumCPU()}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Integrate(b *particle.Buffers, u *Uniforms) {
	n := b.N
	if n == 0 {
		return
	}
	if n < 4096 || c.workers == 1 {
		integrateRange(b, u, 0, n)
		return
	}

	var wg sync.WaitGroup
	chunk := (n + c.workers - 1) / c.workers
	for w := 0; w < c.workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			integrateRange(b, u, lo, hi)
		}(start, end)
	}
	wg.Wait()
}

// integrateRange is the kernel body. The step order is load-bearing: target
// resolution, attraction, forces, convergence pulls, damping, integration,
// flattening, respawn.
func integrateRange(b *particle.Buffers, u *Uniforms, lo, hi int) {
	dt := u.Dt
	t := u.Elapsed
	m := u.Macro

	// Slowly orbiting vortex center and ripple origin, shared by all
	// particles this tick.
	vortexCenter := vecmath.Vec3{X: 4 * vecmath.Cos(t*0.20), Y: 2 * vecmath.Sin(t*0.13), Z: 4 * vecmath.Sin(t*0.17)}

	rippleOrigin := vecmath.Vec3{X: 6 * vecmath.Sin(t*0.11), Y: 0, Z: 6 * vecmath.Cos(t*0.09)}

	for i := lo; i < hi; i++ {
		g := 0
		if i >= u.Split {
			g = 1
		}
		gs := &u.Groups[g]

		pos := b.PosAt(i)
		vel := b.VelAt(i)

		// 1. Resolve the particle's effective pattern and refresh its target
		// when a procedural pattern drives it.
		pid, origin, scale := resolvePattern(b, u, i, g, gs)
		if pid != pattern.IDNone {
			if p, ok := pattern.Eval(pid, i, b.N, t); ok {
				b.SetTgt(i, p.Scale(scale).Add(origin))
			}
		}
		tgt := b.TgtAt(i)

		// 2. Directional sweep turns convergence into a wipe across the
		// shape instead of a uniform snap.
		sweepDelay := pos.Dot(gs.Sweep)
		jitter := vecmath.Hash11(uint32(i)*193 + 71)
		attr := vecmath.Clamp(gs.Convergence-sweepDelay*0.03-jitter*0.01, 0, 1)
		free := 1 - attr

		// 3. Multi-octave curl noise, suppressed while converging.
		if m.NoiseStrength > 0 {
			np := pos.Scale(m.NoiseScale * 0.1).Add(vecmath.Vec3{X: t * 0.05, Y: t * 0.04, Z: t * 0.03})
			curl := vecmath.Curl(np, 3)
			vel = vel.Add(curl.Scale(m.NoiseStrength * free * dt * 2.0))
		}

		// 4. Vortex around the orbiting center.
		if m.Vortex > 0 {
			r := vecmath.Vec3{X: pos.X - vortexCenter.X, Y: 0, Z: pos.Z - vortexCenter.Z}
			d := r.Length()
			if d > 0.3 {
				tangent := vecmath.Vec3{X: -r.Z / d, Y: 0, Z: r.X / d}
				vel = vel.Add(tangent.Scale(m.Vortex * free * dt * 3.0 / (1 + d*0.2)))
			}
		}

		// 5. Concentric ripple from a moving origin.
		if m.Wave > 0 {
			r := pos.Sub(rippleOrigin)
			d := r.Length()
			if d > 0.1 {
				push := vecmath.Sin(d*1.1-t*2.2) * m.Wave * free * dt * 1.5
				vel = vel.Add(r.Scale(push / d))
			}
		}

		// 6. Convergence: direct distance-independent advance, a linger pull
		// that strengthens near the target, and a spring pull that
		// strengthens with attraction. Background-split particles take a
		// reduced share of both pulls.
		toTgt := tgt.Sub(pos)
		dist := toTgt.Length()
		pullScale := float32(1.0)
		if b.Role[i] == particle.RoleBackground {
			pullScale = 0.4
		}
		if dist > 1e-5 {
			dir := toTgt.Scale(1 / dist)
			step := attr * directStep * pullScale
			if step > dist {
				step = dist
			}
			pos = pos.Add(dir.Scale(step))

			proximity := 1 / (1 + dist*dist*0.25)
			vel = vel.Add(toTgt.Scale(proximity * attr * 0.12 * pullScale))
			vel = vel.Add(toTgt.Scale(m.Spring * attr * attr * 6 * pullScale * dt * 60))

			// 7. Kill residual velocity as the particle settles.
			vel = vel.Scale(1 - vecmath.Clamp(attr*proximity*0.85, 0, 0.95))
		}

		// 8. Camera repulsion, softened under orthographic projection.
		camVec := pos.Sub(u.Camera)
		camDist2 := camVec.Dot(camVec)
		if camDist2 < 36 && camDist2 > 1e-4 {
			k := float32(2.0)
			if u.Ortho {
				k = 0.4
			}
			vel = vel.Add(camVec.Scale(k * dt / camDist2))
		}

		// 9. Soft spherical boundary.
		dist0 := pos.Length()
		if dist0 > boundaryRadius {
			vel = vel.Sub(pos.Scale((dist0 - boundaryRadius) * 0.02 / dist0))
		}

		// 10. Gravity, boosted in dissolve mode while releasing.
		grav := m.Gravity
		if gs.Dissolve && gs.Releasing {
			grav *= 4
		}
		vel.Y -= grav * dt * 60

		// 11. Clamp speed.
		speed := vel.Length()
		if speed > maxSpeed {
			vel = vel.Scale(maxSpeed / speed)
		}

		// 12. Damp and integrate.
		vel = vel.Scale(m.Damping)
		pos = pos.Add(vel.Scale(dt * 60))

		// 13. Flatten non-anamorphic text onto its plane.
		if gs.Flatten {
			vel.Z *= 0.8
			pos.Z += (tgt.Z - pos.Z) * 0.5
		}

		// 14. Life and shell respawn.
		rem := b.LifeRem[i] - dt
		if rem < 0 {
			pos = particle.ShellPoint(tgt, i, t, gs.Convergence)
			vel = vecmath.Vec3{}
			rem += b.LifeTot[i]
		}
		b.LifeRem[i] = rem

		b.SetPos(i, pos)
		b.SetVel(i, vel)
	}
}

// resolvePattern applies the precedence order: multi-layer assignment, then
// background-split pattern, then the group's own pattern.
func resolvePattern(b *particle.Buffers, u *Uniforms, i, g int, gs *GroupState) (int, vecmath.Vec3, float32) {
	if g == 0 && u.LayerCount > 0 {
		l := u.Layers[i%u.LayerCount]
		if l.PatternID != pattern.IDNone {
			return l.PatternID, l.Origin, l.Scale
		}
		return pattern.IDNone, vecmath.Vec3{}, 1
	}
	if g == 0 && b.Role[i] == particle.RoleBackground && u.BackgroundPattern != pattern.IDNone {
		return u.BackgroundPattern, gs.PatternOrigin, gs.PatternScale
	}
	return gs.PatternID, gs.PatternOrigin, gs.PatternScale
}
