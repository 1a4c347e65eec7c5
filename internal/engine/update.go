package engine

import (
	"github.com/san-kum/glyphflow/internal/compute"
	"github.com/san-kum/glyphflow/internal/glyph"
	"github.com/san-kum/glyphflow/internal/macro"
	"github.com/san-kum/glyphflow/internal/pattern"
	"github.com/san-kum/glyphflow/internal/phase"
	"github.com/san-kum/glyphflow/internal/vecmath"
)

// Update advances the engine by one tick: macro curve, phase machines, then
// one kernel dispatch. All host-side target and uniform writes happen before
// the dispatch, which is the only ordering the backends rely on.
func (e *Engine) Update(tc TickContext) {
	e.elapsed = tc.Elapsed
	e.macroSt.Tick(e.curve, tc.MusicTime, e.overrides)

	for g := 0; g < 2; g++ {
		if g == 1 && e.split == e.buf.N {
			continue
		}
		e.advanceGroup(g)
	}

	u := e.uniforms(tc)
	e.backend.Integrate(e.buf, &u)
	e.collectStats(tc)
}

func (e *Engine) advanceGroup(g int) {
	gr := &e.groups[g]
	gr.Advance(e.macroSt.ConvUp, e.macroSt.ConvDown)

	switch gr.Phase {
	case phase.Forming:
		allRevealed := true
		since := float32(e.elapsed - gr.FormationStart)
		for ci := range e.chars[g] {
			if e.chars[g][ci].Revealed {
				continue
			}
			if since >= e.anim[g].RevealTime(ci) {
				e.revealChar(g, ci)
			} else {
				allRevealed = false
			}
		}
		if allRevealed {
			e.enter(g, phase.Text)
		}

	case phase.Text:
		if gr.HoldElapsed(e.elapsed) {
			gr.TargetConvergence = 0
			e.enter(g, phase.Releasing)
		}

	case phase.Releasing:
		if gr.Released() {
			gr.ResetOverrides()
			req := gr.Pending
			gr.Pending = nil
			if req != nil {
				e.applyFlow(g, req.Pattern, req.Origin, req.Scale, req.Physics, true)
			} else {
				e.applyFlow(g, pattern.Default().Name, vecmath.Vec3{}, 1, macro.Overrides{}, false)
			}
		}
	}
}

func (e *Engine) uniforms(tc TickContext) compute.Uniforms {
	u := compute.Uniforms{
		Dt:                float32(tc.Delta),
		Elapsed:           float32(tc.Elapsed),
		Camera:            tc.CameraPos,
		Ortho:             tc.Ortho,
		Split:             e.split,
		LayerCount:        e.layerCount,
		Layers:            e.layers,
		BackgroundPattern: e.bgPattern,
		Macro: compute.Macro{
			NoiseStrength: float32(e.macroSt.NoiseStrength),
			NoiseScale:    float32(e.macroSt.NoiseScale),
			Spring:        float32(e.macroSt.Spring),
			Damping:       float32(e.macroSt.Damping),
			Vortex:        float32(e.macroSt.Vortex),
			Wave:          float32(e.macroSt.Wave),
			Gravity:       float32(e.macroSt.Gravity),
		},
	}
	for g := 0; g < 2; g++ {
		gr := &e.groups[g]
		u.Groups[g] = compute.GroupState{
			Convergence:   float32(gr.Convergence),
			Sweep:         gr.CurrentSweep,
			Flatten:       e.flatten[g] && (gr.Phase == phase.Text || gr.Phase == phase.Forming),
			Dissolve:      gr.DissolveMode,
			Releasing:     gr.Phase == phase.Releasing,
			PatternID:     e.gp[g].id,
			PatternOrigin: e.gp[g].origin,
			PatternScale:  e.gp[g].scale,
		}
		if u.Groups[g].PatternScale == 0 {
			u.Groups[g].PatternScale = 1
		}
	}
	return u
}

// collectStats samples a stride of the population; exact sums over a million
// particles are not worth a second full pass per frame.
func (e *Engine) collectStats(tc TickContext) {
	const stride = 64
	var speedSum, ke float64
	var centroid vecmath.Vec3
	samples := 0
	for i := 0; i < e.buf.N; i += stride {
		v := e.buf.VelAt(i)
		s := float64(v.Length())
		speedSum += s
		ke += 0.5 * s * s
		centroid = centroid.Add(e.buf.PosAt(i))
		samples++
	}
	var spread float64
	if samples > 0 {
		centroid = centroid.Scale(1 / float32(samples))
		for i := 0; i < e.buf.N; i += stride {
			spread += float64(e.buf.PosAt(i).Sub(centroid).Length())
		}
		spread /= float64(samples)
		speedSum /= float64(samples)
		ke /= float64(samples)
	}

	e.stats = Stats{
		ParticleCount: e.buf.N,
		SplitIndex:    e.split,
		PhaseA:        e.groups[0].Phase.String(),
		PhaseB:        e.groups[1].Phase.String(),
		ConvergenceA:  e.groups[0].Convergence,
		ConvergenceB:  e.groups[1].Convergence,
		MeanSpeed:     speedSum,
		KineticEnergy: ke,
		Spread:        spread,
		PointScale:    e.macroSt.PointScale,
	}
}

// GetStats returns the stats collected on the last Update.
func (e *Engine) GetStats() Stats { return e.stats }

func applyAlign(chars []glyph.CharPoints, align string, width float32) {
	var dx float32
	switch align {
	case "left":
		dx = width / 2
	case "right":
		dx = -width / 2
	default:
		return
	}
	off := vecmath.Vec3{X: dx}
	for ci := range chars {
		for pi := range chars[ci].Points {
			chars[ci].Points[pi] = chars[ci].Points[pi].Add(off)
		}
		chars[ci].Center = chars[ci].Center.Add(off)
	}
}
