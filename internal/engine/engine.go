// Package engine is the particle choreography core: it owns the buffers,
// runs the phase controller and macro curve on the host, and dispatches the
// force-integration kernel through a compute backend each tick.
package engine

import (
	"github.com/san-kum/glyphflow/internal/compute"
	"github.com/san-kum/glyphflow/internal/formation"
	"github.com/san-kum/glyphflow/internal/glyph"
	"github.com/san-kum/glyphflow/internal/macro"
	"github.com/san-kum/glyphflow/internal/particle"
	"github.com/san-kum/glyphflow/internal/pattern"
	"github.com/san-kum/glyphflow/internal/phase"
	"github.com/san-kum/glyphflow/internal/vecmath"
)

// CharacterRecord is one character's slice of the buffer and its final text
// targets. Rebuilt wholesale on every text command.
type CharacterRecord struct {
	Text     string
	Start    int
	Count    int
	Targets  []vecmath.Vec3
	Center   vecmath.Vec3
	Revealed bool
}

type groupPattern struct {
	id     int
	origin vecmath.Vec3
	scale  float32
}

// Engine animates one particle population. Not safe for concurrent use:
// commands and Update must be sequenced by the caller, normally on the frame
// loop between kernel dispatches.
type Engine struct {
	buf     *particle.Buffers
	backend compute.Backend

	curve     macro.Curve
	macroSt   macro.State
	overrides macro.Overrides

	groups  [2]phase.Group
	split   int
	elapsed float64

	chars   [2][]CharacterRecord
	anim    [2]formation.Def
	flatten [2]bool
	gp      [2]groupPattern

	layers     [4]compute.Layer
	layerCount int
	bgPattern  int

	pointSets map[int][]vecmath.Vec3

	events phase.Events
	stats  Stats
}

// New builds an engine over n particles using the named compute backend
// ("cpu" or "opengl"; anything else falls back to cpu).
func New(n int, backendName string) *Engine {
	e := &Engine{
		buf:       particle.NewBuffers(n),
		backend:   compute.Select(backendName, n),
		curve:     macro.DefaultCurve(),
		groups:    [2]phase.Group{phase.NewGroup(), phase.NewGroup()},
		split:     n,
		pointSets: make(map[int][]vecmath.Vec3),
		events:    phase.NopEvents{},
	}
	e.macroSt = macro.NewState(e.curve)
	e.applyPointSet(0, pattern.Default(), vecmath.Vec3{}, 1)
	return e
}

// SetCurve replaces the authored macro tension curve.
func (e *Engine) SetCurve(c macro.Curve) {
	if len(c.Segments) > 0 {
		e.curve = c
	}
}

// SetEvents attaches an event sink. Nil restores the no-op sink.
func (e *Engine) SetEvents(ev phase.Events) {
	if ev == nil {
		ev = phase.NopEvents{}
	}
	e.events = ev
}

// Buffers exposes the position/color data for the renderer. Read-only by
// contract: only the engine and its kernel write these.
func (e *Engine) Buffers() *particle.Buffers { return e.buf }

// Group returns a copy of the phase state for inspection.
func (e *Engine) Group(i int) phase.Group { return e.groups[i&1] }

// SplitIndex returns the current A/B boundary.
func (e *Engine) SplitIndex() int { return e.split }

// LayerCount reports the active multi-layer assignment size.
func (e *Engine) LayerCount() int { return e.layerCount }

// Layer returns a copy of layer slot i.
func (e *Engine) Layer(i int) compute.Layer { return e.layers[i&3] }

func (e *Engine) groupRange(g int) (int, int) {
	if g == 0 {
		return 0, e.split
	}
	return e.split, e.buf.N
}

func (e *Engine) enter(g int, p phase.Phase) {
	from := e.groups[g].Phase
	if from == p {
		return
	}
	e.groups[g].Enter(p, e.elapsed)
	e.events.OnPhaseChange(g, from, p)
}

// SetText replaces the target shape of a group with rasterized text and
// begins the formation. Empty text is a no-op.
func (e *Engine) SetText(text string, opts Options) {
	if len(text) == 0 {
		return
	}

	g := opts.ParticleGroup & 1
	if g == 1 || opts.GroupBPattern != "" {
		// Split before sampling so the text is laid out over group A's
		// range only, not indices the kernel will drive with group B.
		e.activateGroupB()
	} else {
		e.mergeGroupB()
	}

	start, end := e.groupRange(g)
	avail := end - start
	if avail <= 0 {
		return
	}

	runes := []rune(text)
	perChar := avail / len(runes)
	if perChar > 2400 {
		perChar = 2400
	}
	if perChar < 1 {
		perChar = 1
	}

	zSpread := float32(0.15)
	anamorphic := opts.anamorphic()
	if anamorphic {
		zSpread = 1.4
	}
	chars := glyph.SampleString(text, opts.targetWidth(), zSpread, perChar, uint32(len(text))*31+uint32(g))
	if anamorphic {
		glyph.RotateFrame(chars, *opts.ViewDirection)
	}
	applyAlign(chars, opts.Align, opts.targetWidth())

	records := make([]CharacterRecord, 0, len(chars))
	for ci, cp := range chars {
		records = append(records, CharacterRecord{
			Text:    string(cp.Char),
			Start:   start + ci*perChar,
			Count:   perChar,
			Targets: cp.Points,
			Center:  cp.Center,
		})
	}

	e.commitText(g, text, records, opts, !anamorphic)
	if opts.GroupBPattern != "" && g == 0 {
		e.configureGroupB(opts)
	}
}

// SetShadowSculptureTarget builds the dual-projection cloud readable as
// textA from the front and textB from above, and forms into it.
func (e *Engine) SetShadowSculptureTarget(textA, textB string, opts Options) {
	if len(textA) == 0 || len(textB) == 0 {
		return
	}

	g := opts.ParticleGroup & 1
	if g == 1 {
		e.activateGroupB()
	} else {
		e.mergeGroupB()
	}

	start, end := e.groupRange(g)
	avail := end - start
	if avail <= 0 {
		return
	}

	pts := glyph.Sculpture(textA, textB, opts.targetWidth(), avail, 17)
	if len(pts) == 0 {
		return
	}

	rec := CharacterRecord{
		Text:    textA + "/" + textB,
		Start:   start,
		Count:   avail,
		Targets: pts,
	}
	// The sculpture has authored depth on both axes; never flatten it.
	e.commitText(g, rec.Text, []CharacterRecord{rec}, opts, false)
}

// commitText installs character records and begins forming (or snaps to text
// for instant animations).
func (e *Engine) commitText(g int, text string, records []CharacterRecord, opts Options, flatten bool) {
	e.chars[g] = records
	e.flatten[g] = flatten
	e.gp[g] = groupPattern{id: pattern.IDNone}
	if g == 0 {
		e.layerCount = 0
	}
	e.applyRoles(g, opts)
	e.applyHoldOptions(g, opts)
	e.overrides = opts.Physics

	e.events.OnTextCommitted(g, text)
	e.startFormation(g, opts)
}

func (e *Engine) startFormation(g int, opts Options) {
	anim := formation.Lookup(opts.Animation)
	e.anim[g] = anim
	e.groups[g].TargetConvergence = 1.0

	if anim.Instant {
		for ci := range e.chars[g] {
			e.revealChar(g, ci)
		}
		e.enter(g, phase.Text)
		return
	}

	for ci := range e.chars[g] {
		rec := &e.chars[g][ci]
		rec.Revealed = false
		for j := 0; j < rec.Count; j++ {
			p := anim.Shape(ci, j, rec.Count, rec.Center)
			if e.flatten[g] {
				// Flat text has no inherent depth; a 3D pre-shape would leave
				// a visible seam when the reveal collapses z.
				p.Z = 0
			}
			e.buf.SetTgt(rec.Start+j, p)
		}
	}
	e.enter(g, phase.Forming)
}

// revealChar swaps a character's targets from pre-shape to text. Idempotent.
func (e *Engine) revealChar(g, ci int) {
	rec := &e.chars[g][ci]
	if rec.Revealed {
		return
	}
	rec.Revealed = true
	if len(rec.Targets) == 0 {
		// Space slots have no glyph points. Scatter their particles loosely
		// around the slot so they do not converge onto stale targets while
		// the text is held.
		for j := 0; j < rec.Count; j++ {
			h := vecmath.Hash13(uint32(rec.Start+j)*101 + 9)
			p := rec.Center.Add(vecmath.Vec3{X: (h.X - 0.5) * 24, Y: (h.Y - 0.5) * 16, Z: (h.Z - 0.5) * 24})
			e.buf.SetTgt(rec.Start+j, p)
		}
		return
	}
	for j := 0; j < rec.Count; j++ {
		e.buf.SetTgt(rec.Start+j, rec.Targets[j%len(rec.Targets)])
	}
}

func (e *Engine) applyRoles(g int, opts Options) {
	start, end := e.groupRange(g)
	if g != 0 || opts.BackgroundPattern == "" {
		for i := start; i < end; i++ {
			e.buf.Role[i] = particle.RoleText
		}
		if g == 0 {
			e.bgPattern = pattern.IDNone
		}
		return
	}

	bg := pattern.Lookup(opts.BackgroundPattern)
	if bg.Kind != pattern.KindProcedural {
		bg = pattern.Def{ID: pattern.IDNoiseFlow}
	}
	e.bgPattern = bg.ID
	ratio := opts.textRatio()
	for _, rec := range e.chars[g] {
		textCount := int(float32(rec.Count) * ratio)
		for j := 0; j < rec.Count; j++ {
			role := particle.RoleText
			if j >= textCount {
				role = particle.RoleBackground
			}
			e.buf.Role[rec.Start+j] = role
		}
	}
}

func (e *Engine) applyHoldOptions(g int, opts Options) {
	gr := &e.groups[g]
	gr.MaxConvergence = 1.0
	if opts.MaxConvergence != nil {
		gr.MaxConvergence = vecmath.Clamp64(*opts.MaxConvergence, 0, 1)
	}
	gr.HoldDuration = phase.DefaultHold
	if opts.HoldDuration != nil && *opts.HoldDuration > 0 {
		gr.HoldDuration = *opts.HoldDuration
	}
	gr.ReleaseSpeed = 1.0
	if opts.ReleaseSpeed != nil && *opts.ReleaseSpeed > 0 {
		gr.ReleaseSpeed = *opts.ReleaseSpeed
	}
	gr.DissolveMode = opts.DissolveMode
}

// SetFlowTargets points a group at a named flow pattern. Called while that
// group holds or forms text, the request is deferred until release completes
// so held glyphs are not scattered mid-hold.
func (e *Engine) SetFlowTargets(name string, opts Options) {
	g := opts.ParticleGroup & 1
	if g == 1 {
		e.activateGroupB()
	}
	gr := &e.groups[g]

	if gr.Phase == phase.Text || gr.Phase == phase.Forming {
		gr.Pending = &phase.FlowRequest{
			Pattern: name,
			Origin:  opts.origin(),
			Scale:   opts.scale(),
			Physics: opts.Physics,
		}
		return
	}

	e.applyFlow(g, name, opts.origin(), opts.scale(), opts.Physics, true)
	if opts.GroupBPattern != "" && g == 0 {
		e.configureGroupB(opts)
	}
}

// applyFlow performs the actual pattern switch: layers and the background
// split clear, and overrides re-seed from this command. Explicit commands
// also merge group B back; the automatic release-to-flow transition does
// not, so a held group-B text survives group A's release.
func (e *Engine) applyFlow(g int, name string, origin vecmath.Vec3, scale float32, physics macro.Overrides, merge bool) {
	if g == 0 {
		if merge {
			e.mergeGroupB()
		}
		e.layerCount = 0
		e.bgPattern = pattern.IDNone
	}

	start, end := e.groupRange(g)
	for i := start; i < end; i++ {
		e.buf.Role[i] = particle.RoleText
	}

	def := pattern.Lookup(name)
	if def.Kind == pattern.KindProcedural {
		e.gp[g] = groupPattern{id: def.ID, origin: origin, scale: scale}
	} else {
		e.applyPointSet(g, def, origin, scale)
	}

	e.flatten[g] = false
	e.chars[g] = nil
	e.overrides = physics
	e.groups[g].TargetConvergence = phase.DefaultFlowConvergence
	e.enter(g, phase.Flow)
	e.events.OnPatternChange(g, def.Name)
}

func (e *Engine) applyPointSet(g int, def pattern.Def, origin vecmath.Vec3, scale float32) {
	pts, ok := e.pointSets[def.ID]
	if !ok {
		pts = def.Build()
		e.pointSets[def.ID] = pts
	}
	e.gp[g] = groupPattern{id: pattern.IDNone}
	if len(pts) == 0 {
		return
	}
	start, end := e.groupRange(g)
	for i := start; i < end; i++ {
		e.buf.SetTgt(i, pts[(i-start)%len(pts)].Scale(scale).Add(origin))
	}
}

// SetFlowTargetsMultiLayer assigns up to four patterns striped across the
// population by index modulo layer count. Extra layers are ignored; unfilled
// slots stay disabled.
func (e *Engine) SetFlowTargetsMultiLayer(layers []LayerSpec) {
	e.mergeGroupB()
	e.bgPattern = pattern.IDNone

	e.layers = [4]compute.Layer{}
	n := len(layers)
	if n > 4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		def := pattern.Lookup(layers[i].Pattern)
		id := def.ID
		if def.Kind != pattern.KindProcedural {
			// Point sets cannot be recomputed per tick in a layer slot; the
			// organic baseline has a procedural stand-in via noiseFlow.
			id = pattern.IDNoiseFlow
		}
		scale := layers[i].Scale
		if scale == 0 {
			scale = 1
		}
		e.layers[i] = compute.Layer{PatternID: id, Origin: layers[i].Origin, Scale: scale}
	}
	e.layerCount = n

	e.overrides = macro.Overrides{}
	e.groups[0].TargetConvergence = phase.DefaultFlowConvergence
	e.enter(0, phase.Flow)
	e.events.OnPatternChange(0, "multilayer")
}

// SetMode routes a mode switch: "flow" behaves like SetFlowTargets with the
// same deferral rules. Unknown modes are ignored.
func (e *Engine) SetMode(mode, patternName string, opts Options) {
	switch mode {
	case "flow":
		e.SetFlowTargets(patternName, opts)
	}
}

// SnapToTargets teleports every particle onto its target and completes the
// convergence instantly. Used for seek/scrub, where animating would lie
// about the playback position.
func (e *Engine) SnapToTargets() {
	for g := 0; g < 2; g++ {
		gr := &e.groups[g]
		gr.Convergence = vecmath.Clamp64(gr.TargetConvergence, 0, gr.MaxConvergence)
		if e.groups[g].Phase == phase.Forming {
			for ci := range e.chars[g] {
				e.revealChar(g, ci)
			}
			e.enter(g, phase.Text)
		}
	}
	for i := 0; i < e.buf.N; i++ {
		e.buf.SetPos(i, e.buf.TgtAt(i))
		e.buf.SetVel(i, vecmath.Vec3{})
	}
}

func (e *Engine) activateGroupB() {
	if e.split == e.buf.N {
		e.split = e.buf.N / 2
		e.groups[1] = phase.NewGroup()
	}
}

// mergeGroupB restores group B to inert: the whole buffer belongs to group A
// again.
func (e *Engine) mergeGroupB() {
	if e.split != e.buf.N {
		e.split = e.buf.N
		e.groups[1] = phase.NewGroup()
		e.chars[1] = nil
		e.gp[1] = groupPattern{}
	}
}

// configureGroupB drives the secondary group from a group-A command's
// groupB options: an independent pattern running beneath the text.
func (e *Engine) configureGroupB(opts Options) {
	e.activateGroupB()
	def := pattern.Lookup(opts.GroupBPattern)
	origin := vecmath.Vec3{}
	if opts.GroupBOrigin != nil {
		origin = *opts.GroupBOrigin
	}
	scale := float32(1)
	if opts.GroupBScale != nil && *opts.GroupBScale > 0 {
		scale = float32(*opts.GroupBScale)
	}
	if def.Kind == pattern.KindProcedural {
		e.gp[1] = groupPattern{id: def.ID, origin: origin, scale: scale}
	} else {
		e.applyPointSet(1, def, origin, scale)
	}
	conv := phase.DefaultFlowConvergence
	if opts.GroupBConvergence != nil {
		conv = vecmath.Clamp64(*opts.GroupBConvergence, 0, 1)
	}
	e.groups[1].TargetConvergence = conv
	e.events.OnPatternChange(1, def.Name)
}
