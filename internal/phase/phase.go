// Package phase tracks the per-group lifecycle of the particle population:
// free flow, timed formation into text, held text, and release back to flow.
package phase

import (
	"github.com/san-kum/glyphflow/internal/macro"
	"github.com/san-kum/glyphflow/internal/vecmath"
)

type Phase int

const (
	Flow Phase = iota
	Forming
	Text
	Releasing
)

func (p Phase) String() string {
	switch p {
	case Flow:
		return "flow"
	case Forming:
		return "forming"
	case Text:
		return "text"
	case Releasing:
		return "releasing"
	}
	return "unknown"
}

const (
	// DefaultFlowConvergence keeps free-flowing particles loosely herded
	// toward their pattern targets.
	DefaultFlowConvergence = 0.10
	// ReleaseThreshold is the convergence below which releasing ends.
	ReleaseThreshold = 0.02
	// DefaultHold is how long text is held before releasing.
	DefaultHold = 2.5
)

// FlowRequest is a deferred setFlowTargets captured while text is held.
// Applying a flow pattern mid-hold would scatter the held glyphs, so the
// request waits on the group until release completes.
type FlowRequest struct {
	Pattern string
	Origin  vecmath.Vec3
	Scale   float32
	Physics macro.Overrides
}

// Group is the phase state for one index range of the buffer.
type Group struct {
	Phase             Phase
	Convergence       float64
	TargetConvergence float64
	MaxConvergence    float64

	LastEnterTime  float64
	FormationStart float64
	LastTextTime   float64

	HoldDuration float64
	ReleaseSpeed float64
	DissolveMode bool

	Sweep        vecmath.Vec3
	CurrentSweep vecmath.Vec3

	Pending *FlowRequest
}

func NewGroup() Group {
	return Group{
		Phase:             Flow,
		TargetConvergence: DefaultFlowConvergence,
		MaxConvergence:    1.0,
		HoldDuration:      DefaultHold,
		ReleaseSpeed:      1.0,
		Sweep:             vecmath.Vec3{X: 1, Y: 0, Z: 0},
		CurrentSweep:      vecmath.Vec3{X: 1, Y: 0, Z: 0},
	}
}

// Enter moves the group to p and records the time.
func (g *Group) Enter(p Phase, now float64) {
	g.Phase = p
	g.LastEnterTime = now
	if p == Text {
		g.LastTextTime = now
	}
	if p == Forming {
		g.FormationStart = now
	}
}

// ResetOverrides restores the per-lyric knobs to their defaults. Called when
// releasing completes so one command's overrides never leak into the next.
func (g *Group) ResetOverrides() {
	g.MaxConvergence = 1.0
	g.HoldDuration = DefaultHold
	g.ReleaseSpeed = 1.0
	g.DissolveMode = false
}

// Advance eases convergence toward its target and the sweep vector toward
// its authored direction. Convergence is clamped to [0, MaxConvergence]
// before the kernel consumes it, keeping force suppression bounded even
// under aggressive overrides.
func (g *Group) Advance(convUp, convDown float64) {
	rate := convUp
	if g.TargetConvergence < g.Convergence {
		rate = convDown * g.ReleaseSpeed
	}
	g.Convergence += (g.TargetConvergence - g.Convergence) * rate
	g.Convergence = vecmath.Clamp64(g.Convergence, 0, g.MaxConvergence)

	g.CurrentSweep = g.CurrentSweep.Lerp(g.Sweep, 0.04)
}

// HoldElapsed reports whether the text hold has run out.
func (g *Group) HoldElapsed(now float64) bool {
	return g.Phase == Text && now-g.LastTextTime > g.HoldDuration
}

// Released reports whether releasing has decayed far enough to re-enter flow.
func (g *Group) Released() bool {
	return g.Phase == Releasing && g.Convergence < ReleaseThreshold
}
