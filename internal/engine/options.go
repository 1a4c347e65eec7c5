package engine

import (
	"github.com/san-kum/glyphflow/internal/macro"
	"github.com/san-kum/glyphflow/internal/vecmath"
)

// Options is the typed configuration for engine commands. Pointer fields are
// explicit optionals: nil means "keep the default".
type Options struct {
	// Text commands.
	Animation     string        // one of the formation names; empty = default
	ViewDirection *vecmath.Vec3 // non-default axis makes the text anamorphic
	TargetWidth   *float64
	Align         string // left, center (default), right

	// Hold / release behavior.
	MaxConvergence *float64
	HoldDuration   *float64
	ReleaseSpeed   *float64
	DissolveMode   bool

	// Flow commands.
	Origin *vecmath.Vec3
	Scale  *float64

	// Dual text+pattern split.
	BackgroundPattern string
	TextRatio         *float64 // fraction of each character kept as text

	// Group routing.
	ParticleGroup     int // 0 or 1
	GroupBPattern     string
	GroupBConvergence *float64
	GroupBOrigin      *vecmath.Vec3
	GroupBScale       *float64

	// Per-command physics overrides, eased in faster than the macro curve.
	Physics macro.Overrides
}

// LayerSpec is one multi-layer flow assignment.
type LayerSpec struct {
	Pattern string
	Origin  vecmath.Vec3
	Scale   float32
}

// TickContext is everything the engine consumes from its collaborators on
// one frame.
type TickContext struct {
	Delta     float64 // seconds since last tick
	Elapsed   float64 // wall-clock seconds since engine start
	MusicTime float64 // authored playback clock; may differ from Elapsed
	CameraPos vecmath.Vec3
	Ortho     bool
}

// Stats is the per-frame summary handed back to collaborators.
type Stats struct {
	ParticleCount int
	SplitIndex    int
	PhaseA        string
	PhaseB        string
	ConvergenceA  float64
	ConvergenceB  float64
	MeanSpeed     float64
	KineticEnergy float64
	Spread        float64
	PointScale    float64
}

func (o Options) targetWidth() float32 {
	if o.TargetWidth != nil {
		return float32(*o.TargetWidth)
	}
	return 20.0
}

func (o Options) textRatio() float32 {
	if o.TextRatio != nil {
		return vecmath.Clamp(float32(*o.TextRatio), 0, 1)
	}
	return 0.6
}

func (o Options) origin() vecmath.Vec3 {
	if o.Origin != nil {
		return *o.Origin
	}
	return vecmath.Vec3{}
}

func (o Options) scale() float32 {
	if o.Scale != nil && *o.Scale > 0 {
		return float32(*o.Scale)
	}
	return 1.0
}

var defaultView = vecmath.Vec3{X: 0, Y: 0, Z: -1}

// anamorphic reports whether the authored view direction is off the default
// view axis.
func (o Options) anamorphic() bool {
	if o.ViewDirection == nil {
		return false
	}
	d := o.ViewDirection.Normalize().Sub(defaultView)
	return d.Length() > 1e-3
}
