// Package pattern provides the flow target generators. Procedural patterns
// are pure functions of (index, count, time) with no retained state, so they
// can be evaluated for every particle on every tick by any number of workers
// or translated to a GPU kernel. Point-set patterns build a finite cloud once
// on activation and are indexed modulo their size.
package pattern

import (
	"math"

	"github.com/san-kum/glyphflow/internal/vecmath"
)

type Kind int

const (
	KindProcedural Kind = iota
	KindPointSet
)

// Pattern IDs are stable wire values: 0 means "no procedural recompute, keep
// the stored target" (used for text targets, point-set patterns, and disabled
// multi-layer slots).
const (
	IDNone = 0

	IDCubeLine     = 1
	IDWaveField    = 2
	IDRings        = 3
	IDBreathSphere = 4
	IDPendulums    = 5
	IDGalaxySpin   = 6
	IDVortexDrain  = 7
	IDRipples      = 8
	IDSineFlow     = 9
	IDAurora       = 10
	IDNoiseFlow    = 11
	IDDrape        = 12
	IDHelix        = 13

	IDTree        = 14
	IDFractalTree = 15
	IDKoch        = 16
	IDWalks       = 17
	IDOrganic     = 18
)

// EvalFunc computes a flow target for particle i of n at time t.
type EvalFunc func(i, n int, t float32) vecmath.Vec3

type Def struct {
	ID    int
	Name  string
	Kind  Kind
	Eval  EvalFunc              // procedural only
	Build func() []vecmath.Vec3 // point sets only
}

var defs = []Def{
	{IDCubeLine, "cubeLine", KindProcedural, cubeLine, nil},
	{IDWaveField, "waveField", KindProcedural, waveField, nil},
	{IDRings, "rings", KindProcedural, rings, nil},
	{IDBreathSphere, "breathSphere", KindProcedural, breathSphere, nil},
	{IDPendulums, "pendulums", KindProcedural, pendulums, nil},
	{IDGalaxySpin, "galaxySpin", KindProcedural, galaxySpin, nil},
	{IDVortexDrain, "vortexDrain", KindProcedural, vortexDrain, nil},
	{IDRipples, "ripples", KindProcedural, ripples, nil},
	{IDSineFlow, "sineFlow", KindProcedural, sineFlow, nil},
	{IDAurora, "aurora", KindProcedural, aurora, nil},
	{IDNoiseFlow, "noiseFlow", KindProcedural, noiseFlow, nil},
	{IDDrape, "drape", KindProcedural, drape, nil},
	{IDHelix, "helix", KindProcedural, helix, nil},

	{IDTree, "tree", KindPointSet, nil, buildTree},
	{IDFractalTree, "fractalTree", KindPointSet, nil, buildFractalTree},
	{IDKoch, "koch", KindPointSet, nil, buildKoch},
	{IDWalks, "randomWalks", KindPointSet, nil, buildWalks},
	{IDOrganic, "organic", KindPointSet, nil, buildOrganic},
}

var byName = func() map[string]Def {
	m := make(map[string]Def, len(defs))
	for _, d := range defs {
		m[d.Name] = d
	}
	return m
}()

var byID = func() map[int]Def {
	m := make(map[int]Def, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return m
}()

// Default is the fallback for unknown names and for the release-to-flow
// transition when nothing was queued during the hold.
func Default() Def { return byName["organic"] }

// Lookup resolves a pattern by name, falling back to the default organic
// cloud for unknown names rather than failing.
func Lookup(name string) Def {
	if d, ok := byName[name]; ok {
		return d
	}
	return Default()
}

func ByID(id int) (Def, bool) {
	d, ok := byID[id]
	return d, ok
}

// Eval evaluates a procedural pattern by ID. Unknown or non-procedural IDs
// return ok=false, meaning the caller should keep the stored target.
func Eval(id int, i, n int, t float32) (vecmath.Vec3, bool) {
	d, ok := byID[id]
	if !ok || d.Kind != KindProcedural {
		return vecmath.Vec3{}, false
	}
	return d.Eval(i, n, t), true
}

func Names() []string {
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return names
}

const tau = 2 * math.Pi

// cubeLine arranges pulsing cubes along the x axis; each particle belongs to
// one cube and breathes with a per-cube phase offset.
func cubeLine(i, n int, t float32) vecmath.Vec3 {
	const cubes = 5
	cube := i % cubes
	j := i / cubes

	h := vecmath.Hash13(uint32(j)*17 + uint32(cube))
	pulse := 1.0 + 0.4*vecmath.Sin(t*1.3+float32(cube)*1.1)
	side := 2.2 * pulse

	cx := (float32(cube) - float32(cubes-1)/2) * 6.0
	return vecmath.Vec3{X: cx + (h.X-0.5)*side, Y: (h.Y - 0.5) * side, Z: (h.Z - 0.5) * side}

}

// waveField is a rolling height field on a grid.
func waveField(i, n int, t float32) vecmath.Vec3 {
	cols := int(math.Sqrt(float64(n))) + 1
	x := float32(i%cols)/float32(cols)*24 - 12
	z := float32(i/cols)/float32(cols)*24 - 12
	y := 2.2*vecmath.Sin(x*0.5+t*1.4) + 1.3*vecmath.Cos(z*0.6+t*0.9)
	return vecmath.Vec3{X: x, Y: y, Z: z}
}

// rings places particles on concentric counter-rotating rings.
func rings(i, n int, t float32) vecmath.Vec3 {
	const count = 7
	ring := i % count
	spin := t * 0.5 * float32(1+ring%3)
	if ring%2 == 1 {
		spin = -spin
	}
	radius := 2.0 + float32(ring)*1.6
	perRing := n/count + 1
	a := float32(i/count)/float32(perRing)*tau + spin
	return vecmath.Vec3{X: radius * vecmath.Cos(a), Y: (float32(ring) - float32(count)/2) * 0.6, Z: radius * vecmath.Sin(a)}

}

// breathSphere is a Fibonacci-sphere that slowly inflates and deflates.
func breathSphere(i, n int, t float32) vecmath.Vec3 {
	const golden = 2.39996323
	k := float32(i) + 0.5
	phi := float32(math.Acos(1 - 2*float64(k)/float64(n)))
	theta := golden * k
	r := 8.0 * (1 + 0.18*vecmath.Sin(t*0.8))
	sp := vecmath.Sin(phi)
	return vecmath.Vec3{X: r * sp * vecmath.Cos(theta), Y: r * vecmath.Cos(phi), Z: r * sp * vecmath.Sin(theta)}

}

// pendulums hangs an array of swinging bobs with a phase gradient.
func pendulums(i, n int, t float32) vecmath.Vec3 {
	const arms = 16
	arm := i % arms
	frac := float32(i/arms) / (float32(n)/arms + 1)
	length := 3.0 + frac*6.0
	swing := 0.9 * vecmath.Sin(t*(1.1+float32(arm)*0.05))
	x := (float32(arm) - arms/2) * 1.4
	return vecmath.Vec3{X: x + length*vecmath.Sin(swing), Y: 6 - length*vecmath.Cos(swing), Z: 0}

}

// galaxySpin is a spinning multi-arm spiral. Pure in t: two calls with the
// same arguments always agree.
func galaxySpin(i, n int, t float32) vecmath.Vec3 {
	const arms = 4
	arm := i % arms
	frac := float32(i) / float32(n)
	radius := 1.5 + frac*11.0
	a := float32(arm)*(tau/arms) + frac*5.0 + t*0.35
	h := vecmath.Hash11(uint32(i)*29 + 7)
	return vecmath.Vec3{X: radius * vecmath.Cos(a), Y: (h - 0.5) * (1.8 - frac), Z: radius * vecmath.Sin(a)}

}

// vortexDrain spirals particles down a funnel.
func vortexDrain(i, n int, t float32) vecmath.Vec3 {
	frac := float32(i) / float32(n)
	depth := frac*10 - 5
	radius := 1.0 + (1-frac)*8.0
	a := frac*20 + t*(1.2+frac)
	return vecmath.Vec3{X: radius * vecmath.Cos(a), Y: -depth, Z: radius * vecmath.Sin(a)}

}

// ripples interferes three circular wave sources on a plane.
func ripples(i, n int, t float32) vecmath.Vec3 {
	cols := int(math.Sqrt(float64(n))) + 1
	x := float32(i%cols)/float32(cols)*22 - 11
	z := float32(i/cols)/float32(cols)*22 - 11

	sources := [3][2]float32{{-5, -4}, {6, 2}, {-1, 7}}
	y := float32(0)
	for s, src := range sources {
		dx := x - src[0]
		dz := z - src[1]
		d := vecmath.Sqrt(dx*dx + dz*dz)
		y += 0.8 * vecmath.Sin(d*1.2-t*2.0+float32(s)) / (1 + d*0.3)
	}
	return vecmath.Vec3{X: x, Y: y, Z: z}
}

// sineFlow distorts a lattice by stacked sine fields.
func sineFlow(i, n int, t float32) vecmath.Vec3 {
	h := vecmath.Hash13(uint32(i))
	base := vecmath.Vec3{X: h.X*20 - 10, Y: h.Y*12 - 6, Z: h.Z*20 - 10}
	return vecmath.Vec3{X: base.X + 2.0*vecmath.Sin(base.Y*0.5+t), Y: base.Y + 1.6*vecmath.Sin(base.Z*0.6+t*1.3), Z: base.Z + 2.0*vecmath.Sin(base.X*0.4+t*0.7)}

}

// aurora drapes a slowly waving curtain ribbon.
func aurora(i, n int, t float32) vecmath.Vec3 {
	frac := float32(i) / float32(n)
	x := frac*26 - 13
	h := vecmath.Hash11(uint32(i)*11 + 3)
	y := 4 + h*6 + 1.5*vecmath.Sin(x*0.4+t*0.6)
	z := 2.5*vecmath.Sin(x*0.25+t*0.4) + 1.2*vecmath.Sin(y*0.5-t*0.3)
	return vecmath.Vec3{X: x, Y: y, Z: z}
}

// noiseFlow advects a hash lattice through fBm.
func noiseFlow(i, n int, t float32) vecmath.Vec3 {
	h := vecmath.Hash13(uint32(i)*5 + 1)
	base := vecmath.Vec3{X: h.X*18 - 9, Y: h.Y*18 - 9, Z: h.Z*18 - 9}
	o := vecmath.Vec3{X: t * 0.15, Y: t * 0.11, Z: t * 0.09}
	d := vecmath.Curl(base.Scale(0.12).Add(o), 3)
	return base.Add(d.Scale(3.0))
}

// drape is a static cloth-like surface; ignores t.
func drape(i, n int, t float32) vecmath.Vec3 {
	cols := int(math.Sqrt(float64(n))) + 1
	x := float32(i%cols)/float32(cols)*20 - 10
	z := float32(i/cols)/float32(cols)*20 - 10
	y := 1.8*vecmath.Sin(x*0.45) + 1.2*vecmath.Cos(z*0.55) - 0.05*x*x*0.3
	return vecmath.Vec3{X: x, Y: y, Z: z}
}

// helix winds a double helix around the y axis.
func helix(i, n int, t float32) vecmath.Vec3 {
	strand := i % 2
	frac := float32(i) / float32(n)
	a := frac*tau*6 + t*0.5
	if strand == 1 {
		a += math.Pi
	}
	return vecmath.Vec3{X: 4 * vecmath.Cos(a), Y: frac*16 - 8, Z: 4 * vecmath.Sin(a)}

}
