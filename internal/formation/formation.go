// Package formation provides the pre-shapes characters flow through before
// settling into their final text positions, plus the per-character reveal
// schedule for each named animation.
package formation

import (
	"math"

	"github.com/san-kum/glyphflow/internal/vecmath"
)

// Shape maps a point of a character to its pre-shape position. charIndex is
// the character's position in the string, i/pts the point within it.
type Shape func(charIndex, i, pts int, center vecmath.Vec3) vecmath.Vec3

// Def names one formation animation. Delay is seconds before the first
// character reveals, Stagger the gap between consecutive characters. Instant
// animations skip the forming phase entirely.
type Def struct {
	Name    string
	Delay   float32
	Stagger float32
	Instant bool
	Shape   Shape
}

var defs = []Def{
	{"waveSweep", 0.3, 0.22, false, waveSweep},
	{"rainDrop", 0.2, 0.15, false, rainDrop},
	{"spiralIn", 0.4, 0.20, false, spiralIn},
	{"ringContract", 0.5, 0.18, false, ringContract},
	{"typewriter", 0.1, 0.35, false, typewriter},
	{"columnDrop", 0.2, 0.25, false, columnDrop},
	{"burst", 0.3, 0.10, false, burst},
	{"sphereContract", 0.5, 0.12, false, sphereContract},
	{"riseUp", 0.3, 0.20, false, riseUp},
	{"scatterIn", 0.2, 0.08, false, scatterIn},
	{"gridDissolve", 0.4, 0.15, false, gridDissolve},
	{"tornado", 0.5, 0.25, false, tornado},
	{"phyllotaxis", 0.4, 0.18, false, phyllotaxis},
	{"shockwave", 0.2, 0.12, false, shockwave},
	{"planeScatter", 0.3, 0.10, false, planeScatter},
	{"directSnap", 0, 0, true, nil},
}

var byName = func() map[string]Def {
	m := make(map[string]Def, len(defs))
	for _, d := range defs {
		m[d.Name] = d
	}
	return m
}()

// Lookup resolves an animation by name; unknown names get the wave sweep.
func Lookup(name string) Def {
	if d, ok := byName[name]; ok {
		return d
	}
	return byName["waveSweep"]
}

func Names() []string {
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return names
}

// RevealTime is when character c swaps from pre-shape to text targets.
func (d Def) RevealTime(c int) float32 {
	return d.Delay + float32(c)*d.Stagger
}

const tau = 2 * math.Pi

func frac(i, pts int) float32 {
	if pts <= 1 {
		return 0
	}
	return float32(i) / float32(pts-1)
}

func hash2(charIndex, i int) vecmath.Vec3 {
	return vecmath.Hash13(uint32(charIndex)*92821 + uint32(i)*7 + 13)
}

func waveSweep(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	h := hash2(c, i)
	return vecmath.Vec3{X: center.X - 18 + h.X*6, Y: vecmath.Sin(frac(i, pts)*tau)*3 + (h.Y-0.5)*2, Z: (h.Z - 0.5) * 4}

}

func rainDrop(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	h := hash2(c, i)
	return vecmath.Vec3{X: center.X + (h.X-0.5)*3, Y: 14 + h.Y*8, Z: center.Z + (h.Z-0.5)*3}
}

func spiralIn(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	f := frac(i, pts)
	a := f*tau*3 + float32(c)*0.8
	r := 10 - f*6
	return vecmath.Vec3{X: center.X + r*vecmath.Cos(a), Y: r * vecmath.Sin(a) * 0.6, Z: center.Z + r*vecmath.Sin(a)*0.5}
}

func ringContract(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	a := frac(i, pts) * tau
	return vecmath.Vec3{X: center.X + 9*vecmath.Cos(a), Y: 9 * vecmath.Sin(a), Z: center.Z}
}

func typewriter(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	h := hash2(c, i)
	return vecmath.Vec3{X: -16, Y: center.Y + (h.Y-0.5)*1.5, Z: center.Z + (h.Z-0.5)*1.5}
}

func columnDrop(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	return vecmath.Vec3{X: center.X, Y: 12 + frac(i, pts)*10, Z: center.Z}
}

func burst(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	h := hash2(c, i)
	dir := vecmath.Vec3{X: h.X*2 - 1, Y: h.Y*2 - 1, Z: h.Z*2 - 1}.Normalize()
	return dir.Scale(0.5 + h.X*1.5)
}

func sphereContract(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	h := hash2(c, i)
	dir := vecmath.Vec3{X: h.X*2 - 1, Y: h.Y*2 - 1, Z: h.Z*2 - 1}.Normalize()
	return center.Add(dir.Scale(11))
}

func riseUp(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	h := hash2(c, i)
	return vecmath.Vec3{X: center.X + (h.X-0.5)*4, Y: -13 - h.Y*5, Z: center.Z + (h.Z-0.5)*4}
}

func scatterIn(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	h := hash2(c, i)
	return vecmath.Vec3{X: (h.X - 0.5) * 30, Y: (h.Y - 0.5) * 22, Z: (h.Z - 0.5) * 30}
}

func gridDissolve(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	cols := int(math.Sqrt(float64(pts))) + 1
	x := float32(i%cols)/float32(cols)*20 - 10
	y := float32(i/cols)/float32(cols)*14 - 7
	return vecmath.Vec3{X: x, Y: y, Z: center.Z - 6}
}

func tornado(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	f := frac(i, pts)
	a := f*tau*5 + float32(c)
	r := 1.5 + f*7
	return vecmath.Vec3{X: center.X + r*vecmath.Cos(a), Y: f*16 - 8, Z: center.Z + r*vecmath.Sin(a)}
}

func phyllotaxis(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	const golden = 2.39996323
	a := float32(i) * golden
	r := 0.45 * vecmath.Sqrt(float32(i))
	return vecmath.Vec3{X: center.X + r*vecmath.Cos(a), Y: r * vecmath.Sin(a), Z: center.Z}
}

func shockwave(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	a := frac(i, pts) * tau
	r := float32(10 + c)
	return vecmath.Vec3{X: r * vecmath.Cos(a), Y: 0, Z: r * vecmath.Sin(a)}
}

func planeScatter(c, i, pts int, center vecmath.Vec3) vecmath.Vec3 {
	h := hash2(c, i)
	return vecmath.Vec3{X: (h.X - 0.5) * 28, Y: 0, Z: (h.Z - 0.5) * 28}
}
