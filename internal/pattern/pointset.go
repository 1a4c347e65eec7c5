package pattern

import (
	"math"

	"github.com/san-kum/glyphflow/internal/vecmath"
)

// Point-set builders. These need sequential or recursive construction, so
// they run on the host once per activation; particles then index the result
// modulo its length.

// buildTree grows a branching tree by repeated splitting.
func buildTree() []vecmath.Vec3 {
	pts := make([]vecmath.Vec3, 0, 4096)

	type branch struct {
		pos, dir vecmath.Vec3
		length   float32
		depth    int
	}

	stack := []branch{{vecmath.Vec3{X: 0, Y: -8, Z: 0}, vecmath.Vec3{X: 0, Y: 1, Z: 0}, 5.0, 0}}
	seed := uint32(1)

	for len(stack) > 0 && len(pts) < 4000 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		steps := int(b.length * 6)
		for s := 0; s < steps; s++ {
			f := float32(s) / float32(steps)
			pts = append(pts, b.pos.Add(b.dir.Scale(b.length*f)))
		}
		if b.depth >= 6 {
			continue
		}

		tip := b.pos.Add(b.dir.Scale(b.length))
		for c := 0; c < 2; c++ {
			seed++
			h := vecmath.Hash13(seed)
			d := b.dir.Add(vecmath.Vec3{X: h.X*2 - 1, Y: h.Y * 0.6, Z: h.Z*2 - 1}.Scale(0.7)).Normalize()
			stack = append(stack, branch{tip, d, b.length * 0.68, b.depth + 1})
		}
	}
	return pts
}

// buildFractalTree is the strictly recursive variant, capped at 5000 segments.
func buildFractalTree() []vecmath.Vec3 {
	pts := make([]vecmath.Vec3, 0, 5000)
	segments := 0

	var grow func(pos vecmath.Vec3, angle, tilt, length float32, depth int)
	grow = func(pos vecmath.Vec3, angle, tilt, length float32, depth int) {
		if depth == 0 || segments >= 5000 {
			return
		}
		segments++

		dir := vecmath.Vec3{X: vecmath.Sin(tilt) * vecmath.Cos(angle), Y: vecmath.Cos(tilt), Z: vecmath.Sin(tilt) * vecmath.Sin(angle)}

		tip := pos.Add(dir.Scale(length))

		for s := 0; s < 4; s++ {
			f := float32(s) / 4
			pts = append(pts, pos.Lerp(tip, f))
		}

		grow(tip, angle+0.6, tilt+0.45, length*0.72, depth-1)
		grow(tip, angle-0.7, tilt+0.35, length*0.72, depth-1)
		grow(tip, angle+2.1, tilt+0.5, length*0.6, depth-1)
	}

	grow(vecmath.Vec3{X: 0, Y: -8, Z: 0}, 0, 0, 5.5, 8)
	return pts
}

// buildKoch traces a Koch snowflake boundary in the xz plane.
func buildKoch() []vecmath.Vec3 {
	type seg struct{ a, b vecmath.Vec3 }

	const r = 9.0
	var corners [3]vecmath.Vec3
	for i := range corners {
		a := float32(i)*tau/3 + math.Pi/2
		corners[i] = vecmath.Vec3{X: r * vecmath.Cos(a), Y: 0, Z: r * vecmath.Sin(a)}
	}
	segs := []seg{
		{corners[0], corners[1]},
		{corners[1], corners[2]},
		{corners[2], corners[0]},
	}

	for iter := 0; iter < 4; iter++ {
		next := make([]seg, 0, len(segs)*4)
		for _, s := range segs {
			d := s.b.Sub(s.a).Scale(1.0 / 3.0)
			p1 := s.a.Add(d)
			p2 := s.a.Add(d.Scale(2))
			// Outward bump: rotate d by 60 degrees around y.
			bump := vecmath.Vec3{X: d.X*0.5 - d.Z*0.866, Y: 0, Z: d.X*0.866 + d.Z*0.5}

			peak := p1.Add(bump)
			next = append(next, seg{s.a, p1}, seg{p1, peak}, seg{peak, p2}, seg{p2, s.b})
		}
		segs = next
	}

	pts := make([]vecmath.Vec3, 0, len(segs)*3)
	for _, s := range segs {
		for k := 0; k < 3; k++ {
			pts = append(pts, s.a.Lerp(s.b, float32(k)/3))
		}
	}
	return pts
}

// buildWalks runs independent bounded random walks.
func buildWalks() []vecmath.Vec3 {
	const walkers = 24
	const steps = 180

	pts := make([]vecmath.Vec3, 0, walkers*steps)
	for w := 0; w < walkers; w++ {
		h := vecmath.Hash13(uint32(w)*101 + 7)
		p := vecmath.Vec3{X: h.X*16 - 8, Y: h.Y*16 - 8, Z: h.Z*16 - 8}
		for s := 0; s < steps; s++ {
			step := vecmath.Hash13(uint32(w*steps+s)*13 + 3)
			p = p.Add(vecmath.Vec3{X: step.X*2 - 1, Y: step.Y*2 - 1, Z: step.Z*2 - 1}.Scale(0.35))
			if p.Length() > 14 {
				p = p.Scale(0.9)
			}
			pts = append(pts, p)
		}
	}
	return pts
}

// buildOrganic is the default "no shape" baseline: a soft random sphere.
func buildOrganic() []vecmath.Vec3 {
	const count = 4096
	pts := make([]vecmath.Vec3, count)
	for i := range pts {
		h := vecmath.Hash13(uint32(i)*37 + 17)
		dir := vecmath.Vec3{X: h.X*2 - 1, Y: h.Y*2 - 1, Z: h.Z*2 - 1}.Normalize()
		r := 10.0 * float32(math.Cbrt(float64(vecmath.Hash11(uint32(i)*41+5))))
		pts[i] = dir.Scale(r)
	}
	return pts
}
