package vecmath

// Deterministic hash and noise primitives. Everything here is a pure function
// of its arguments so the integration kernel stays replayable: the same
// (particle index, time) always yields the same jitter, regardless of how
// many workers evaluate it or in what order.

// Hash11 maps an integer to [0,1). Wang-style mix.
func Hash11(n uint32) float32 {
	n = (n ^ 61) ^ (n >> 16)
	n *= 9
	n = n ^ (n >> 4)
	n *= 0x27d4eb2d
	n = n ^ (n >> 15)
	return float32(n&0xffffff) / float32(0x1000000)
}

// Hash13 maps an integer to a point in the unit cube.
func Hash13(n uint32) Vec3 {
	return Vec3{
		Hash11(n*0x9e3779b1 + 1),
		Hash11(n*0x85ebca6b + 2),
		Hash11(n*0xc2b2ae35 + 3),
	}
}

func hashGrid(x, y, z int32) float32 {
	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ uint32(z)*83492791
	return Hash11(h)*2 - 1
}

// ValueNoise is trilinear value noise in [-1,1].
func ValueNoise(p Vec3) float32 {
	x0 := floor32(p.X)
	y0 := floor32(p.Y)
	z0 := floor32(p.Z)
	fx := smooth(p.X - float32(x0))
	fy := smooth(p.Y - float32(y0))
	fz := smooth(p.Z - float32(z0))

	lerp := func(a, b, t float32) float32 { return a + (b-a)*t }

	c00 := lerp(hashGrid(x0, y0, z0), hashGrid(x0+1, y0, z0), fx)
	c10 := lerp(hashGrid(x0, y0+1, z0), hashGrid(x0+1, y0+1, z0), fx)
	c01 := lerp(hashGrid(x0, y0, z0+1), hashGrid(x0+1, y0, z0+1), fx)
	c11 := lerp(hashGrid(x0, y0+1, z0+1), hashGrid(x0+1, y0+1, z0+1), fx)

	return lerp(lerp(c00, c10, fy), lerp(c01, c11, fy), fz)
}

func floor32(x float32) int32 {
	i := int32(x)
	if x < 0 && float32(i) != x {
		i--
	}
	return i
}

func smooth(t float32) float32 { return t * t * (3 - 2*t) }

// FBM stacks octaves of value noise.
func FBM(p Vec3, octaves int) float32 {
	sum := float32(0)
	amp := float32(0.5)
	for o := 0; o < octaves; o++ {
		sum += amp * ValueNoise(p)
		p = p.Scale(2.03).Add(Vec3{17.1, 31.7, 11.3})
		amp *= 0.5
	}
	return sum
}

// Curl approximates the curl of a three-channel fBm potential by central
// differences, giving a divergence-free velocity field.
func Curl(p Vec3, octaves int) Vec3 {
	const e = 0.35

	psiX := func(q Vec3) float32 { return FBM(q, octaves) }
	psiY := func(q Vec3) float32 { return FBM(q.Add(Vec3{103.7, 0, 0}), octaves) }
	psiZ := func(q Vec3) float32 { return FBM(q.Add(Vec3{0, 211.3, 0}), octaves) }

	dZdy := psiZ(p.Add(Vec3{0, e, 0})) - psiZ(p.Sub(Vec3{0, e, 0}))
	dYdz := psiY(p.Add(Vec3{0, 0, e})) - psiY(p.Sub(Vec3{0, 0, e}))
	dXdz := psiX(p.Add(Vec3{0, 0, e})) - psiX(p.Sub(Vec3{0, 0, e}))
	dZdx := psiZ(p.Add(Vec3{e, 0, 0})) - psiZ(p.Sub(Vec3{e, 0, 0}))
	dYdx := psiY(p.Add(Vec3{e, 0, 0})) - psiY(p.Sub(Vec3{e, 0, 0}))
	dXdy := psiX(p.Add(Vec3{0, e, 0})) - psiX(p.Sub(Vec3{0, e, 0}))

	inv := float32(1 / (2 * e))
	return Vec3{(dZdy - dYdz) * inv, (dXdz - dZdx) * inv, (dYdx - dXdy) * inv}
}
