package particle

import "github.com/san-kum/glyphflow/internal/vecmath"

// Buffers holds the particle population as structure-of-arrays. Pos, Vel, Tgt
// and Col are flat xyz/rgb triples (length 3N) so they can be handed to a
// renderer or uploaded to a GPU buffer without repacking. The buffers are
// owned by exactly one engine instance; nothing else writes them.
type Buffers struct {
	N int

	Pos []float32 // 3N, world positions
	Vel []float32 // 3N
	Tgt []float32 // 3N, attraction targets
	Col []float32 // 3N, fixed at creation

	LifeRem []float32
	LifeTot []float32

	// Role marks a particle's share of a background-split text command:
	// RoleText keeps the full pull toward glyph targets, RoleBackground gets
	// reduced spring/linger and follows the background pattern.
	Role []uint8
}

const (
	RoleText uint8 = iota
	RoleBackground
)

// Primary colors particles cycle through at creation.
var palette = [3]vecmath.Vec3{
	{X: 0.95, Y: 0.35, Z: 0.45},
	{X: 0.40, Y: 0.75, Z: 0.95},
	{X: 0.95, Y: 0.85, Z: 0.40},
}

func NewBuffers(n int) *Buffers {
	b := &Buffers{
		N:       n,
		Pos:     make([]float32, 3*n),
		Vel:     make([]float32, 3*n),
		Tgt:     make([]float32, 3*n),
		Col:     make([]float32, 3*n),
		LifeRem: make([]float32, n),
		LifeTot: make([]float32, n),
		Role:    make([]uint8, n),
	}
	b.Seed(12.0)
	return b
}

// Seed scatters particles through a sphere of the given radius and assigns
// lifetimes and colors. Deterministic: driven entirely by index hashes.
func (b *Buffers) Seed(radius float32) {
	for i := 0; i < b.N; i++ {
		h := vecmath.Hash13(uint32(i))
		p := vecmath.Vec3{X: h.X*2 - 1, Y: h.Y*2 - 1, Z: h.Z*2 - 1}.Normalize()
		r := radius * vecmath.Sqrt(vecmath.Hash11(uint32(i)*7+5))
		p = p.Scale(r)

		b.SetPos(i, p)
		b.SetVel(i, vecmath.Vec3{})
		b.SetTgt(i, p)

		total := 4.0 + vecmath.Hash11(uint32(i)*13+1)*6.0
		b.LifeTot[i] = total
		b.LifeRem[i] = total * vecmath.Hash11(uint32(i)*31+2)

		c := palette[i%3]
		b.Col[3*i] = c.X
		b.Col[3*i+1] = c.Y
		b.Col[3*i+2] = c.Z
	}
}

func (b *Buffers) PosAt(i int) vecmath.Vec3 {
	return vecmath.Vec3{X: b.Pos[3*i], Y: b.Pos[3*i+1], Z: b.Pos[3*i+2]}
}

func (b *Buffers) VelAt(i int) vecmath.Vec3 {
	return vecmath.Vec3{X: b.Vel[3*i], Y: b.Vel[3*i+1], Z: b.Vel[3*i+2]}
}

func (b *Buffers) TgtAt(i int) vecmath.Vec3 {
	return vecmath.Vec3{X: b.Tgt[3*i], Y: b.Tgt[3*i+1], Z: b.Tgt[3*i+2]}
}

func (b *Buffers) ColAt(i int) vecmath.Vec3 {
	return vecmath.Vec3{X: b.Col[3*i], Y: b.Col[3*i+1], Z: b.Col[3*i+2]}
}

func (b *Buffers) SetPos(i int, v vecmath.Vec3) {
	b.Pos[3*i], b.Pos[3*i+1], b.Pos[3*i+2] = v.X, v.Y, v.Z
}

func (b *Buffers) SetVel(i int, v vecmath.Vec3) {
	b.Vel[3*i], b.Vel[3*i+1], b.Vel[3*i+2] = v.X, v.Y, v.Z
}

func (b *Buffers) SetTgt(i int, v vecmath.Vec3) {
	b.Tgt[3*i], b.Tgt[3*i+1], b.Tgt[3*i+2] = v.X, v.Y, v.Z
}

// ShellPoint returns a deterministic respawn position on a shell around
// target. Radius spans [2.5, 4.5]; the point is then blended toward the
// target in proportion to convergence so respawns land near the shape while
// it is held and far from it while free-flowing.
func ShellPoint(target vecmath.Vec3, index int, time float32, convergence float32) vecmath.Vec3 {
	seed := uint32(index)*2654435761 + uint32(time*37)
	dir := vecmath.Hash13(seed)
	dir = vecmath.Vec3{X: dir.X*2 - 1, Y: dir.Y*2 - 1, Z: dir.Z*2 - 1}.Normalize()
	if dir.Length() < 0.5 {
		dir = vecmath.Vec3{X: 0, Y: 1, Z: 0}
	}
	radius := 2.5 + 2.0*vecmath.Hash11(seed*3+11)
	p := target.Add(dir.Scale(radius))
	return p.Lerp(target, convergence*0.85)
}
