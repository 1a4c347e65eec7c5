package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/glyphflow/internal/vecmath"
)

func vec3FromRl(v rl.Vector3) vecmath.Vec3 {
	return vecmath.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// RenderCloud draws a strided sample of the population as points, colored
// from the particle color buffer.
func (a *App) RenderCloud() {
	buf := a.Eng.Buffers()
	for i := 0; i < buf.N; i += a.DrawStride {
		p := buf.PosAt(i)
		c := buf.ColAt(i)
		col := rl.NewColor(
			uint8(vecmath.Clamp(c.X, 0, 1)*255),
			uint8(vecmath.Clamp(c.Y, 0, 1)*255),
			uint8(vecmath.Clamp(c.Z, 0, 1)*255),
			255,
		)
		rl.DrawPoint3D(rl.NewVector3(p.X, p.Y, p.Z), col)
	}
}
