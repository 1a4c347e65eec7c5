package viz

import (
	"math"

	"github.com/san-kum/glyphflow/internal/vecmath"
)

// Camera is an orbit camera around the cloud origin. Text reads correctly
// from the front, so the default orientation looks down -Z.
type Camera struct {
	Distance   float64
	Yaw, Pitch float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 55, Zoom: 1.0}
}

func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	limit := math.Pi/2 - 0.05
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Eye returns the camera position in world space, for the repulsion force.
func (c *Camera) Eye() vecmath.Vec3 {
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	return vecmath.Vec3{X: float32(c.Distance * cp * sy), Y: float32(c.Distance * sp), Z: float32(c.Distance * cp * cy)}

}

// rotate brings a world point into view space.
func (c *Camera) rotate(p vecmath.Vec3) (float64, float64, float64) {
	x, y, z := float64(p.X), float64(p.Y), float64(p.Z)
	cy, sy := math.Cos(-c.Yaw), math.Sin(-c.Yaw)
	x, z = x*cy+z*sy, -x*sy+z*cy
	cp, sp := math.Cos(-c.Pitch), math.Sin(-c.Pitch)
	y, z = y*cp-z*sp, y*sp+z*cp
	return x, y, z
}

// Project converts a world point to sub-pixel screen coordinates.
// Returns x, y, and visibility.
func (c *Camera) Project(p vecmath.Vec3, sw, sh int) (int, int, bool) {
	x, y, z := c.rotate(p)
	x *= c.Zoom
	y *= c.Zoom
	z *= c.Zoom
	if z >= c.Distance-0.1 {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 45.0
	sx := int(x*scale*pScale) + sw/2
	sy := int(-y*scale*pScale) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}
