package vecmath

import "math"

type Vec3 struct {
	X, Y, Z float32
}

func V(x, y, z float32) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float32 {
	return Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-8 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

func Sqrt(x float32) float32 { return float32(math.Sqrt(float64(x))) }
func Sin(x float32) float32  { return float32(math.Sin(float64(x))) }
func Cos(x float32) float32  { return float32(math.Cos(float64(x))) }
func Exp(x float32) float32  { return float32(math.Exp(float64(x))) }
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Clamp64(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// RotationTo builds the rotation taking the -Z axis onto dir, returned as a
// 3x3 row-major matrix. Used to tilt a whole character frame toward an
// authored view direction rather than rotating points individually.
func RotationTo(dir Vec3) [9]float32 {
	from := Vec3{0, 0, -1}
	to := dir.Normalize()
	axis := from.Cross(to)
	s := axis.Length()
	c := from.Dot(to)
	if s < 1e-6 {
		if c > 0 {
			return [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
		}
		// Opposite direction: rotate half a turn about Y.
		return [9]float32{-1, 0, 0, 0, 1, 0, 0, 0, -1}
	}
	axis = axis.Scale(1 / s)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	return [9]float32{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c,
	}
}

func MulMat3(m [9]float32, v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}
