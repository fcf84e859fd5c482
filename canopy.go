package canopy

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when vertices are built.
type Color struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// colorMagenta marks missing textures.
var colorMagenta = Color{1, 0, 1, 1}

// Vec2 is a 2D vector used for sizes and UV coordinates.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a 3D vector used for positions, euler rotations and scales.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3One is the unit scale.
var Vec3One = Vec3{1, 1, 1}

// Lerp interpolates between v and to by ratio.
func (v Vec3) Lerp(to Vec3, ratio float32) Vec3 {
	return Vec3{
		X: lerp(v.X, to.X, ratio),
		Y: lerp(v.Y, to.Y, ratio),
		Z: lerp(v.Z, to.Z, ratio),
	}
}

func lerp(from, to, ratio float32) float32 {
	return from + (to-from)*ratio
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Mat4 is a 4x4 float32 matrix stored in column-major order, the layout the
// GPU expects for per-instance transforms.
type Mat4 [16]float32

// Mat4Identity is the identity matrix.
var Mat4Identity = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformPoint applies m to the point (x, y, z, 1) and returns x and y.
func (m Mat4) TransformPoint(x, y, z float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13]
}

// Mat4Scale returns a non-uniform scale matrix.
func Mat4Scale(s Vec3) Mat4 {
	return Mat4{
		s.X, 0, 0, 0,
		0, s.Y, 0, 0,
		0, 0, s.Z, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromTRS composes translation, rotation (euler X then Y then Z, radians)
// and scale into a single matrix: T * Rx * Ry * Rz * S.
func Mat4FromTRS(t, r, s Vec3) Mat4 {
	sx, cx := sincos32(r.X)
	sy, cy := sincos32(r.Y)
	sz, cz := sincos32(r.Z)

	// Rotation = Rx * Ry * Rz, written out column by column.
	r00 := cy * cz
	r10 := cx*sz + sx*sy*cz
	r20 := sx*sz - cx*sy*cz
	r01 := -cy * sz
	r11 := cx*cz - sx*sy*sz
	r21 := sx*cz + cx*sy*sz
	r02 := sy
	r12 := -sx * cy
	r22 := cx * cy

	return Mat4{
		r00 * s.X, r10 * s.X, r20 * s.X, 0,
		r01 * s.Y, r11 * s.Y, r21 * s.Y, 0,
		r02 * s.Z, r12 * s.Z, r22 * s.Z, 0,
		t.X, t.Y, t.Z, 1,
	}
}

func sincos32(v float32) (float32, float32) {
	if v == 0 {
		return 0, 1
	}
	s, c := math.Sincos(float64(v))
	return float32(s), float32(c)
}
