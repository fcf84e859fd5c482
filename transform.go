package canopy

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// Transform is the spatial component animated by tweens and mirrored into
// sprite records. Matrix is derived from Position, Rotation and Scale by the
// transform update pass; do not write it directly.
//
// Fields may be assigned directly as long as MarkChanged is called afterwards;
// the setters do that for you.
type Transform struct {
	Position Vec3
	Rotation Vec3 // euler radians, applied X then Y then Z
	Scale    Vec3
	Matrix   Mat4

	dirty      bool // fields changed since the matrix was last computed
	matrixSeen bool // false until the sprite pass has consumed the new matrix
}

// TransformComponent is the donburi component type for Transform.
var TransformComponent = donburi.NewComponentType[Transform]()

// NewTransform returns a transform at pos with unit scale, marked changed.
func NewTransform(pos Vec3) Transform {
	return Transform{
		Position: pos,
		Scale:    Vec3One,
		Matrix:   Mat4Identity,
		dirty:    true,
	}
}

// SetPosition sets the position and marks the transform changed.
func (t *Transform) SetPosition(p Vec3) {
	t.Position = p
	t.dirty = true
}

// SetRotation sets the euler rotation and marks the transform changed.
func (t *Transform) SetRotation(r Vec3) {
	t.Rotation = r
	t.dirty = true
}

// SetScale sets the scale and marks the transform changed.
func (t *Transform) SetScale(s Vec3) {
	t.Scale = s
	t.dirty = true
}

// MarkChanged flags the transform for matrix recomputation on the next tick.
func (t *Transform) MarkChanged() {
	t.dirty = true
}

// Changed reports whether the transform has pending changes.
func (t *Transform) Changed() bool {
	return t.dirty
}

var transformQuery = donburi.NewQuery(filter.Contains(TransformComponent))

// updateTransforms recomputes the matrix of every changed transform and hands
// it to the sprite pass.
func updateTransforms(w donburi.World) int {
	n := 0
	transformQuery.Each(w, func(e *donburi.Entry) {
		t := TransformComponent.Get(e)
		if !t.dirty {
			return
		}
		t.Matrix = Mat4FromTRS(t.Position, t.Rotation, t.Scale)
		t.dirty = false
		t.matrixSeen = false
		n++
	})
	return n
}
