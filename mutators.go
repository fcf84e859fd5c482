package canopy

// FloatField interpolates a single float32 field of T chosen by an accessor.
// The accessor must be stateless; copies share it.
type FloatField[T any] struct {
	From, To float32
	Field    func(*T) *float32
}

// LerpFloat returns a mutator that moves the field selected by field from
// from to to.
func LerpFloat[T any](from, to float32, field func(*T) *float32) *FloatField[T] {
	return &FloatField[T]{From: from, To: to, Field: field}
}

func (m *FloatField[T]) Lerp(target *T, ratio float32) {
	*m.Field(target) = lerp(m.From, m.To, ratio)
}

func (m *FloatField[T]) Clone() Mutator[T] {
	c := *m
	return &c
}

// PositionX moves Transform.Position.X.
type PositionX struct{ From, To float32 }

func (m *PositionX) Lerp(t *Transform, ratio float32) { t.Position.X = lerp(m.From, m.To, ratio) }
func (m *PositionX) Clone() Mutator[Transform]       { c := *m; return &c }

// PositionY moves Transform.Position.Y.
type PositionY struct{ From, To float32 }

func (m *PositionY) Lerp(t *Transform, ratio float32) { t.Position.Y = lerp(m.From, m.To, ratio) }
func (m *PositionY) Clone() Mutator[Transform]       { c := *m; return &c }

// PositionZ moves Transform.Position.Z.
type PositionZ struct{ From, To float32 }

func (m *PositionZ) Lerp(t *Transform, ratio float32) { t.Position.Z = lerp(m.From, m.To, ratio) }
func (m *PositionZ) Clone() Mutator[Transform]       { c := *m; return &c }

// Position moves all three position components.
type Position struct{ From, To Vec3 }

func (m *Position) Lerp(t *Transform, ratio float32) { t.Position = m.From.Lerp(m.To, ratio) }
func (m *Position) Clone() Mutator[Transform]       { c := *m; return &c }

// Scale interpolates Transform.Scale.
type Scale struct{ From, To Vec3 }

func (m *Scale) Lerp(t *Transform, ratio float32) { t.Scale = m.From.Lerp(m.To, ratio) }
func (m *Scale) Clone() Mutator[Transform]       { c := *m; return &c }

// RotationZ spins around the screen axis, in radians.
type RotationZ struct{ From, To float32 }

func (m *RotationZ) Lerp(t *Transform, ratio float32) { t.Rotation.Z = lerp(m.From, m.To, ratio) }
func (m *RotationZ) Clone() Mutator[Transform]       { c := *m; return &c }
