package canopy

// Mutator interpolates one property of a component of type T. Lerp receives
// an eased ratio in [0, 1]. Clone must return an independent copy so a tween
// used as a template never shares interpolation state with its copies.
type Mutator[T any] interface {
	Lerp(target *T, ratio float32)
	Clone() Mutator[T]
}

// Entry is one timed slot of a Sequence: a Tween or a Delay.
type Entry[T any] interface {
	Duration() float32
	// StartAbs is the absolute start time in milliseconds from the start of
	// the owning sequence.
	StartAbs() float32
	// SetStartAbs is called by Sequence append logic only.
	SetStartAbs(v float32)
	Lerp(target *T, ratio float32)
	Easing() Easing
	Clone() Entry[T]
}

// Tween interpolates one property over Duration milliseconds.
type Tween[T any] struct {
	startAbs float32
	duration float32
	easing   Easing
	mutator  Mutator[T]
}

// NewTween creates a tween. Its start time is assigned when it is appended
// to a Sequence. Negative durations are treated as zero.
func NewTween[T any](easing Easing, duration float32, m Mutator[T]) *Tween[T] {
	if duration < 0 {
		duration = 0
	}
	return &Tween[T]{easing: easing, duration: duration, mutator: m}
}

func (t *Tween[T]) Duration() float32     { return t.duration }
func (t *Tween[T]) StartAbs() float32     { return t.startAbs }
func (t *Tween[T]) SetStartAbs(v float32) { t.startAbs = v }
func (t *Tween[T]) Easing() Easing        { return t.easing }

// Lerp forwards the ratio to the tween's mutator.
func (t *Tween[T]) Lerp(target *T, ratio float32) {
	if t.mutator != nil {
		t.mutator.Lerp(target, ratio)
	}
}

// Clone returns a deep copy, including a cloned mutator.
func (t *Tween[T]) Clone() Entry[T] {
	return t.clone()
}

func (t *Tween[T]) clone() *Tween[T] {
	c := *t
	if t.mutator != nil {
		c.mutator = t.mutator.Clone()
	}
	return &c
}

// Then starts a new Sequence with a copy of t followed by next.
func (t *Tween[T]) Then(next Entry[T]) *Sequence[T] {
	s := NewSequence[T]()
	s.Then(t.clone())
	s.Then(next)
	return s
}

// ThenDelay starts a new Sequence with a copy of t followed by a delay.
func (t *Tween[T]) ThenDelay(duration float32) *Sequence[T] {
	s := NewSequence[T]()
	s.Then(t.clone())
	s.ThenDelay(duration)
	return s
}

// Delay occupies time on a sequence without touching the target.
type Delay[T any] struct {
	startAbs float32
	duration float32
}

// NewDelay creates a delay of the given duration in milliseconds.
func NewDelay[T any](duration float32) *Delay[T] {
	if duration < 0 {
		duration = 0
	}
	return &Delay[T]{duration: duration}
}

func (d *Delay[T]) Duration() float32     { return d.duration }
func (d *Delay[T]) StartAbs() float32     { return d.startAbs }
func (d *Delay[T]) SetStartAbs(v float32) { d.startAbs = v }
func (d *Delay[T]) Lerp(*T, float32)      {}

// Easing always reports EaseBounceOut. It is never evaluated against the
// target since Lerp does nothing.
func (d *Delay[T]) Easing() Easing { return EaseBounceOut }

func (d *Delay[T]) Clone() Entry[T] {
	c := *d
	return &c
}

// Then starts a new Sequence with a copy of d followed by next.
func (d *Delay[T]) Then(next Entry[T]) *Sequence[T] {
	s := NewSequence[T]()
	s.Then(d.Clone())
	s.Then(next)
	return s
}

// ThenDelay starts a new Sequence with a copy of d followed by another delay.
func (d *Delay[T]) ThenDelay(duration float32) *Sequence[T] {
	s := NewSequence[T]()
	s.Then(d.Clone())
	s.ThenDelay(duration)
	return s
}

// Sequence is an ordered chain of entries. Each appended entry starts where
// the previous one ends, so entries never overlap and never leave gaps.
type Sequence[T any] struct {
	entries []Entry[T]
}

// NewSequence returns an empty sequence.
func NewSequence[T any]() *Sequence[T] {
	return &Sequence[T]{}
}

// End returns the end time of the last entry, or 0 when empty.
func (s *Sequence[T]) End() float32 {
	if len(s.entries) == 0 {
		return 0
	}
	last := s.entries[len(s.entries)-1]
	return last.StartAbs() + last.Duration()
}

// Then appends e, placing it at the current end of the sequence.
func (s *Sequence[T]) Then(e Entry[T]) *Sequence[T] {
	start := s.End()
	e.SetStartAbs(start)
	s.entries = append(s.entries, e)
	return s
}

// ThenDelay appends a Delay of the given duration.
func (s *Sequence[T]) ThenDelay(duration float32) *Sequence[T] {
	return s.Then(NewDelay[T](duration))
}

// Len returns the number of entries.
func (s *Sequence[T]) Len() int {
	return len(s.entries)
}

// Entries returns the entries in execution order. The returned slice MUST
// NOT be mutated.
func (s *Sequence[T]) Entries() []Entry[T] {
	return s.entries
}

// Clone returns a deep copy of the sequence and its entries.
func (s *Sequence[T]) Clone() *Sequence[T] {
	c := &Sequence[T]{entries: make([]Entry[T], len(s.entries))}
	for i, e := range s.entries {
		c.entries[i] = e.Clone()
	}
	return c
}

// AnimationSet is the per-entity collection of independent sequences that
// drive one target component type. Sequences are only ever added.
type AnimationSet[T any] struct {
	Sequences []*Sequence[T]
}

// NewAnimationSet returns a set holding the given sequences.
func NewAnimationSet[T any](seqs ...*Sequence[T]) AnimationSet[T] {
	return AnimationSet[T]{Sequences: seqs}
}

// Add appends a sequence.
func (a *AnimationSet[T]) Add(s *Sequence[T]) *AnimationSet[T] {
	a.Sequences = append(a.Sequences, s)
	return a
}

// AddTween wraps t in its own sequence and appends it.
func (a *AnimationSet[T]) AddTween(t *Tween[T]) *AnimationSet[T] {
	return a.Add(NewSequence[T]().Then(t))
}

// End returns the latest end time over all sequences.
func (a *AnimationSet[T]) End() float32 {
	var end float32
	for _, s := range a.Sequences {
		end = max(end, s.End())
	}
	return end
}

// Clone deep-copies every sequence.
func (a AnimationSet[T]) Clone() AnimationSet[T] {
	c := AnimationSet[T]{Sequences: make([]*Sequence[T], len(a.Sequences))}
	for i, s := range a.Sequences {
		c.Sequences[i] = s.Clone()
	}
	return c
}
