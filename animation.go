package canopy

import (
	"fmt"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// changeMarker is implemented by components that track their own changes,
// such as Transform. The apply pass calls MarkChanged after writing to one.
type changeMarker interface {
	MarkChanged()
}

// animationTrack is one target component type driven by the clock.
type animationTrack interface {
	// end returns the latest end time over every entity's sequences and the
	// number of animated entities.
	end(w donburi.World) (float32, int)
	apply(w donburi.World, c *Clock)
	count(w donburi.World) int
	has(e *donburi.Entry) bool
}

// Animator runs the controller and apply passes for every registered target
// component type.
//
// There is no global animation manager; the Scene owns one Animator and
// passes its clock in explicitly.
type Animator struct {
	tracks []animationTrack
	counts []int
}

// RegisterAnimated registers T as an animation target and returns the
// component type that holds AnimationSet[T] on entities. Entities carrying
// that component must also carry target.
func RegisterAnimated[T any](a *Animator, target *donburi.ComponentType[T]) *donburi.ComponentType[AnimationSet[T]] {
	sets := donburi.NewComponentType[AnimationSet[T]]()
	a.tracks = append(a.tracks, &track[T]{
		sets:   sets,
		target: target,
		query:  donburi.NewQuery(filter.Contains(sets)),
	})
	a.counts = append(a.counts, -1)
	return sets
}

// Control recomputes Clock.TotalTime when it is stale. Scene.SpawnAnimatedSprite
// and Scene.Despawn invalidate the clock; for entities created directly in the
// world a change in the animated entity count is also detected. Appending
// sequences to an existing set requires Clock.Invalidate.
func (a *Animator) Control(w donburi.World, c *Clock) {
	for i, tr := range a.tracks {
		if n := tr.count(w); n != a.counts[i] {
			a.counts[i] = n
			c.needsRecompute = true
		}
	}
	if !c.needsRecompute {
		return
	}
	var total float32
	for i, tr := range a.tracks {
		end, n := tr.end(w)
		total = max(total, end)
		a.counts[i] = n
	}
	c.TotalTime = total
	c.needsRecompute = false
}

// Apply evaluates every animated entity against the clock according to
// Clock.Mode, then advances the clock (Play) or settles the mode (Reset).
func (a *Animator) Apply(w donburi.World, c *Clock) {
	if c.Mode == ModePause {
		return
	}
	for _, tr := range a.tracks {
		tr.apply(w, c)
	}
	switch c.Mode {
	case ModePlay:
		c.advance()
	case ModeReset:
		c.Mode = ModePause
	}
}

type track[T any] struct {
	sets   *donburi.ComponentType[AnimationSet[T]]
	target *donburi.ComponentType[T]
	query  *donburi.Query
}

// Animates reports whether e carries an animation set of any registered track.
func (a *Animator) Animates(e *donburi.Entry) bool {
	for _, tr := range a.tracks {
		if tr.has(e) {
			return true
		}
	}
	return false
}

func (tr *track[T]) has(e *donburi.Entry) bool {
	return e.HasComponent(tr.sets)
}

func (tr *track[T]) count(w donburi.World) int {
	return tr.query.Count(w)
}

func (tr *track[T]) end(w donburi.World) (float32, int) {
	var end float32
	n := 0
	tr.query.Each(w, func(e *donburi.Entry) {
		end = max(end, tr.sets.Get(e).End())
		n++
	})
	return end, n
}

func (tr *track[T]) apply(w donburi.World, c *Clock) {
	tr.query.Each(w, func(e *donburi.Entry) {
		if !e.HasComponent(tr.target) {
			var zero T
			panic(fmt.Sprintf("canopy: entity %v has an animation set but no %T component", e.Entity(), zero))
		}
		target := tr.target.Get(e)
		if applySet(tr.sets.Get(e), target, c.Mode, c.CurrentTime) {
			if m, ok := any(target).(changeMarker); ok {
				m.MarkChanged()
			}
		}
	})
}

// applySet evaluates set against target at time now and reports whether any
// entry was applied.
func applySet[T any](set *AnimationSet[T], target *T, mode PlaybackMode, now float32) bool {
	applied := false
	switch mode {
	case ModePlay, ModeGoToTimeWithoutUpdate:
		for _, seq := range set.Sequences {
			if e := activeEntry(seq, now); e != nil {
				e.Lerp(target, Ease(e.Easing(), progress(e, now)))
				applied = true
			}
		}
	case ModeReset:
		// Last to first, so the earliest entry's start state wins.
		for _, seq := range set.Sequences {
			for i := len(seq.entries) - 1; i >= 0; i-- {
				seq.entries[i].Lerp(target, 0)
				applied = true
			}
		}
	case ModeGoToTimeWithUpdate:
		for _, seq := range set.Sequences {
			for _, e := range seq.entries {
				if e.StartAbs() > now {
					break
				}
				e.Lerp(target, 1)
				applied = true
			}
		}
	}
	return applied
}

// activeEntry returns the first entry whose [start, start+duration] contains
// now, both ends inclusive.
func activeEntry[T any](seq *Sequence[T], now float32) Entry[T] {
	for _, e := range seq.entries {
		start := e.StartAbs()
		if start <= now && now <= start+e.Duration() {
			return e
		}
	}
	return nil
}

// progress is the linear ratio of now within e. Zero-length entries are
// complete as soon as they start.
func progress[T any](e Entry[T], now float32) float32 {
	d := e.Duration()
	if d <= 0 {
		return 1
	}
	return (now - e.StartAbs()) / d
}
