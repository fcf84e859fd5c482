package canopy

import (
	"fmt"

	"github.com/yohamta/donburi"
)

// LayerHidden marks a record whose slot has been freed. Renderers skip it.
const LayerHidden uint32 = 0xFFFFFFFF

// SpriteRecord is the per-instance GPU layout: a column-major world matrix,
// the atlas UV rectangle and a layer word.
type SpriteRecord struct {
	Transform [16]float32
	UVOffset  [2]float32
	UVScale   [2]float32
	Layer     uint32
}

// SpriteBatch maps entities to slots in a dense record array.
//
// New entities append; removed entities leave a hidden tombstone whose slot is
// reused by the next insert, so indices of live entities never move.
type SpriteBatch struct {
	records []SpriteRecord
	index   map[donburi.Entity]int
	free    []int
	live    int
	dirty   bool
}

// NewSpriteBatch returns an empty batch with room for capacity records.
func NewSpriteBatch(capacity int) *SpriteBatch {
	return &SpriteBatch{
		records: make([]SpriteRecord, 0, capacity),
		index:   make(map[donburi.Entity]int, capacity),
	}
}

// Upsert writes the world matrix of e, giving it a slot if it has none.
// It returns the slot index.
func (b *SpriteBatch) Upsert(e donburi.Entity, m Mat4) int {
	i, ok := b.index[e]
	if !ok {
		if n := len(b.free); n > 0 {
			i = b.free[n-1]
			b.free = b.free[:n-1]
			b.records[i] = SpriteRecord{}
		} else {
			i = len(b.records)
			b.records = append(b.records, SpriteRecord{})
		}
		b.index[e] = i
		b.live++
	}
	b.records[i].Transform = m
	b.dirty = true
	return i
}

// SetUV writes the atlas rectangle of e. The entity must already have a slot.
func (b *SpriteBatch) SetUV(e donburi.Entity, offset, scale Vec2) {
	i, ok := b.index[e]
	if !ok {
		panic(fmt.Sprintf("canopy: SetUV on entity %v without a sprite slot", e))
	}
	r := &b.records[i]
	r.UVOffset = [2]float32{offset.X, offset.Y}
	r.UVScale = [2]float32{scale.X, scale.Y}
	b.dirty = true
}

// Remove frees the slot of e. Unknown entities are ignored.
func (b *SpriteBatch) Remove(e donburi.Entity) bool {
	i, ok := b.index[e]
	if !ok {
		return false
	}
	delete(b.index, e)
	b.records[i] = SpriteRecord{Layer: LayerHidden}
	b.free = append(b.free, i)
	b.live--
	b.dirty = true
	return true
}

// Index returns the slot of e.
func (b *SpriteBatch) Index(e donburi.Entity) (int, bool) {
	i, ok := b.index[e]
	return i, ok
}

// Records returns the record array, tombstones included. Do not retain it
// across mutations.
func (b *SpriteBatch) Records() []SpriteRecord { return b.records }

// Len returns the number of slots, tombstones included.
func (b *SpriteBatch) Len() int { return len(b.records) }

// Live returns the number of entities holding a slot.
func (b *SpriteBatch) Live() int { return b.live }

// Dirty reports whether records changed since the last upload.
func (b *SpriteBatch) Dirty() bool { return b.dirty }

// ClearDirty is called after a successful upload.
func (b *SpriteBatch) ClearDirty() { b.dirty = false }

// Batch is one draw call over records [Start, Start+Count).
type Batch struct {
	Start, Count int
	// Upload is set when the records must be written to the instance buffer
	// before drawing.
	Upload bool
}

// Plan splits the records into draw calls of at most capacity instances.
//
// With at most capacity records there is one batch, uploaded only when the
// batch is dirty. Otherwise there are ceil(N/capacity) batches, each uploaded
// to offset 0 of the shared window before its draw; the last draws exactly
// the remainder.
func (b *SpriteBatch) Plan(capacity int, dst []Batch) []Batch {
	dst = dst[:0]
	n := len(b.records)
	if n == 0 || capacity <= 0 {
		return dst
	}
	if n <= capacity {
		return append(dst, Batch{Start: 0, Count: n, Upload: b.dirty})
	}
	for start := 0; start < n; start += capacity {
		dst = append(dst, Batch{Start: start, Count: min(capacity, n-start), Upload: true})
	}
	return dst
}
