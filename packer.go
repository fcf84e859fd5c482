package canopy

import "image"

// AllocID identifies one rectangle handed out by a Packer.
type AllocID uint32

// Packer is a guillotine free-rectangle allocator over a fixed-size surface.
// Allocations are permanent; there is no free operation.
//
// Each request takes the free rectangle with the best short-side fit, is
// placed at its top-left corner, and the remainder is split along the longer
// leftover axis into a right and a bottom rectangle.
type Packer struct {
	width, height int
	free          []image.Rectangle
	allocs        []image.Rectangle // indexed by AllocID
	used          int
}

// NewPacker returns a packer covering a width×height surface.
func NewPacker(width, height int) *Packer {
	p := &Packer{width: width, height: height}
	if width > 0 && height > 0 {
		p.free = append(p.free, image.Rect(0, 0, width, height))
	}
	return p
}

// Allocate reserves a w×h rectangle. ok is false when no free rectangle can
// hold it; the packer is unchanged in that case.
func (p *Packer) Allocate(w, h int) (id AllocID, r image.Rectangle, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, image.Rectangle{}, false
	}
	best := -1
	bestShort, bestLong := 0, 0
	for i, f := range p.free {
		fw, fh := f.Dx(), f.Dy()
		if fw < w || fh < h {
			continue
		}
		short := min(fw-w, fh-h)
		long := max(fw-w, fh-h)
		if best < 0 || short < bestShort || (short == bestShort && long < bestLong) {
			best, bestShort, bestLong = i, short, long
		}
	}
	if best < 0 {
		return 0, image.Rectangle{}, false
	}

	f := p.free[best]
	r = image.Rect(f.Min.X, f.Min.Y, f.Min.X+w, f.Min.Y+h)

	// Swap-remove the consumed rectangle, then add the split remainders.
	last := len(p.free) - 1
	p.free[best] = p.free[last]
	p.free = p.free[:last]

	rw, rh := f.Dx()-w, f.Dy()-h
	var right, bottom image.Rectangle
	if rw > rh {
		right = image.Rect(r.Max.X, f.Min.Y, f.Max.X, f.Max.Y)
		bottom = image.Rect(f.Min.X, r.Max.Y, r.Max.X, f.Max.Y)
	} else {
		right = image.Rect(r.Max.X, f.Min.Y, f.Max.X, r.Max.Y)
		bottom = image.Rect(f.Min.X, r.Max.Y, f.Max.X, f.Max.Y)
	}
	if !right.Empty() {
		p.free = append(p.free, right)
	}
	if !bottom.Empty() {
		p.free = append(p.free, bottom)
	}

	id = AllocID(len(p.allocs))
	p.allocs = append(p.allocs, r)
	p.used += w * h
	return id, r, true
}

// Rect returns the rectangle of a previous allocation.
func (p *Packer) Rect(id AllocID) (image.Rectangle, bool) {
	if int(id) >= len(p.allocs) {
		return image.Rectangle{}, false
	}
	return p.allocs[id], true
}

// Size returns the packer surface dimensions.
func (p *Packer) Size() (int, int) { return p.width, p.height }

// Len returns the number of allocations made.
func (p *Packer) Len() int { return len(p.allocs) }

// FreeArea returns the number of unallocated pixels.
func (p *Packer) FreeArea() int { return p.width*p.height - p.used }
