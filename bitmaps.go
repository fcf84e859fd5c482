package canopy

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // register decoder for LoadFS
	_ "image/png"  // register decoder for LoadFS
	"io/fs"
	"path"
	"strings"
)

// Bitmaps is the asset-provider side of the atlas: decoded images keyed by
// texture name. Images must be added before a sprite referencing them is
// first rendered.
type Bitmaps struct {
	images map[string]*image.RGBA
}

// NewBitmaps returns an empty store.
func NewBitmaps() *Bitmaps {
	return &Bitmaps{images: make(map[string]*image.RGBA)}
}

// Add stores img under key, converting it to RGBA with its origin at (0,0).
// Adding an existing key replaces the bitmap, but an atlas that has already
// uploaded the key keeps the old pixels.
func (b *Bitmaps) Add(key string, img image.Image) {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || bounds.Min != (image.Point{}) || rgba.Stride != 4*bounds.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	b.images[key] = rgba
}

// Get returns the bitmap for key.
func (b *Bitmaps) Get(key string) (*image.RGBA, bool) {
	img, ok := b.images[key]
	return img, ok
}

// Len returns the number of stored bitmaps.
func (b *Bitmaps) Len() int { return len(b.images) }

// LoadFS decodes every file in fsys matching one of the glob patterns and
// stores it under its base name without extension ("img/a.png" → "a").
func (b *Bitmaps) LoadFS(fsys fs.FS, patterns ...string) (int, error) {
	n := 0
	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return n, fmt.Errorf("canopy: bad pattern %q: %w", pattern, err)
		}
		for _, name := range matches {
			if err := b.loadFile(fsys, name); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func (b *Bitmaps) loadFile(fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("canopy: open bitmap: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("canopy: decode bitmap %q: %w", name, err)
	}
	base := path.Base(name)
	b.Add(strings.TrimSuffix(base, path.Ext(base)), img)
	return nil
}
