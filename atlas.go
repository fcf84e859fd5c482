package canopy

import (
	"fmt"
	"image"
)

// AtlasRegion is a rectangle of the atlas texture assigned to one texture key.
type AtlasRegion struct {
	Rect image.Rectangle
	ID   AllocID
	Page uint16 // always 0; there is a single atlas page
}

// Atlas owns one device texture and packs bitmaps into it on first use.
// Regions are never evicted or moved.
type Atlas struct {
	device  Device
	bitmaps *Bitmaps
	texture TextureID
	packer  *Packer
	keys    map[string]AllocID
	// pending holds rectangles whose upload failed, reused on retry.
	pending map[string]AllocID

	placeholder AtlasRegion
	uploads     int
}

// NewAtlas creates a width×height atlas texture on device and reserves a 1×1
// magenta placeholder region that failed lookups resolve to.
func NewAtlas(device Device, bitmaps *Bitmaps, width, height int) (*Atlas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canopy: atlas size %dx%d: %w", width, height, ErrInvalidConfig)
	}
	tex, err := device.CreateTexture("canopy atlas", width, height)
	if err != nil {
		return nil, fmt.Errorf("canopy: create atlas texture: %w", err)
	}
	a := &Atlas{
		device:  device,
		bitmaps: bitmaps,
		texture: tex,
		packer:  NewPacker(width, height),
		keys:    make(map[string]AllocID),
		pending: make(map[string]AllocID),
	}
	id, r, ok := a.packer.Allocate(1, 1)
	if !ok {
		return nil, &AllocationError{Key: "placeholder", Width: 1, Height: 1, AtlasW: width, AtlasH: height}
	}
	m := colorMagenta
	pix := []byte{byte(m.R * 255), byte(m.G * 255), byte(m.B * 255), byte(m.A * 255)}
	if err := device.WriteTexture(tex, r.Min.X, r.Min.Y, 1, 1, pix); err != nil {
		return nil, fmt.Errorf("canopy: upload placeholder: %w", err)
	}
	a.placeholder = AtlasRegion{Rect: r, ID: id}
	return a, nil
}

// AllocateOrGet returns the region for key, packing and uploading the bitmap
// the first time the key is seen. isNew reports whether this call allocated.
//
// A bitmap that does not fit returns an *AllocationError; nothing is cached
// for the key, so a later call fails the same way. When the upload fails the
// packed rectangle stays reserved for the key and the next call retries the
// upload into it.
func (a *Atlas) AllocateOrGet(key string) (region AtlasRegion, isNew bool, err error) {
	if id, ok := a.keys[key]; ok {
		r, _ := a.packer.Rect(id)
		return AtlasRegion{Rect: r, ID: id}, false, nil
	}
	img, ok := a.bitmaps.Get(key)
	if !ok {
		return AtlasRegion{}, false, fmt.Errorf("%w: %q", ErrUnknownTexture, key)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	id, pending := a.pending[key]
	var r image.Rectangle
	if pending {
		r, _ = a.packer.Rect(id)
		pending = r.Dx() == w && r.Dy() == h
	}
	if !pending {
		id, r, ok = a.packer.Allocate(w, h)
		if !ok {
			aw, ah := a.packer.Size()
			return AtlasRegion{}, false, &AllocationError{Key: key, Width: w, Height: h, AtlasW: aw, AtlasH: ah}
		}
	}
	if err := a.device.WriteTexture(a.texture, r.Min.X, r.Min.Y, w, h, img.Pix); err != nil {
		a.pending[key] = id
		return AtlasRegion{}, false, fmt.Errorf("canopy: upload %q: %w", key, err)
	}
	delete(a.pending, key)
	a.keys[key] = id
	a.uploads++
	return AtlasRegion{Rect: r, ID: id}, true, nil
}

// Region returns the cached region for key without allocating.
func (a *Atlas) Region(key string) (AtlasRegion, bool) {
	id, ok := a.keys[key]
	if !ok {
		return AtlasRegion{}, false
	}
	r, _ := a.packer.Rect(id)
	return AtlasRegion{Rect: r, ID: id}, true
}

// Placeholder returns the magenta 1×1 region.
func (a *Atlas) Placeholder() AtlasRegion { return a.placeholder }

// UV returns the normalized offset and scale of r within the atlas.
func (a *Atlas) UV(r AtlasRegion) (offset, scale Vec2) {
	w, h := a.packer.Size()
	fw, fh := float32(w), float32(h)
	offset = Vec2{float32(r.Rect.Min.X) / fw, float32(r.Rect.Min.Y) / fh}
	scale = Vec2{float32(r.Rect.Dx()) / fw, float32(r.Rect.Dy()) / fh}
	return offset, scale
}

// Texture returns the device texture backing the atlas.
func (a *Atlas) Texture() TextureID { return a.texture }

// Size returns the atlas dimensions in pixels.
func (a *Atlas) Size() (int, int) { return a.packer.Size() }

// Len returns the number of cached keys.
func (a *Atlas) Len() int { return len(a.keys) }

// Uploads returns how many bitmaps have been uploaded, excluding the placeholder.
func (a *Atlas) Uploads() int { return a.uploads }

// FreeArea returns the number of unallocated atlas pixels.
func (a *Atlas) FreeArea() int { return a.packer.FreeArea() }
