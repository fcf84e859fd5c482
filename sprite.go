package canopy

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// Sprite is a textured quad of Width×Height world units centered on its
// entity's Transform. Texture is a key into the scene's Bitmaps.
type Sprite struct {
	Width, Height float32
	Texture       string

	sizeDirty    bool
	textureDirty bool
}

// SpriteComponent is the donburi component type for Sprite.
var SpriteComponent = donburi.NewComponentType[Sprite]()

// NewSprite returns a sprite that will be packed and drawn on the next tick.
func NewSprite(texture string, width, height float32) Sprite {
	return Sprite{
		Width:        width,
		Height:       height,
		Texture:      texture,
		sizeDirty:    true,
		textureDirty: true,
	}
}

// SetSize changes the world size of the sprite.
func (s *Sprite) SetSize(width, height float32) {
	s.Width, s.Height = width, height
	s.sizeDirty = true
}

// SetTexture switches the sprite to another bitmap key.
func (s *Sprite) SetTexture(key string) {
	s.Texture = key
	s.textureDirty = true
}

// worldMatrix is the transform matrix stretched by the sprite size.
func (s *Sprite) worldMatrix(t *Transform) Mat4 {
	return t.Matrix.Mul(Mat4Scale(Vec3{s.Width, s.Height, 1}))
}

var spriteQuery = donburi.NewQuery(filter.Contains(TransformComponent, SpriteComponent))

// syncSpriteTransforms writes a record for every sprite whose matrix or size
// changed since it was last synced.
func syncSpriteTransforms(w donburi.World, r *Renderer) int {
	n := 0
	spriteQuery.Each(w, func(e *donburi.Entry) {
		t := TransformComponent.Get(e)
		s := SpriteComponent.Get(e)
		if t.matrixSeen && !s.sizeDirty {
			return
		}
		r.SyncTransform(e.Entity(), s.worldMatrix(t))
		t.matrixSeen = true
		s.sizeDirty = false
		n++
	})
	return n
}

// syncSpriteTextures resolves the atlas region of every sprite whose texture
// changed. It must run after syncSpriteTransforms so every sprite has a slot.
// The first error is returned; sprites that failed show the placeholder.
func syncSpriteTextures(w donburi.World, r *Renderer) (int, error) {
	n := 0
	var first error
	spriteQuery.Each(w, func(e *donburi.Entry) {
		s := SpriteComponent.Get(e)
		if !s.textureDirty {
			return
		}
		if err := r.SyncTexture(e.Entity(), s.Texture); err != nil && first == nil {
			first = err
		}
		s.textureDirty = false
		n++
	})
	return n, first
}
