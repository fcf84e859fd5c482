package canopy

import (
	"fmt"
	"time"

	"github.com/yohamta/donburi"
)

// Scene owns the entity world, the animation clock and the renderer, and runs
// every system once per Tick in a fixed order.
type Scene struct {
	// ScreenshotDir is the directory Screenshot writes to.
	ScreenshotDir string

	world    donburi.World
	clock    *Clock
	anim     *Animator
	renderer *Renderer
	bitmaps  *Bitmaps
	device   Device

	transformAnims *donburi.ComponentType[AnimationSet[Transform]]

	updateFunc      func() error
	script          *ScriptRunner
	screenshotQueue []string
	debug           bool
	err             error
	frame           uint64
}

// NewScene creates a scene drawing through device. Textures are looked up in
// bitmaps when sprites first reference them.
func NewScene(device Device, bitmaps *Bitmaps, cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := NewRenderer(device, bitmaps, cfg)
	if err != nil {
		return nil, err
	}
	clock := NewClock()
	clock.DT = cfg.Playback.FrameDT
	clock.Loop = cfg.Playback.Loop
	clock.Mode, _ = ParsePlaybackMode(cfg.Playback.Mode)

	s := &Scene{
		ScreenshotDir: DefaultScreenshotDir,
		world:         donburi.NewWorld(),
		clock:         clock,
		anim:          &Animator{},
		renderer:      r,
		bitmaps:       bitmaps,
		device:        device,
		debug:         cfg.Debug,
	}
	s.transformAnims = RegisterAnimated(s.anim, TransformComponent)
	PlaybackEvents.Subscribe(s.world, s.onPlayback)
	return s, nil
}

// World returns the scene's entity world.
func (s *Scene) World() donburi.World { return s.world }

// Clock returns the playback clock.
func (s *Scene) Clock() *Clock { return s.clock }

// Animator returns the animation systems. Use it with RegisterAnimated to
// animate component types other than Transform.
func (s *Scene) Animator() *Animator { return s.anim }

// Renderer returns the sprite renderer.
func (s *Scene) Renderer() *Renderer { return s.renderer }

// Bitmaps returns the texture source.
func (s *Scene) Bitmaps() *Bitmaps { return s.bitmaps }

// Device returns the device the scene draws through.
func (s *Scene) Device() Device { return s.device }

// TransformAnimations is the component type holding Transform timelines.
func (s *Scene) TransformAnimations() *donburi.ComponentType[AnimationSet[Transform]] {
	return s.transformAnims
}

// SpawnSprite creates an entity with a Transform at pos and sprite.
func (s *Scene) SpawnSprite(pos Vec3, sprite Sprite) donburi.Entity {
	e := s.world.Create(TransformComponent, SpriteComponent)
	entry := s.world.Entry(e)
	TransformComponent.SetValue(entry, NewTransform(pos))
	SpriteComponent.SetValue(entry, sprite)
	return e
}

// SpawnAnimatedSprite is SpawnSprite plus a Transform timeline. The set is
// cloned so one template can be shared by many entities.
func (s *Scene) SpawnAnimatedSprite(pos Vec3, sprite Sprite, set AnimationSet[Transform]) donburi.Entity {
	e := s.world.Create(TransformComponent, SpriteComponent, s.transformAnims)
	entry := s.world.Entry(e)
	TransformComponent.SetValue(entry, NewTransform(pos))
	SpriteComponent.SetValue(entry, sprite)
	s.transformAnims.SetValue(entry, set.Clone())
	s.clock.Invalidate()
	return e
}

// Despawn removes e and its sprite record. Its slot is reused by the next
// spawned sprite.
func (s *Scene) Despawn(e donburi.Entity) {
	if !s.world.Valid(e) {
		return
	}
	if s.anim.Animates(s.world.Entry(e)) {
		s.clock.Invalidate()
	}
	s.renderer.Remove(e)
	s.world.Remove(e)
}

// Publish queues a playback command; it takes effect at the end of the
// current (or next) tick.
func (s *Scene) Publish(ev PlaybackEvent) {
	PlaybackEvents.Publish(s.world, ev)
}

func (s *Scene) onPlayback(_ donburi.World, ev PlaybackEvent) {
	ev.apply(s.clock)
}

// SetUpdateFunc sets a callback run at the start of every Tick. Returning an
// error stops the tick, and under Run stops the game.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetDebugMode enables per-tick timing and counter logs on stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Err returns the first non-fatal error seen, such as a texture that did not
// fit in the atlas.
func (s *Scene) Err() error { return s.err }

// Frame returns the number of completed ticks.
func (s *Scene) Frame() uint64 { return s.frame }

// Tick runs one frame: transform update, sprite transform sync, sprite
// texture sync, render, animation controller, animation apply, then
// housekeeping. Render failures are fatal and returned.
func (s *Scene) Tick() error {
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}
	if s.script != nil {
		if err := s.script.step(s); err != nil {
			return err
		}
	}

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	stats.transforms = updateTransforms(s.world)

	if s.debug {
		stats.transformTime = time.Since(t0)
		t0 = time.Now()
	}

	stats.spriteSyncs = syncSpriteTransforms(s.world, s.renderer)
	n, err := syncSpriteTextures(s.world, s.renderer)
	stats.textureSyncs = n
	if err != nil && s.err == nil {
		s.err = err
	}

	if s.debug {
		stats.syncTime = time.Since(t0)
		t0 = time.Now()
	}

	if err := s.renderer.Render(); err != nil {
		return fmt.Errorf("canopy: frame %d: %w", s.frame, err)
	}

	if s.debug {
		stats.renderTime = time.Since(t0)
		t0 = time.Now()
	}

	s.anim.Control(s.world, s.clock)
	s.anim.Apply(s.world, s.clock)

	if s.debug {
		stats.animTime = time.Since(t0)
	}

	PlaybackEvents.ProcessEvents(s.world)
	s.debugLog(stats)
	s.frame++
	return nil
}
