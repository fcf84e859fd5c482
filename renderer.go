package canopy

import (
	"fmt"
	"log"

	"github.com/yohamta/donburi"
)

// RenderStats describes the last rendered frame.
type RenderStats struct {
	DrawCalls     int
	Uploads       int // instance buffer writes
	Sprites       int // live sprites
	AllocFailures int // texture lookups that fell back to the placeholder, cumulative
}

// Renderer turns the sprite batch into draw calls against a Device, sampling
// a single shared atlas.
type Renderer struct {
	device   Device
	atlas    *Atlas
	batch    *SpriteBatch
	buffer   BufferID
	capacity int
	clear    Color

	plan   []Batch
	stats  RenderStats
	warned map[string]bool

	// windowPartial is set when the instance buffer holds only the last batch
	// of a split frame rather than every record.
	windowPartial bool
}

// NewRenderer creates the atlas texture and the instance buffer on device.
func NewRenderer(device Device, bitmaps *Bitmaps, cfg Config) (*Renderer, error) {
	if cfg.Batch.SpritesPerDraw <= 0 {
		return nil, fmt.Errorf("canopy: sprites per draw %d: %w", cfg.Batch.SpritesPerDraw, ErrInvalidConfig)
	}
	atlas, err := NewAtlas(device, bitmaps, cfg.Atlas.Width, cfg.Atlas.Height)
	if err != nil {
		return nil, err
	}
	buf, err := device.CreateBuffer("canopy sprites", cfg.Batch.SpritesPerDraw)
	if err != nil {
		return nil, fmt.Errorf("canopy: create instance buffer: %w", err)
	}
	return &Renderer{
		device:   device,
		atlas:    atlas,
		batch:    NewSpriteBatch(cfg.Batch.SpritesPerDraw),
		buffer:   buf,
		capacity: cfg.Batch.SpritesPerDraw,
		clear:    cfg.ClearColor,
		warned:   make(map[string]bool),
	}, nil
}

// SyncTransform writes the world matrix for e, creating its record if needed.
func (r *Renderer) SyncTransform(e donburi.Entity, m Mat4) {
	r.batch.Upsert(e, m)
}

// SyncTexture resolves key in the atlas and writes its UVs into e's record.
// On failure the record samples the placeholder and the error is returned;
// each failing key is logged once.
func (r *Renderer) SyncTexture(e donburi.Entity, key string) error {
	region, _, err := r.atlas.AllocateOrGet(key)
	if err != nil {
		region = r.atlas.Placeholder()
		r.stats.AllocFailures++
		if !r.warned[key] {
			r.warned[key] = true
			log.Printf("canopy: texture %q unavailable, using placeholder: %v", key, err)
		}
	}
	off, scale := r.atlas.UV(region)
	r.batch.SetUV(e, off, scale)
	return err
}

// Remove drops e's record.
func (r *Renderer) Remove(e donburi.Entity) {
	r.batch.Remove(e)
}

// Render draws every record and presents the frame. When the records exceed
// the per-draw capacity, each batch is written to the start of the instance
// buffer and drawn in its own submitted pass.
func (r *Renderer) Render() error {
	r.plan = r.batch.Plan(r.capacity, r.plan)
	r.stats.DrawCalls = 0
	r.stats.Uploads = 0
	r.stats.Sprites = r.batch.Live()

	if len(r.plan) == 0 {
		if err := r.pass(true, Batch{}); err != nil {
			return err
		}
		return r.present()
	}

	records := r.batch.Records()
	for i, b := range r.plan {
		if b.Upload || r.windowPartial {
			if err := r.device.WriteBuffer(r.buffer, 0, records[b.Start:b.Start+b.Count]); err != nil {
				return fmt.Errorf("canopy: write instance buffer: %w", err)
			}
			r.stats.Uploads++
		}
		if err := r.pass(i == 0, b); err != nil {
			return err
		}
	}
	r.batch.ClearDirty()
	r.windowPartial = len(r.plan) > 1
	return r.present()
}

func (r *Renderer) pass(clear bool, b Batch) error {
	pass, err := r.device.BeginRenderPass(PassOptions{Clear: clear, ClearColor: r.clear})
	if err != nil {
		return fmt.Errorf("canopy: begin render pass: %w", err)
	}
	if b.Count > 0 {
		if err := pass.Draw(r.buffer, r.atlas.Texture(), b.Count); err != nil {
			return fmt.Errorf("canopy: draw: %w", err)
		}
		r.stats.DrawCalls++
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("canopy: end render pass: %w", err)
	}
	if err := r.device.Submit(); err != nil {
		return fmt.Errorf("canopy: submit: %w", err)
	}
	return nil
}

func (r *Renderer) present() error {
	if err := r.device.Present(); err != nil {
		return fmt.Errorf("canopy: present: %w", err)
	}
	return nil
}

// Atlas returns the renderer's texture atlas.
func (r *Renderer) Atlas() *Atlas { return r.atlas }

// Batch returns the renderer's sprite records.
func (r *Renderer) Batch() *SpriteBatch { return r.batch }

// Stats returns counters for the last frame.
func (r *Renderer) Stats() RenderStats { return r.stats }
