package canopy

import (
	"errors"
	"image/color"
	"testing"
)

func testConfig(perDraw int) Config {
	cfg := DefaultConfig()
	cfg.Atlas = AtlasConfig{Width: 256, Height: 256}
	cfg.Batch.SpritesPerDraw = perDraw
	return cfg
}

func newTestRenderer(t *testing.T, perDraw int) (*Renderer, *fakeDevice) {
	t.Helper()
	bm := NewBitmaps()
	bm.Add("leaf", solidImage(8, 8, color.RGBA{G: 255, A: 255}))
	bm.Add("huge", solidImage(512, 4, color.RGBA{B: 255, A: 255}))
	dev := newFakeDevice()
	r, err := NewRenderer(dev, bm, testConfig(perDraw))
	if err != nil {
		t.Fatal(err)
	}
	return r, dev
}

func TestRendererSingleBatch(t *testing.T) {
	r, dev := newTestRenderer(t, 8)
	for _, e := range spawnEntities(3) {
		r.SyncTransform(e, Mat4Identity)
	}
	if err := r.Render(); err != nil {
		t.Fatal(err)
	}
	if len(dev.draws) != 1 || dev.draws[0].instances != 3 {
		t.Fatalf("draws = %+v", dev.draws)
	}
	if len(dev.writes) != 1 || dev.writes[0].offset != 0 || dev.writes[0].n != 3 {
		t.Errorf("writes = %+v", dev.writes)
	}
	if dev.presents != 1 || !dev.passes[0].Clear {
		t.Errorf("presents=%d passes=%+v", dev.presents, dev.passes)
	}
	if r.Batch().Dirty() {
		t.Error("upload should clear dirty")
	}

	// Clean frame: no upload, still one draw.
	if err := r.Render(); err != nil {
		t.Fatal(err)
	}
	if len(dev.writes) != 1 || len(dev.draws) != 2 {
		t.Errorf("writes=%d draws=%d", len(dev.writes), len(dev.draws))
	}
}

func TestRendererSplitsIntoCeilBatches(t *testing.T) {
	r, dev := newTestRenderer(t, 4)
	es := spawnEntities(10)
	for i, e := range es {
		r.SyncTransform(e, Mat4Scale(Vec3{float32(i + 1), 1, 1}))
	}
	if err := r.Render(); err != nil {
		t.Fatal(err)
	}
	if len(dev.draws) != 3 {
		t.Fatalf("draw calls = %d, want 3", len(dev.draws))
	}
	wantCounts := []int{4, 4, 2}
	for i, d := range dev.draws {
		if d.instances != wantCounts[i] {
			t.Errorf("draw %d instances = %d, want %d", i, d.instances, wantCounts[i])
		}
		// Each draw sees its own records at the start of the window.
		first := d.records[0].Transform[0]
		if want := float32(i*4 + 1); first != want {
			t.Errorf("draw %d first record scale = %v, want %v", i, first, want)
		}
	}
	for _, w := range dev.writes {
		if w.offset != 0 {
			t.Errorf("write at offset %d, want 0", w.offset)
		}
	}
	if dev.submits != 3 {
		t.Errorf("submits = %d, want 3", dev.submits)
	}
	if !dev.passes[0].Clear || dev.passes[1].Clear || dev.passes[2].Clear {
		t.Errorf("only the first pass should clear: %+v", dev.passes)
	}
	if s := r.Stats(); s.DrawCalls != 3 || s.Uploads != 3 || s.Sprites != 10 {
		t.Errorf("stats = %+v", s)
	}
}

func TestRendererEmptyFrameClears(t *testing.T) {
	r, dev := newTestRenderer(t, 4)
	if err := r.Render(); err != nil {
		t.Fatal(err)
	}
	if len(dev.draws) != 0 || len(dev.passes) != 1 || !dev.passes[0].Clear || dev.presents != 1 {
		t.Errorf("draws=%d passes=%+v presents=%d", len(dev.draws), dev.passes, dev.presents)
	}
}

func TestRendererSyncTextureWritesUV(t *testing.T) {
	r, _ := newTestRenderer(t, 4)
	e := spawnEntities(1)[0]
	r.SyncTransform(e, Mat4Identity)
	if err := r.SyncTexture(e, "leaf"); err != nil {
		t.Fatal(err)
	}
	region, ok := r.Atlas().Region("leaf")
	if !ok {
		t.Fatal("leaf not cached")
	}
	off, scale := r.Atlas().UV(region)
	rec := r.Batch().Records()[0]
	if rec.UVOffset != [2]float32{off.X, off.Y} || rec.UVScale != [2]float32{scale.X, scale.Y} {
		t.Errorf("uv = %v %v", rec.UVOffset, rec.UVScale)
	}
	if scale != (Vec2{8.0 / 256, 8.0 / 256}) {
		t.Errorf("scale = %v", scale)
	}
}

func TestRendererSyncTextureFallsBackToPlaceholder(t *testing.T) {
	r, _ := newTestRenderer(t, 4)
	e := spawnEntities(1)[0]
	r.SyncTransform(e, Mat4Identity)
	err := r.SyncTexture(e, "huge")
	if !errors.Is(err, ErrAllocationFailed) {
		t.Fatalf("err = %v", err)
	}
	off, scale := r.Atlas().UV(r.Atlas().Placeholder())
	rec := r.Batch().Records()[0]
	if rec.UVOffset != [2]float32{off.X, off.Y} || rec.UVScale != [2]float32{scale.X, scale.Y} {
		t.Error("record should sample the placeholder")
	}
	if r.Stats().AllocFailures != 1 {
		t.Errorf("AllocFailures = %d", r.Stats().AllocFailures)
	}
}

func TestRendererRemoveHidesRecord(t *testing.T) {
	r, dev := newTestRenderer(t, 4)
	es := spawnEntities(2)
	for _, e := range es {
		r.SyncTransform(e, Mat4Identity)
	}
	r.Remove(es[0])
	if err := r.Render(); err != nil {
		t.Fatal(err)
	}
	d := dev.draws[0]
	if d.instances != 2 || d.records[0].Layer != LayerHidden {
		t.Errorf("draw = %+v", d)
	}
	if r.Stats().Sprites != 1 {
		t.Errorf("Sprites = %d", r.Stats().Sprites)
	}
}

func TestRendererPropagatesDeviceErrors(t *testing.T) {
	r, dev := newTestRenderer(t, 4)
	r.SyncTransform(spawnEntities(1)[0], Mat4Identity)
	boom := errors.New("device lost")
	dev.failDraw = boom
	if err := r.Render(); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if !r.Batch().Dirty() {
		t.Error("failed frame should keep the batch dirty")
	}
}

func TestNewRendererRejectsZeroCapacity(t *testing.T) {
	cfg := testConfig(0)
	if _, err := NewRenderer(newFakeDevice(), NewBitmaps(), cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}
