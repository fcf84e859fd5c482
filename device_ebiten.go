package canopy

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenDevice implements Device on top of ebiten. Buffers are CPU record
// arrays, textures are ebiten images, and each draw expands its instances
// into textured quads at record time. The presented frame is replayed onto
// the screen by DrawTo.
type EbitenDevice struct {
	buffers  [][]SpriteRecord // BufferID-1
	textures []*ebiten.Image  // TextureID-1
	frame    ebitenFrame      // being recorded
	shown    ebitenFrame      // last presented
	triOp    ebiten.DrawTrianglesOptions
}

type ebitenFrame struct {
	clear   Color
	cleared bool
	verts   []ebiten.Vertex
	inds    []uint32
	draws   []ebitenDraw
}

// ebitenDraw is one DrawTriangles32 call over a vertex and index range.
type ebitenDraw struct {
	tex                *ebiten.Image
	vertStart, vertEnd int
	indStart, indEnd   int
}

func (f *ebitenFrame) reset() {
	f.cleared = false
	f.verts = f.verts[:0]
	f.inds = f.inds[:0]
	f.draws = f.draws[:0]
}

// NewEbitenDevice returns an empty device.
func NewEbitenDevice() *EbitenDevice {
	d := &EbitenDevice{}
	d.triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	return d
}

func (d *EbitenDevice) CreateBuffer(label string, capacity int) (BufferID, error) {
	if capacity <= 0 {
		return 0, fmt.Errorf("canopy: buffer %q capacity %d", label, capacity)
	}
	d.buffers = append(d.buffers, make([]SpriteRecord, capacity))
	return BufferID(len(d.buffers)), nil
}

func (d *EbitenDevice) buffer(id BufferID) ([]SpriteRecord, error) {
	if id == 0 || int(id) > len(d.buffers) {
		return nil, fmt.Errorf("canopy: unknown buffer %d", id)
	}
	return d.buffers[id-1], nil
}

func (d *EbitenDevice) WriteBuffer(buf BufferID, offset int, records []SpriteRecord) error {
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(records) > len(b) {
		return fmt.Errorf("canopy: write of %d records at %d overflows buffer %d (%d)", len(records), offset, buf, len(b))
	}
	copy(b[offset:], records)
	return nil
}

func (d *EbitenDevice) CreateTexture(label string, width, height int) (TextureID, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("canopy: texture %q size %dx%d", label, width, height)
	}
	d.textures = append(d.textures, ebiten.NewImage(width, height))
	return TextureID(len(d.textures)), nil
}

func (d *EbitenDevice) texture(id TextureID) (*ebiten.Image, error) {
	if id == 0 || int(id) > len(d.textures) {
		return nil, fmt.Errorf("canopy: unknown texture %d", id)
	}
	return d.textures[id-1], nil
}

func (d *EbitenDevice) WriteTexture(tex TextureID, x, y, w, h int, pix []byte) error {
	img, err := d.texture(tex)
	if err != nil {
		return err
	}
	r := image.Rect(x, y, x+w, y+h)
	if !r.In(img.Bounds()) {
		return fmt.Errorf("canopy: texture write %v outside %v", r, img.Bounds())
	}
	if len(pix) != 4*w*h {
		return fmt.Errorf("canopy: texture write of %d bytes for %dx%d", len(pix), w, h)
	}
	img.SubImage(r).(*ebiten.Image).WritePixels(pix)
	return nil
}

func (d *EbitenDevice) BeginRenderPass(opts PassOptions) (RenderPass, error) {
	if opts.Clear {
		// Clearing discards everything recorded earlier in the frame.
		d.frame.reset()
		d.frame.cleared = true
		d.frame.clear = opts.ClearColor
	}
	return &ebitenPass{d: d}, nil
}

// Submit is a no-op: draws are expanded when recorded.
func (d *EbitenDevice) Submit() error { return nil }

// Present makes the recorded frame the one DrawTo replays.
func (d *EbitenDevice) Present() error {
	d.shown, d.frame = d.frame, d.shown
	d.frame.reset()
	return nil
}

// DrawTo replays the last presented frame onto screen.
func (d *EbitenDevice) DrawTo(screen *ebiten.Image) {
	f := &d.shown
	if f.cleared {
		c := f.clear
		screen.Fill(color.RGBA{
			R: uint8(clamp01(float32(c.R*c.A)) * 255),
			G: uint8(clamp01(float32(c.G*c.A)) * 255),
			B: uint8(clamp01(float32(c.B*c.A)) * 255),
			A: uint8(clamp01(float32(c.A)) * 255),
		})
	}
	for _, dr := range f.draws {
		if dr.vertEnd == dr.vertStart {
			continue
		}
		screen.DrawTriangles32(f.verts[dr.vertStart:dr.vertEnd], f.inds[dr.indStart:dr.indEnd], dr.tex, &d.triOp)
	}
}

// Quads returns the number of quads in the last presented frame.
func (d *EbitenDevice) Quads() int { return len(d.shown.verts) / 4 }

// DrawCalls returns the number of draws in the last presented frame.
func (d *EbitenDevice) DrawCalls() int { return len(d.shown.draws) }

type ebitenPass struct {
	d     *EbitenDevice
	ended bool
}

func (p *ebitenPass) Draw(buf BufferID, tex TextureID, instances int) error {
	if p.ended {
		return fmt.Errorf("canopy: draw on ended pass")
	}
	d := p.d
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	img, err := d.texture(tex)
	if err != nil {
		return err
	}
	if instances > len(b) {
		return fmt.Errorf("canopy: draw of %d instances from buffer %d (%d)", instances, buf, len(b))
	}
	f := &d.frame
	dr := ebitenDraw{tex: img, vertStart: len(f.verts), indStart: len(f.inds)}
	size := img.Bounds().Size()
	tw, th := float32(size.X), float32(size.Y)
	for i := 0; i < instances; i++ {
		f.verts, f.inds = appendInstanceQuad(f.verts, f.inds, &b[i], tw, th, dr.vertStart)
	}
	dr.vertEnd, dr.indEnd = len(f.verts), len(f.inds)
	f.draws = append(f.draws, dr)
	return nil
}

func (p *ebitenPass) End() error {
	p.ended = true
	return nil
}

// quadCorners are the unit quad corners centered on the origin: TL, TR, BL, BR.
var quadCorners = [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {-0.5, 0.5}, {0.5, 0.5}}

// appendInstanceQuad appends 4 vertices and 6 indices for one record.
// Indices are relative to vertex base. Hidden records append nothing.
func appendInstanceQuad(verts []ebiten.Vertex, inds []uint32, rec *SpriteRecord, texW, texH float32, base int) ([]ebiten.Vertex, []uint32) {
	if rec.Layer == LayerHidden {
		return verts, inds
	}
	m := Mat4(rec.Transform)
	first := uint32(len(verts) - base)
	for _, c := range quadCorners {
		dx, dy := m.TransformPoint(c[0], c[1], 0)
		u := rec.UVOffset[0] + (c[0]+0.5)*rec.UVScale[0]
		v := rec.UVOffset[1] + (c[1]+0.5)*rec.UVScale[1]
		verts = append(verts, ebiten.Vertex{
			DstX:   dx,
			DstY:   dy,
			SrcX:   u * texW,
			SrcY:   v * texH,
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		})
	}
	// Two triangles: TL-TR-BL, TR-BR-BL
	inds = append(inds,
		first+0, first+1, first+2,
		first+1, first+3, first+2,
	)
	return verts, inds
}
