package canopy

import (
	"errors"
	"image"
)

type bufferWrite struct {
	buf    BufferID
	offset int
	n      int
}

type textureWrite struct {
	tex  TextureID
	rect image.Rectangle
}

type fakeDraw struct {
	buf       BufferID
	tex       TextureID
	instances int
	records   []SpriteRecord // buffer contents seen by the draw
}

// fakeDevice records every call for assertions.
type fakeDevice struct {
	nextID    uint32
	buffers   map[BufferID][]SpriteRecord
	writes    []bufferWrite
	texWrites []textureWrite
	passes    []PassOptions
	draws     []fakeDraw
	submits   int
	presents  int

	failDraw    error
	failTexture error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{buffers: make(map[BufferID][]SpriteRecord)}
}

func (d *fakeDevice) CreateBuffer(label string, capacity int) (BufferID, error) {
	d.nextID++
	id := BufferID(d.nextID)
	d.buffers[id] = make([]SpriteRecord, capacity)
	return id, nil
}

func (d *fakeDevice) WriteBuffer(buf BufferID, offset int, records []SpriteRecord) error {
	b, ok := d.buffers[buf]
	if !ok {
		return errors.New("fake: unknown buffer")
	}
	if offset+len(records) > len(b) {
		return errors.New("fake: buffer overflow")
	}
	copy(b[offset:], records)
	d.writes = append(d.writes, bufferWrite{buf, offset, len(records)})
	return nil
}

func (d *fakeDevice) CreateTexture(label string, width, height int) (TextureID, error) {
	d.nextID++
	return TextureID(d.nextID), nil
}

func (d *fakeDevice) WriteTexture(tex TextureID, x, y, w, h int, pix []byte) error {
	if d.failTexture != nil {
		return d.failTexture
	}
	d.texWrites = append(d.texWrites, textureWrite{tex, image.Rect(x, y, x+w, y+h)})
	return nil
}

func (d *fakeDevice) BeginRenderPass(opts PassOptions) (RenderPass, error) {
	d.passes = append(d.passes, opts)
	return fakePass{d}, nil
}

func (d *fakeDevice) Submit() error  { d.submits++; return nil }
func (d *fakeDevice) Present() error { d.presents++; return nil }

type fakePass struct{ d *fakeDevice }

func (p fakePass) Draw(buf BufferID, tex TextureID, instances int) error {
	if p.d.failDraw != nil {
		return p.d.failDraw
	}
	snap := append([]SpriteRecord(nil), p.d.buffers[buf][:instances]...)
	p.d.draws = append(p.d.draws, fakeDraw{buf, tex, instances, snap})
	return nil
}

func (p fakePass) End() error { return nil }
