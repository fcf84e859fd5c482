package canopy

// BufferID names a GPU buffer created by a Device.
type BufferID uint32

// TextureID names a GPU texture created by a Device.
type TextureID uint32

// Device is the narrow GPU surface the renderer needs. Implementations record
// or execute commands; all calls happen on the frame goroutine.
type Device interface {
	// CreateBuffer allocates an instance buffer holding capacity records.
	CreateBuffer(label string, capacity int) (BufferID, error)
	// WriteBuffer copies records into buf starting at record offset.
	WriteBuffer(buf BufferID, offset int, records []SpriteRecord) error
	// CreateTexture allocates an RGBA texture.
	CreateTexture(label string, width, height int) (TextureID, error)
	// WriteTexture uploads RGBA pixels into the region (x, y, w, h) of tex.
	WriteTexture(tex TextureID, x, y, w, h int, pix []byte) error
	// BeginRenderPass starts recording a pass.
	BeginRenderPass(opts PassOptions) (RenderPass, error)
	// Submit hands the passes recorded since the last Submit to the queue.
	// Buffer writes issued before Submit are visible to those passes.
	Submit() error
	// Present shows the submitted frame.
	Present() error
}

// PassOptions configures a render pass. Without Clear the pass loads the
// existing frame contents.
type PassOptions struct {
	Clear      bool
	ClearColor Color
}

// RenderPass records instanced draws.
type RenderPass interface {
	// Draw renders instances quads reading records [0, instances) of buf and
	// sampling tex.
	Draw(buf BufferID, tex TextureID, instances int) error
	End() error
}
