package canopy

import (
	"errors"
	"image/color"
	"testing"
)

func newTestAtlas(t *testing.T, w, h int, sizes map[string][2]int) (*Atlas, *fakeDevice) {
	t.Helper()
	bm := NewBitmaps()
	for k, s := range sizes {
		bm.Add(k, solidImage(s[0], s[1], color.RGBA{R: 10, A: 255}))
	}
	dev := newFakeDevice()
	a, err := NewAtlas(dev, bm, w, h)
	if err != nil {
		t.Fatal(err)
	}
	return a, dev
}

func TestAtlasSameKeyUploadsOnce(t *testing.T) {
	a, dev := newTestAtlas(t, 128, 128, map[string][2]int{"leaf": {16, 8}})
	base := len(dev.texWrites) // placeholder upload

	r1, isNew, err := a.AllocateOrGet("leaf")
	if err != nil || !isNew {
		t.Fatalf("first call: new=%v err=%v", isNew, err)
	}
	r2, isNew, err := a.AllocateOrGet("leaf")
	if err != nil || isNew {
		t.Fatalf("second call: new=%v err=%v", isNew, err)
	}
	if r1 != r2 {
		t.Errorf("regions differ: %v vs %v", r1, r2)
	}
	if got := len(dev.texWrites) - base; got != 1 {
		t.Errorf("uploads = %d, want 1", got)
	}
	if a.Uploads() != 1 || a.Len() != 1 {
		t.Errorf("Uploads=%d Len=%d", a.Uploads(), a.Len())
	}
	if r1.Rect.Dx() != 16 || r1.Rect.Dy() != 8 {
		t.Errorf("rect size = %v", r1.Rect)
	}
}

func TestAtlasDistinctKeysDoNotOverlap(t *testing.T) {
	a, _ := newTestAtlas(t, 128, 128, map[string][2]int{"a": {40, 30}, "b": {20, 50}, "c": {64, 64}})
	var regions []AtlasRegion
	for _, k := range []string{"a", "b", "c"} {
		r, _, err := a.AllocateOrGet(k)
		if err != nil {
			t.Fatal(err)
		}
		regions = append(regions, r)
	}
	regions = append(regions, a.Placeholder())
	for i := range regions {
		for j := i + 1; j < len(regions); j++ {
			if regions[i].Rect.Overlaps(regions[j].Rect) {
				t.Errorf("%v overlaps %v", regions[i].Rect, regions[j].Rect)
			}
		}
	}
}

func TestAtlasAllocationFailure(t *testing.T) {
	a, dev := newTestAtlas(t, 64, 64, map[string][2]int{"big": {90, 90}})
	base := len(dev.texWrites)
	_, _, err := a.AllocateOrGet("big")
	if !errors.Is(err, ErrAllocationFailed) {
		t.Fatalf("err = %v, want ErrAllocationFailed", err)
	}
	var ae *AllocationError
	if !errors.As(err, &ae) || ae.Key != "big" || ae.Width != 90 || ae.AtlasW != 64 {
		t.Errorf("AllocationError = %+v", ae)
	}
	if len(dev.texWrites) != base || a.Len() != 0 {
		t.Error("failed allocation should not upload or cache")
	}
}

func TestAtlasUnknownTexture(t *testing.T) {
	a, _ := newTestAtlas(t, 64, 64, nil)
	if _, _, err := a.AllocateOrGet("ghost"); !errors.Is(err, ErrUnknownTexture) {
		t.Errorf("err = %v, want ErrUnknownTexture", err)
	}
}

func TestAtlasUV(t *testing.T) {
	a, _ := newTestAtlas(t, 100, 200, nil)
	r := AtlasRegion{}
	r.Rect.Min.X, r.Rect.Min.Y = 10, 50
	r.Rect.Max.X, r.Rect.Max.Y = 35, 150
	off, scale := a.UV(r)
	if off != (Vec2{0.1, 0.25}) || scale != (Vec2{0.25, 0.5}) {
		t.Errorf("UV = %v %v", off, scale)
	}
}

func TestAtlasPlaceholderReserved(t *testing.T) {
	a, dev := newTestAtlas(t, 32, 32, nil)
	p := a.Placeholder()
	if p.Rect.Dx() != 1 || p.Rect.Dy() != 1 {
		t.Errorf("placeholder = %v", p.Rect)
	}
	if len(dev.texWrites) != 1 {
		t.Errorf("placeholder uploads = %d, want 1", len(dev.texWrites))
	}
	if a.FreeArea() != 32*32-1 {
		t.Errorf("FreeArea = %d", a.FreeArea())
	}
}

func TestNewAtlasRejectsEmptySize(t *testing.T) {
	if _, err := NewAtlas(newFakeDevice(), NewBitmaps(), 0, 10); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}

func TestAtlasUploadFailureKeepsRectangle(t *testing.T) {
	a, dev := newTestAtlas(t, 64, 64, map[string][2]int{"leaf": {16, 16}})
	lost := errors.New("device lost")
	dev.failTexture = lost
	used := a.FreeArea()

	for i := 0; i < 3; i++ {
		if _, _, err := a.AllocateOrGet("leaf"); !errors.Is(err, lost) {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}
	if got := used - a.FreeArea(); got != 16*16 {
		t.Errorf("retries consumed %d px, want %d", got, 16*16)
	}

	dev.failTexture = nil
	r, isNew, err := a.AllocateOrGet("leaf")
	if err != nil || !isNew {
		t.Fatalf("retry: new=%v err=%v", isNew, err)
	}
	if got := used - a.FreeArea(); got != 16*16 {
		t.Errorf("atlas used %d px after success, want %d", got, 16*16)
	}
	if last := dev.texWrites[len(dev.texWrites)-1].rect; last != r.Rect {
		t.Errorf("uploaded to %v, region %v", last, r.Rect)
	}
	if a.Uploads() != 1 {
		t.Errorf("Uploads = %d, want 1", a.Uploads())
	}
}
