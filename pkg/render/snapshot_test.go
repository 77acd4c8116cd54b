package render

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
)

func snapshotFixture() *Framebuffer {
	fb := NewFramebuffer(4, 4)
	fb.Clear(RGB(10, 20, 30))
	fb.DrawLine(0, 0, 3, 3, RGB(255, 255, 255))
	return fb
}

func TestToImage(t *testing.T) {
	img := snapshotFixture().ToImage()
	if got := img.RGBAAt(2, 2); got != RGB(255, 255, 255) {
		t.Errorf("diagonal pixel = %v", got)
	}
	if got := img.RGBAAt(3, 0); got != RGB(10, 20, 30) {
		t.Errorf("background pixel = %v", got)
	}
}

func TestSnapshotScale(t *testing.T) {
	fb := snapshotFixture()

	img := fb.Snapshot(3)
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 12 {
		t.Fatalf("bounds = %v, want 12x12", b)
	}
	// Each source pixel becomes a 3x3 block.
	for _, p := range [][2]int{{3, 3}, {5, 5}, {4, 3}} {
		if got := img.RGBAAt(p[0], p[1]); got != RGB(255, 255, 255) {
			t.Errorf("pixel %v = %v, want white", p, got)
		}
	}
	if got := img.RGBAAt(9, 0); got != RGB(10, 20, 30) {
		t.Errorf("pixel (9,0) = %v, want background", got)
	}

	if b := fb.Snapshot(0).Bounds(); b.Dx() != 4 {
		t.Errorf("scale 0 bounds = %v, want unscaled", b)
	}
}

func TestSaveWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.webp")
	if err := snapshotFixture().Save(path, 2); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := nativewebp.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("bounds = %v, want 8x8", b)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("pixel (0,0) = %v, want white", img.At(0, 0))
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.PNG")
	if err := snapshotFixture().Save(path, 1); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 4 || cfg.Height != 4 {
		t.Errorf("size = %dx%d, want 4x4", cfg.Width, cfg.Height)
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	err := snapshotFixture().Save(filepath.Join(t.TempDir(), "frame.bmp"), 1)
	if !errors.Is(err, ErrSnapshotFormat) {
		t.Errorf("err = %v, want ErrSnapshotFormat", err)
	}
}
