package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// ErrSnapshotFormat is returned for a snapshot path that is neither .webp
// nor .png.
var ErrSnapshotFormat = errors.New("render: unsupported snapshot format")

// ToImage copies the framebuffer into an image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		copy(img.Pix[y*img.Stride:], rgbaBytes(fb.Pixels[y*fb.Width:(y+1)*fb.Width]))
	}
	return img
}

func rgbaBytes(row []Color) []byte {
	out := make([]byte, 0, 4*len(row))
	for _, c := range row {
		out = append(out, c.R, c.G, c.B, c.A)
	}
	return out
}

// Snapshot returns the framebuffer enlarged scale times with hard pixel
// edges.
func (fb *Framebuffer) Snapshot(scale int) *image.RGBA {
	src := fb.ToImage()
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*scale, fb.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Save writes a scaled snapshot to path, encoded by extension: lossless
// WebP for .webp, PNG for .png.
func (fb *Framebuffer) Save(path string, scale int) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		encode = func(w io.Writer, img image.Image) error { return nativewebp.Encode(w, img, nil) }
	case ".png":
		encode = png.Encode
	default:
		return fmt.Errorf("%w: %s", ErrSnapshotFormat, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := encode(f, fb.Snapshot(scale)); err != nil {
		f.Close()
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return f.Close()
}
