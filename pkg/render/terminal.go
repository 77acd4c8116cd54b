package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Screen is a cell surface that can push its contents to the terminal.
// *uv.Terminal satisfies it.
type Screen interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents a framebuffer and text overlays on a Screen.
type TerminalRenderer struct {
	scr        Screen
	cols, rows int
}

// NewTerminalRenderer creates a renderer for a cols x rows screen.
func NewTerminalRenderer(scr Screen, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, cols: max(cols, 1), rows: max(rows, 1)}
}

// Size returns the screen size in cells.
func (t *TerminalRenderer) Size() (cols, rows int) {
	return t.cols, t.rows
}

// FramebufferSize returns the pixel size matching the screen: one pixel per
// column, two per row.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Render copies fb onto the screen.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.scr, uv.Rect(0, 0, t.cols, t.rows))
}

// Text writes s starting at (col, row), clipped to the screen width.
func (t *TerminalRenderer) Text(col, row int, s string, fg, bg color.Color) {
	if row < 0 || row >= t.rows {
		return
	}
	for _, r := range s {
		if col >= t.cols {
			return
		}
		if col >= 0 {
			t.scr.SetCell(col, row, &uv.Cell{
				Content: string(r),
				Width:   1,
				Style:   uv.Style{Fg: fg, Bg: bg},
			})
		}
		col++
	}
}

// Flush displays everything drawn since the last flush.
func (t *TerminalRenderer) Flush() error {
	return t.scr.Display()
}

// Draw writes the framebuffer into area of scr using upper half blocks:
// the foreground is the top pixel and the background the bottom one.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top, bottom := row*2, row*2+1
		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(col, top)),
					Bg: cellColor(fb.GetPixel(col, bottom)),
				},
			})
		}
	}
}

// cellColor maps transparent pixels to the terminal default.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
