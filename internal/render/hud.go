package render

import (
	"image"
	"strings"
)

// DrawStatus queues a separator and up to len(lines) status rows at the
// bottom of a terminal of size cells.
func DrawStatus(b Batch, cells image.Point, lines []string, p Palette, depth float64) {
	top := cells.Y - len(lines) - 1
	if top < 0 {
		return
	}
	b.DrawString(strings.Repeat("─", cells.X), image.Pt(0, top), p.Border, depth)
	for i, line := range lines {
		b.DrawString(line, image.Pt(0, top+1+i), p.Status, depth)
	}
}

// DrawPanel queues a framed box centered on a terminal of size cells, with a
// title row and body lines. The box is filled so it hides what lies beneath.
func DrawPanel(b Batch, cells image.Point, title string, lines []string, p Palette, depth float64) {
	inner := TextWidth(title)
	for _, l := range lines {
		inner = max(inner, TextWidth(l))
	}
	w, h := inner+4, len(lines)+4
	x, y := (cells.X-w)/2, (cells.Y-h)/2

	fill := strings.Repeat(" ", w-2)
	b.DrawString("┌"+strings.Repeat("─", w-2)+"┐", image.Pt(x, y), p.Border, depth)
	for row := 1; row < h-1; row++ {
		b.DrawString("│"+fill+"│", image.Pt(x, y+row), p.Border, depth)
	}
	b.DrawString("└"+strings.Repeat("─", w-2)+"┘", image.Pt(x, y+h-1), p.Border, depth)

	// Text is queued slightly in front of the frame.
	front := depth - 0.001
	b.DrawString(title, image.Pt(x+(w-TextWidth(title))/2, y+1), p.Title, front)
	for i, l := range lines {
		b.DrawString(l, image.Pt(x+2, y+3+i), p.Prompt, front)
	}
}

// CenterText returns the column at which text is horizontally centered.
func CenterText(cells image.Point, text string) int {
	return (cells.X - TextWidth(text)) / 2
}
