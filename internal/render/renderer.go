package render

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mattn/go-runewidth"
)

// Screen is the terminal Batch. World pixels are mapped to terminal cells
// through a fixed cell size; a 16x16 tile over 8x16 cells covers two
// columns, which is the width of an emoji.
type Screen struct {
	screen    tcell.Screen
	cell      image.Point
	transform mgl64.Mat3
	ops       []queued
	begun     bool
}

type queued struct {
	depth  float64
	sprite *DrawOp
	text   string
	at     image.Point
	style  tcell.Style
}

// NewScreen wraps s. cell is the pixel size of one terminal cell.
func NewScreen(s tcell.Screen, cell image.Point) (*Screen, error) {
	if s == nil {
		return nil, fmt.Errorf("render: nil screen")
	}
	if cell.X <= 0 || cell.Y <= 0 {
		return nil, fmt.Errorf("render: cell size %v must be positive", cell)
	}
	return &Screen{screen: s, cell: cell, transform: mgl64.Ident3()}, nil
}

// Terminal returns the wrapped tcell screen.
func (r *Screen) Terminal() tcell.Screen { return r.screen }

// CellSize returns the pixel size of one terminal cell.
func (r *Screen) CellSize() image.Point { return r.cell }

// Cells returns the terminal size in columns and rows.
func (r *Screen) Cells() image.Point {
	w, h := r.screen.Size()
	return image.Pt(w, h)
}

// Resolution returns the terminal size in pixels.
func (r *Screen) Resolution() image.Point {
	c := r.Cells()
	return image.Pt(c.X*r.cell.X, c.Y*r.cell.Y)
}

// Clear blanks the terminal buffer.
func (r *Screen) Clear() { r.screen.Clear() }

// Show presents the terminal buffer.
func (r *Screen) Show() { r.screen.Show() }

// Begin implements Batch.
func (r *Screen) Begin(transform mgl64.Mat3) {
	r.transform = transform
	r.ops = r.ops[:0]
	r.begun = true
}

// Draw implements Batch.
func (r *Screen) Draw(op DrawOp) {
	if !r.begun || op.Texture == nil {
		return
	}
	r.ops = append(r.ops, queued{depth: op.Depth, sprite: &op})
}

// DrawString implements Batch.
func (r *Screen) DrawString(text string, at image.Point, style tcell.Style, depth float64) {
	if !r.begun {
		return
	}
	r.ops = append(r.ops, queued{depth: depth, text: text, at: at, style: style})
}

// End implements Batch. Ops are written back to front; the first texture
// that cannot be shown as glyphs is reported after the rest are drawn.
func (r *Screen) End() error {
	if !r.begun {
		return fmt.Errorf("render: End without Begin")
	}
	r.begun = false
	sort.SliceStable(r.ops, func(i, j int) bool {
		return r.ops[i].depth > r.ops[j].depth
	})

	var firstErr error
	for _, q := range r.ops {
		if q.sprite == nil {
			r.drawText(q.at.X, q.at.Y, q.text, q.style)
			continue
		}
		if err := r.drawSprite(q.sprite); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.ops = r.ops[:0]
	return firstErr
}

// Project maps a world pixel position to a terminal cell under the current
// transform.
func (r *Screen) Project(p mgl64.Vec2) image.Point {
	v := r.transform.Mul3x1(mgl64.Vec3{p.X(), p.Y(), 1})
	return image.Pt(
		int(math.Floor(v.X()/float64(r.cell.X))),
		int(math.Floor(v.Y()/float64(r.cell.Y))),
	)
}

func (r *Screen) drawSprite(op *DrawOp) error {
	src, ok := op.Texture.(GlyphSource)
	if !ok {
		return fmt.Errorf("%w: %s has no glyphs", ErrInvalidTexture, op.Texture.Name())
	}
	var rect image.Rectangle
	if op.Source != nil {
		rect = *op.Source
	}
	g, ok := src.Glyph(rect, op.Effects)
	if !ok || g.Text == "" {
		return nil
	}
	scale := op.Scale
	if scale == (mgl64.Vec2{}) {
		scale = mgl64.Vec2{1, 1}
	}
	topLeft := op.Position.Sub(mgl64.Vec2{op.Origin.X() * scale.X(), op.Origin.Y() * scale.Y()})
	cell := r.Project(topLeft)

	style := tcell.StyleDefault.Foreground(g.Fg).Background(g.Bg)
	if op.Tint != tcell.ColorDefault && op.Tint != tcell.ColorWhite {
		style = style.Foreground(op.Tint)
	}
	r.putGlyph(cell.X, cell.Y, g.Text, style)
	return nil
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Screen) putGlyph(x, y int, glyph string, style tcell.Style) {
	w, h := r.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) == 2 && x+1 < w {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

func (r *Screen) drawText(x, y int, text string, style tcell.Style) {
	w, h := r.screen.Size()
	if y < 0 || y >= h {
		return
	}
	col := x
	for _, ch := range text {
		if col >= w {
			return
		}
		if col >= 0 {
			r.screen.SetContent(col, y, ch, nil, style)
		}
		col += max(runewidth.RuneWidth(ch), 1)
	}
}

// TextWidth returns the number of terminal columns text occupies.
func TextWidth(text string) int { return runewidth.StringWidth(text) }
