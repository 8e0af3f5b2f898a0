package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
)

// ErrInvalidTexture is returned when a texture document cannot be used.
var ErrInvalidTexture = errors.New("render: invalid texture")

// Texture is a loaded image resource. Backends decide how to present it.
type Texture interface {
	Name() string
	// Size is the pixel size of the whole image.
	Size() image.Point
}

// Glyph is what a terminal cell shows for one tile of a texture.
type Glyph struct {
	Text string
	Fg   tcell.Color
	Bg   tcell.Color
}

// GlyphSource is implemented by textures the terminal backend can draw.
type GlyphSource interface {
	Glyph(src image.Rectangle, effects Effects) (Glyph, bool)
}

// GlyphCell is one tile of a GlyphSheet.
type GlyphCell struct {
	Glyph string `json:"glyph" yaml:"glyph"`
	Fg    string `json:"fg,omitempty" yaml:"fg,omitempty"`
	Bg    string `json:"bg,omitempty" yaml:"bg,omitempty"`
	// Flipped replaces Glyph when the sprite is mirrored horizontally.
	Flipped string `json:"flipped,omitempty" yaml:"flipped,omitempty"`
	// Inverted replaces Glyph when the sprite is mirrored vertically.
	Inverted string `json:"inverted,omitempty" yaml:"inverted,omitempty"`

	fg, bg tcell.Color
}

// GlyphSheet is a texture whose tiles are terminal glyphs. Its geometry
// mirrors a tileset image so source rectangles map back to cells.
type GlyphSheet struct {
	Title      string      `json:"name" yaml:"name"`
	Columns    int         `json:"columns" yaml:"columns"`
	TileWidth  int         `json:"tileWidth" yaml:"tileWidth"`
	TileHeight int         `json:"tileHeight" yaml:"tileHeight"`
	Margin     int         `json:"margin" yaml:"margin"`
	Spacing    int         `json:"spacing" yaml:"spacing"`
	Cells      []GlyphCell `json:"cells" yaml:"cells"`
}

// Validate checks the geometry and resolves cell colors. It must be called
// before the sheet is drawn.
func (s *GlyphSheet) Validate() error {
	if s.Columns <= 0 || s.TileWidth <= 0 || s.TileHeight <= 0 {
		return fmt.Errorf("%w: sheet %q geometry %d columns of %dx%d", ErrInvalidTexture, s.Title, s.Columns, s.TileWidth, s.TileHeight)
	}
	if len(s.Cells) == 0 {
		return fmt.Errorf("%w: sheet %q has no cells", ErrInvalidTexture, s.Title)
	}
	for i := range s.Cells {
		c := &s.Cells[i]
		var err error
		if c.fg, err = ParseColor(c.Fg); err != nil {
			return fmt.Errorf("%w: sheet %q cell %d: %v", ErrInvalidTexture, s.Title, i, err)
		}
		if c.bg, err = ParseColor(c.Bg); err != nil {
			return fmt.Errorf("%w: sheet %q cell %d: %v", ErrInvalidTexture, s.Title, i, err)
		}
	}
	return nil
}

// Name implements Texture.
func (s *GlyphSheet) Name() string { return s.Title }

// Size implements Texture.
func (s *GlyphSheet) Size() image.Point {
	rows := (len(s.Cells) + s.Columns - 1) / s.Columns
	return image.Pt(
		2*s.Margin+s.Columns*s.TileWidth+(s.Columns-1)*s.Spacing,
		2*s.Margin+rows*s.TileHeight+max(rows-1, 0)*s.Spacing,
	)
}

// CellAt maps a source rectangle to the index of the cell it starts in.
func (s *GlyphSheet) CellAt(src image.Rectangle) (int, bool) {
	x, y := src.Min.X-s.Margin, src.Min.Y-s.Margin
	if x < 0 || y < 0 {
		return 0, false
	}
	col := x / (s.TileWidth + s.Spacing)
	row := y / (s.TileHeight + s.Spacing)
	if col >= s.Columns {
		return 0, false
	}
	i := row*s.Columns + col
	if i >= len(s.Cells) {
		return 0, false
	}
	return i, true
}

// Glyph implements GlyphSource. A zero source rectangle selects the first
// cell, matching a draw of the whole texture.
func (s *GlyphSheet) Glyph(src image.Rectangle, effects Effects) (Glyph, bool) {
	i := 0
	if !src.Empty() {
		var ok bool
		if i, ok = s.CellAt(src); !ok {
			return Glyph{}, false
		}
	}
	c := s.Cells[i]
	text := c.Glyph
	if effects&FlipHorizontally != 0 && c.Flipped != "" {
		text = c.Flipped
	}
	if effects&FlipVertically != 0 && c.Inverted != "" {
		text = c.Inverted
	}
	return Glyph{Text: text, Fg: c.fg, Bg: c.bg}, true
}
