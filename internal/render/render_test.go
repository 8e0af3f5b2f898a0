package render

import (
	"image"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func testSheet(t *testing.T) *GlyphSheet {
	t.Helper()
	s := &GlyphSheet{
		Title:      "hero",
		Columns:    2,
		TileWidth:  16,
		TileHeight: 16,
		Cells: []GlyphCell{
			{Glyph: "A", Fg: "white"},
			{Glyph: "B", Flipped: "b"},
			{Glyph: "C", Inverted: "c", Bg: "#102030"},
		},
	}
	require.NoError(t, s.Validate())
	return s
}

func TestGlyphSheetLookup(t *testing.T) {
	s := testSheet(t)
	require.Equal(t, image.Pt(32, 32), s.Size())

	g, ok := s.Glyph(image.Rect(16, 0, 32, 16), EffectNone)
	require.True(t, ok)
	require.Equal(t, "B", g.Text)

	g, ok = s.Glyph(image.Rect(16, 0, 32, 16), FlipHorizontally)
	require.True(t, ok)
	require.Equal(t, "b", g.Text)

	g, ok = s.Glyph(image.Rect(0, 16, 16, 32), FlipVertically)
	require.True(t, ok)
	require.Equal(t, "c", g.Text)
	require.Equal(t, tcell.GetColor("#102030"), g.Bg)

	g, ok = s.Glyph(image.Rectangle{}, EffectNone)
	require.True(t, ok)
	require.Equal(t, "A", g.Text)
	require.Equal(t, tcell.ColorWhite, g.Fg)

	_, ok = s.Glyph(image.Rect(16, 16, 32, 32), EffectNone)
	require.False(t, ok, "cell past the last one")
}

func TestGlyphSheetValidate(t *testing.T) {
	require.ErrorIs(t, (&GlyphSheet{Title: "x"}).Validate(), ErrInvalidTexture)
	bad := &GlyphSheet{Title: "x", Columns: 1, TileWidth: 1, TileHeight: 1, Cells: []GlyphCell{{Glyph: "x", Fg: "notacolor"}}}
	require.ErrorIs(t, bad.Validate(), ErrInvalidTexture)
}

func TestEffectsText(t *testing.T) {
	var e Effects
	require.NoError(t, e.UnmarshalText([]byte("flipHorizontally|flipvertically")))
	require.Equal(t, FlipHorizontally|FlipVertically, e)
	require.NoError(t, e.UnmarshalText([]byte("none")))
	require.Equal(t, EffectNone, e)
	require.Error(t, e.UnmarshalText([]byte("spin")))
	require.Equal(t, "flipHorizontally", FlipHorizontally.String())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("")
	require.NoError(t, err)
	require.Equal(t, tcell.ColorDefault, c)

	c, err = ParseColor("Red")
	require.NoError(t, err)
	require.Equal(t, tcell.ColorRed, c)

	_, err = ParseColor("nope")
	require.Error(t, err)
}

func newSimScreen(t *testing.T, w, h int) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(w, h)
	t.Cleanup(sim.Fini)
	s, err := NewScreen(sim, image.Pt(8, 16))
	require.NoError(t, err)
	return s, sim
}

func TestScreenDepthOrder(t *testing.T) {
	s, sim := newSimScreen(t, 20, 5)
	sheet := testSheet(t)

	far := image.Rect(0, 0, 16, 16)
	near := image.Rect(16, 0, 32, 16)

	s.Begin(mgl64.Ident3())
	s.Draw(DrawOp{Texture: sheet, Position: mgl64.Vec2{16, 16}, Source: &near, Depth: 0.1})
	s.Draw(DrawOp{Texture: sheet, Position: mgl64.Vec2{16, 16}, Source: &far, Depth: 0.9})
	require.NoError(t, s.End())

	r, _, _, _ := sim.GetContent(2, 1)
	require.Equal(t, 'B', r, "nearer op must be written last")
}

func TestScreenDrawString(t *testing.T) {
	s, sim := newSimScreen(t, 20, 5)
	s.Begin(mgl64.Translate2D(100, 100))
	s.DrawString("hi", image.Pt(3, 2), tcell.StyleDefault, 0)
	require.NoError(t, s.End())

	r, _, _, _ := sim.GetContent(3, 2)
	require.Equal(t, 'h', r)
	r, _, _, _ = sim.GetContent(4, 2)
	require.Equal(t, 'i', r)
}

type plainTexture struct{}

func (plainTexture) Name() string      { return "plain" }
func (plainTexture) Size() image.Point { return image.Pt(1, 1) }

func TestScreenRejectsNonGlyphTexture(t *testing.T) {
	s, _ := newSimScreen(t, 4, 4)
	s.Begin(mgl64.Ident3())
	s.Draw(DrawOp{Texture: plainTexture{}})
	require.ErrorIs(t, s.End(), ErrInvalidTexture)
	require.Error(t, s.End(), "End without Begin")
}

func TestCameraTransform(t *testing.T) {
	c := NewCamera(image.Pt(160, 80))
	c.Center(mgl64.Vec2{50, 40})

	got := c.WorldToScreen(mgl64.Vec2{50, 40})
	require.InDelta(t, 80, got.X(), 1e-9)
	require.InDelta(t, 40, got.Y(), 1e-9)

	back := c.ScreenToWorld(got)
	require.InDelta(t, 50, back.X(), 1e-9)
	require.InDelta(t, 40, back.Y(), 1e-9)

	require.Equal(t, image.Rect(-30, 0, 130, 80), c.Bounds())

	c.Zoom = 2
	require.Equal(t, image.Rect(10, 20, 90, 60), c.Bounds())
}

type fixedFocus mgl64.Vec2

func (f fixedFocus) FocusPosition() mgl64.Vec2 { return mgl64.Vec2(f) }

func TestCameraFollowsFocus(t *testing.T) {
	c := NewCamera(image.Pt(100, 100))
	c.MoveSpeed = 2
	c.Focus = fixedFocus{100, 0}

	c.Update(250 * time.Millisecond)
	require.InDelta(t, 50, c.Position.X(), 1e-9)

	c.Update(time.Second)
	require.InDelta(t, 100, c.Position.X(), 1e-9, "step is clamped to the full distance")
}
