package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseColor resolves a color name ("white", "#ff8800", "darkgreen") to a
// tcell color. The empty string and "default" keep the terminal default.
func ParseColor(name string) (tcell.Color, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" || name == "default" {
		return tcell.ColorDefault, nil
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return tcell.ColorDefault, fmt.Errorf("render: unknown color %q", name)
	}
	return c, nil
}

// Palette holds the text styles used by the menus and overlays.
// Emoji glyphs carry their own colors, so only text is styled here.
type Palette struct {
	Title  tcell.Style
	Prompt tcell.Style
	Hint   tcell.Style
	Status tcell.Style
	Border tcell.Style
	Panel  tcell.Style
}

// DefaultPalette is used when no other palette is configured.
var DefaultPalette = Palette{
	Title:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	Prompt: tcell.StyleDefault.Foreground(tcell.ColorWhite),
	Hint:   tcell.StyleDefault.Foreground(tcell.ColorGray),
	Status: tcell.StyleDefault.Foreground(tcell.ColorLightYellow),
	Border: tcell.StyleDefault.Foreground(tcell.ColorGray),
	Panel:  tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite),
}
