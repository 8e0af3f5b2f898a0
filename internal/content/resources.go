package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"tilewalk/internal/gamemap"
	"tilewalk/internal/render"
)

// Duration decodes from a Go duration string ("150ms") or a plain number of
// milliseconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func parseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	var ms float64
	if _, err := fmt.Sscanf(s, "%g", &ms); err == nil && !strings.ContainsAny(s, "hmsuµn") {
		return Duration(ms * float64(time.Millisecond)), nil
	}
	v, err := time.ParseDuration(s)
	return Duration(v), err
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = string(b)
	}
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	v, err := parseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = v
	return nil
}

// Frame is one step of an animation.
type Frame struct {
	TileIndex int            `json:"tileIndex" yaml:"tileIndex"`
	Duration  Duration       `json:"duration" yaml:"duration"`
	Effects   render.Effects `json:"effects" yaml:"effects"`
}

// Animation is a named sequence of frames. Animations loop unless Loop is
// explicitly false.
type Animation struct {
	Name   string  `json:"name" yaml:"name"`
	Loop   *bool   `json:"loop,omitempty" yaml:"loop,omitempty"`
	Frames []Frame `json:"frames" yaml:"frames"`
}

// Loops reports whether the animation wraps around after its last frame.
func (a *Animation) Loops() bool { return a.Loop == nil || *a.Loop }

// Character describes an animated entity: its tileset, the origin its
// sprite is drawn around, and its animations.
type Character struct {
	Origin     mgl64.Vec2      `json:"origin" yaml:"origin"`
	Tileset    gamemap.Tileset `json:"tileset" yaml:"tileset"`
	Animations []Animation     `json:"animations" yaml:"animations"`
}

// Validate implements Validator.
func (c *Character) Validate() error {
	if err := c.Tileset.Validate(); err != nil {
		return err
	}
	if len(c.Animations) == 0 {
		return errors.New("character has no animations")
	}
	seen := make(map[string]bool, len(c.Animations))
	for _, a := range c.Animations {
		if a.Name == "" {
			return errors.New("animation without a name")
		}
		if seen[a.Name] {
			return fmt.Errorf("animation %q defined twice", a.Name)
		}
		seen[a.Name] = true
		if len(a.Frames) == 0 {
			return fmt.Errorf("animation %q has no frames", a.Name)
		}
		for i, f := range a.Frames {
			if f.TileIndex < c.Tileset.FirstIndex {
				return fmt.Errorf("animation %q frame %d: %w", a.Name, i, gamemap.ErrOutOfRange)
			}
			if f.Duration <= 0 {
				return fmt.Errorf("animation %q frame %d has no duration", a.Name, i)
			}
		}
	}
	return nil
}

// Area loads a grid document.
func (m *Manager) Area(name string) (*gamemap.Area, error) {
	return Load[gamemap.Area](m, name)
}

// Character loads a character document.
func (m *Manager) Character(name string) (*Character, error) {
	return Load[Character](m, name)
}

// Texture loads the glyph sheet standing in for an image. The image
// extension is dropped, so "hero.png" resolves to the "hero" document.
func (m *Manager) Texture(image string) (render.Texture, error) {
	name := strings.TrimSuffix(image, path.Ext(image))
	sheet, err := Load[render.GlyphSheet](m, name)
	if err != nil {
		return nil, err
	}
	return sheet, nil
}
