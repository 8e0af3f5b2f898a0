package content

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tilewalk/internal/gamemap"
	"tilewalk/internal/render"
)

const areaJSON = `{
  "width": 2, "height": 2, "tileWidth": 16, "tileHeight": 16,
  "layers": [{"name": "ground", "data": [1, 2, 2, 1], "opacity": 1}],
  "tilesets": [{"name": "tiles", "image": "tiles.png", "columns": 2, "tileWidth": 16, "tileHeight": 16, "firstIndex": 1}],
  "properties": {"musicTheme": "meadow"}
}`

const characterYAML = `
origin: [8, 8]
tileset:
  name: hero
  image: hero.png
  columns: 4
  tileWidth: 16
  tileHeight: 16
animations:
  - name: IdleDown
    frames:
      - {tileIndex: 0, duration: 500ms}
  - name: WalkDown
    loop: false
    frames:
      - {tileIndex: 1, duration: 120}
      - {tileIndex: 2, duration: 120ms, effects: flipHorizontally}
`

const sheetYAML = `
name: tiles
columns: 2
tileWidth: 16
tileHeight: 16
cells:
  - {glyph: "🟩"}
  - {glyph: "🌲", fg: green}
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"areas/meadow/area.json":      {Data: []byte(areaJSON)},
		"areas/meadow/tiles.yaml":     {Data: []byte(sheetYAML)},
		"characters/hero.yaml":        {Data: []byte(characterYAML)},
		"characters/broken.json":      {Data: []byte(`{"origin": [0, 0], "tileset": {"columns": 0}}`)},
		"characters/garbage.yml":      {Data: []byte("origin: [1, 2\n")},
		"characters/unknown.json":     {Data: []byte(`{"colour": "red"}`)},
		"areas/explicit/area.yaml":    {Data: []byte("width: 1\nheight: 1\ntileWidth: 8\ntileHeight: 8\n")},
		"areas/explicit/area.json":    {Data: []byte(`{"width": 3}`)},
	}
}

func TestLoadArea(t *testing.T) {
	m := NewManager(testFS(), "areas/meadow", zap.NewNop())
	a, err := m.Area("area")
	require.NoError(t, err)
	require.Equal(t, 2, a.Width)
	require.Equal(t, "meadow", a.Properties.MusicTheme)
	require.Len(t, a.Layers, 1)

	tex, err := m.Texture(a.Tilesets[0].Image)
	require.NoError(t, err)
	require.Equal(t, "tiles", tex.Name())

	again, err := m.Area("area")
	require.NoError(t, err)
	require.Same(t, a, again, "second load is served from the cache")
	require.Equal(t, 2, m.Cached())

	m.Unload()
	require.Equal(t, 0, m.Cached())
	fresh, err := m.Area("area")
	require.NoError(t, err)
	require.NotSame(t, a, fresh)
}

func TestLoadCharacterYAML(t *testing.T) {
	m := NewManager(testFS(), "characters", nil)
	c, err := m.Character("hero")
	require.NoError(t, err)
	require.Equal(t, 8.0, c.Origin.X())
	require.Len(t, c.Animations, 2)

	idle := c.Animations[0]
	require.True(t, idle.Loops())
	require.Equal(t, 500*time.Millisecond, idle.Frames[0].Duration.Std())

	walk := c.Animations[1]
	require.False(t, walk.Loops())
	require.Equal(t, 120*time.Millisecond, walk.Frames[0].Duration.Std())
	require.Equal(t, render.FlipHorizontally, walk.Frames[1].Effects)
}

func TestLoadErrors(t *testing.T) {
	m := NewManager(testFS(), "characters", nil)

	_, err := m.Character("ghost")
	require.ErrorIs(t, err, ErrMissing)

	_, err = m.Character("broken")
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorIs(t, err, gamemap.ErrInvalid)

	_, err = m.Character("garbage")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = m.Character("unknown")
	require.ErrorIs(t, err, ErrInvalid, "unknown fields are rejected")

	_, err = m.Character("")
	require.ErrorIs(t, err, ErrMissing)
}

func TestExtensionOrder(t *testing.T) {
	m := NewManager(testFS(), "", nil)
	explicit := m.Allocate("areas/explicit")
	require.Equal(t, "areas/explicit", explicit.Root())

	_, err := explicit.Area("area")
	require.ErrorIs(t, err, ErrInvalid, "json is tried first and has a zero height")

	a, err := explicit.Area("area.yaml")
	require.NoError(t, err)
	require.Equal(t, 1, a.Width)
}

func TestDurationParsing(t *testing.T) {
	cases := map[string]time.Duration{
		"150":   150 * time.Millisecond,
		"2.5":   2500 * time.Microsecond,
		"1s":    time.Second,
		"250ms": 250 * time.Millisecond,
	}
	for in, want := range cases {
		got, err := parseDuration(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got.Std(), in)
	}
	_, err := parseDuration("soon")
	require.Error(t, err)
}
