package component

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tilewalk/internal/command"
	"tilewalk/internal/content"
	"tilewalk/internal/gamemap"
)

func frames(n int) []content.Frame {
	out := make([]content.Frame, n)
	for i := range out {
		out[i] = content.Frame{TileIndex: 10 + i, Duration: content.Duration(100 * time.Millisecond)}
	}
	return out
}

func testAnimations() []content.Animation {
	hold := false
	return []content.Animation{
		{Name: "IdleDown", Frames: frames(2)},
		{Name: "WalkDown", Frames: frames(3)},
		{Name: "Fish", Loop: &hold, Frames: frames(2)},
	}
}

func TestAnimationSetName(t *testing.T) {
	a, err := NewAnimation(testAnimations())
	require.NoError(t, err)
	require.Equal(t, "IdleDown", a.Name())

	require.NoError(t, a.SetIndex(1))
	require.True(t, a.SetName("IdleDown"))
	require.Equal(t, 1, a.Index(), "same name keeps the frame")

	require.True(t, a.SetName("WalkDown"))
	require.Equal(t, 0, a.Index(), "new name restarts")
	require.Equal(t, 10, a.Frame().TileIndex)

	require.NoError(t, a.SetIndex(2))
	require.False(t, a.SetName("Dance"))
	require.Equal(t, "WalkDown", a.Name())
	require.Equal(t, 2, a.Index())
}

func TestAnimationSetNameIdempotent(t *testing.T) {
	names := []string{"IdleDown", "WalkDown", "Fish"}
	for _, from := range names {
		for _, to := range names {
			a, err := NewAnimation(testAnimations())
			require.NoError(t, err)
			require.True(t, a.SetName(from))
			a.NextFrame()
			before := a.Index()
			require.True(t, a.SetName(to))
			if from == to {
				require.Equal(t, before, a.Index())
			} else {
				require.Equal(t, 0, a.Index())
			}
		}
	}
}

func TestAnimationNextFrame(t *testing.T) {
	a, err := NewAnimation(testAnimations())
	require.NoError(t, err)

	a.SetName("WalkDown")
	var seen []int
	for range 4 {
		a.NextFrame()
		seen = append(seen, a.Index())
	}
	require.Equal(t, []int{1, 2, 0, 1}, seen, "looping animations wrap")

	a.SetName("Fish")
	a.NextFrame()
	a.NextFrame()
	a.NextFrame()
	require.Equal(t, 1, a.Index(), "non-looping animations hold the last frame")

	require.Error(t, a.SetIndex(2))
}

func TestNewAnimationRejectsEmpty(t *testing.T) {
	_, err := NewAnimation(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewAnimation([]content.Animation{{Name: "x"}})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRequiredCollaborators(t *testing.T) {
	_, err := NewTexture(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewControl(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewTile(nil, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewArea(nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestControlForwards(t *testing.T) {
	c, err := NewControl(command.SourceFunc(func(cmd command.Command) bool { return cmd == command.WalkUp }))
	require.NoError(t, err)
	require.True(t, c.IsCommandActivated(command.WalkUp))
	require.False(t, c.IsCommandActivated(command.RunUp))
}

func TestTilesetSource(t *testing.T) {
	ts := NewTileset(gamemap.Tileset{Columns: 4, TileWidth: 16, TileHeight: 16, FirstIndex: 1})
	require.Equal(t, 1, ts.Index)
	ts.Index = 6
	src, err := ts.Source()
	require.NoError(t, err)
	require.Equal(t, image.Rect(16, 16, 32, 32), src)

	ts.Index = 0
	_, err = ts.Source()
	require.ErrorIs(t, err, gamemap.ErrOutOfRange)
}

func TestNewTile(t *testing.T) {
	m, err := gamemap.NewMap(&gamemap.Area{Width: 3, Height: 3, TileWidth: 16, TileHeight: 16})
	require.NoError(t, err)

	tile, err := NewTile(m, 4)
	require.NoError(t, err)
	require.Equal(t, TileIdling, tile.State)
	require.Equal(t, image.Pt(16, 16), tile.Offset())

	_, err = NewTile(m, 9)
	require.ErrorIs(t, err, gamemap.ErrOutOfRange)
}

func TestTileStateVerb(t *testing.T) {
	require.Equal(t, "Idle", TileIdling.Verb())
	require.Equal(t, "Walk", TileMoving.Verb())
	require.Equal(t, "Run", TileRunning.Verb())
	require.Equal(t, "Fish", TileFishing.Verb())
	require.Panics(t, func() { _ = TileState(42).Verb() })
	require.True(t, TileRunning.IsMoving())
	require.False(t, TileFishing.IsMoving())
}

func TestVelocityStep(t *testing.T) {
	v := &Velocity{Speed: 0.05, Angle: 90}
	step := v.Step(100)
	require.InDelta(t, 0, step.X(), 1e-9)
	require.InDelta(t, 5, step.Y(), 1e-9)
	require.True(t, v.IsMoving())
	require.False(t, (&Velocity{}).IsMoving())

	tr := &Transform{Rotation: 180}
	require.InDelta(t, math.Pi, tr.RotationRadians(), 1e-12)
}

func TestNewSpriteDefaults(t *testing.T) {
	s := NewSprite()
	require.Equal(t, 1.0, s.Scale.X())
	require.Equal(t, 1.0, s.Scale.Y())
	require.Nil(t, s.Source)
}
