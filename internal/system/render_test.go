package system

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"tilewalk/internal/command"
	"tilewalk/internal/component"
	"tilewalk/internal/content"
	"tilewalk/internal/ecs"
	"tilewalk/internal/gamemap"
	"tilewalk/internal/render"
)

type recordBatch struct {
	ops []render.DrawOp
}

func (b *recordBatch) Begin(mgl64.Mat3) {}

func (b *recordBatch) Draw(op render.DrawOp) { b.ops = append(b.ops, op) }

func (b *recordBatch) DrawString(string, image.Point, tcell.Style, float64) {}

func (b *recordBatch) End() error { return nil }

type fixedCamera image.Rectangle

func (c fixedCamera) Transform() mgl64.Mat3   { return mgl64.Ident3() }
func (c fixedCamera) Bounds() image.Rectangle { return image.Rectangle(c) }

type sheet string

func (s sheet) Name() string      { return string(s) }
func (s sheet) Size() image.Point { return image.Pt(64, 64) }

func renderArea(t *testing.T) *component.Area {
	t.Helper()
	a := &gamemap.Area{
		Width: 4, Height: 3, TileWidth: 16, TileHeight: 16,
		Layers: []gamemap.Layer{
			{Name: "ground", Data: []int{1, 2, 0, 4, 5, 6, 7, 8, 9, 10, 11, 12}, Opacity: 1},
			{Name: "meta", Data: make([]int, 12), Properties: gamemap.LayerProps{IsMeta: true}},
			{Name: "top", Data: []int{0, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, Opacity: 1},
		},
		Tilesets: []gamemap.Tileset{
			{Name: "ground", Columns: 4, TileWidth: 16, TileHeight: 16, FirstIndex: 1, TileCount: 16},
			{Name: "meta", Columns: 1, TileWidth: 16, TileHeight: 16, FirstIndex: 100, TileCount: 1,
				Properties: gamemap.TilesetProps{IsMeta: true}},
		},
	}
	for i := range a.Layers[1].Data {
		a.Layers[1].Data[i] = 100
	}
	m, err := gamemap.NewMap(a)
	if err != nil {
		t.Fatal(err)
	}
	area, err := component.NewArea(m, []render.Texture{sheet("ground"), nil})
	if err != nil {
		t.Fatal(err)
	}
	return area
}

func areaWorld(t *testing.T, sys ecs.System) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	id := w.CreateEntity()
	w.Add(id, renderArea(t))
	w.Add(id, &component.Transform{})
	w.Refresh(id)
	w.AddSystem(ecs.PhaseDraw, sys)
	return w
}

func TestAreaRenderCullsToCamera(t *testing.T) {
	b := &recordBatch{}
	w := areaWorld(t, NewAreaRender(b, fixedCamera(image.Rect(20, 4, 40, 10))))
	w.Draw(frame)

	// Cells (1,0) and (2,0) are visible; ground (2,0) is empty and the top
	// layer only covers (1,0).
	if len(b.ops) != 2 {
		t.Fatalf("got %d draws, want 2", len(b.ops))
	}
	ground, top := b.ops[0], b.ops[1]
	if ground.Position != (mgl64.Vec2{16, 0}) || top.Position != (mgl64.Vec2{16, 0}) {
		t.Fatalf("positions %v %v", ground.Position, top.Position)
	}
	if ground.Depth != 1 {
		t.Errorf("ground depth=%v, want 1", ground.Depth)
	}
	if want := 1.0 / 3; math.Abs(top.Depth-want) > 1e-12 {
		t.Errorf("top depth=%v, want %v", top.Depth, want)
	}
	if *ground.Source != image.Rect(16, 0, 32, 16) {
		t.Errorf("ground source=%v", *ground.Source)
	}
	if *top.Source != image.Rect(32, 0, 48, 16) {
		t.Errorf("top source=%v", *top.Source)
	}
}

func TestAreaRenderWholeAreaAndOffscreen(t *testing.T) {
	b := &recordBatch{}
	w := areaWorld(t, NewAreaRender(b, fixedCamera(image.Rect(-100, -100, 500, 500))))
	w.Draw(frame)
	if len(b.ops) != 12 {
		t.Fatalf("got %d draws, want 11 ground + 1 top", len(b.ops))
	}
	for _, op := range b.ops {
		if op.Texture.Name() != "ground" {
			t.Fatalf("meta layer drawn: %+v", op)
		}
	}

	b.ops = nil
	w = areaWorld(t, NewAreaRender(b, fixedCamera(image.Rect(64, 0, 128, 48))))
	w.Draw(frame)
	if len(b.ops) != 0 {
		t.Fatalf("got %d draws for an area outside the camera", len(b.ops))
	}
}

func TestVisibleCells(t *testing.T) {
	cases := []struct {
		bounds image.Rectangle
		origin mgl64.Vec2
		want   image.Rectangle
		ok     bool
	}{
		{image.Rect(0, 0, 64, 48), mgl64.Vec2{}, image.Rect(0, 0, 4, 3), true},
		{image.Rect(17, 17, 18, 18), mgl64.Vec2{}, image.Rect(1, 1, 2, 2), true},
		{image.Rect(0, 0, 40, 40), mgl64.Vec2{32, 32}, image.Rect(0, 0, 1, 1), true},
		{image.Rect(0, 0, 32, 32), mgl64.Vec2{32, 32}, image.Rectangle{}, false},
	}
	for _, c := range cases {
		got, ok := visibleCells(c.bounds, c.origin, 4, 3, 16, 16)
		if ok != c.ok || got != c.want {
			t.Errorf("visibleCells(%v, %v)=%v,%v want %v,%v", c.bounds, c.origin, got, ok, c.want, c.ok)
		}
	}
}

func TestSpriteRender(t *testing.T) {
	b := &recordBatch{}
	w := ecs.NewWorld()
	w.AddSystem(ecs.PhaseDraw, NewSpriteRender(b))

	tex, _ := component.NewTexture(sheet("hero"))
	plain := w.CreateEntity()
	w.Add(plain, &component.Transform{Position: mgl64.Vec2{5, 6}})
	w.Add(plain, tex)
	w.Refresh(plain)

	tiled := w.CreateEntity()
	ts := component.NewTileset(gamemap.Tileset{Columns: 4, TileWidth: 16, TileHeight: 16})
	ts.Index = 5
	sprite := component.NewSprite()
	sprite.Offset = mgl64.Vec2{1, 1}
	sprite.Layer = 0.5
	sprite.Effects = render.FlipHorizontally
	w.Add(tiled, &component.Transform{Position: mgl64.Vec2{10, 10}})
	w.Add(tiled, tex)
	w.Add(tiled, ts)
	w.Add(tiled, sprite)
	w.Refresh(tiled)

	areaID := w.CreateEntity()
	w.Add(areaID, &component.Transform{})
	w.Add(areaID, tex)
	w.Add(areaID, renderArea(t))
	w.Refresh(areaID)

	w.Draw(frame)
	if len(b.ops) != 2 {
		t.Fatalf("got %d draws, want 2 (areas are excluded)", len(b.ops))
	}
	first, second := b.ops[0], b.ops[1]
	if first.Source != nil || first.Tint != tcell.ColorWhite || first.Scale != (mgl64.Vec2{1, 1}) {
		t.Errorf("plain sprite op %+v", first)
	}
	if second.Position != (mgl64.Vec2{11, 11}) || second.Depth != 0.5 || second.Effects != render.FlipHorizontally {
		t.Errorf("tiled sprite op %+v", second)
	}
	if second.Source == nil || *second.Source != image.Rect(16, 16, 32, 32) {
		t.Errorf("tileset should override the source, got %v", second.Source)
	}
}

func walkAnimations() []content.Animation {
	d := content.Duration(100 * time.Millisecond)
	return []content.Animation{
		{Name: "IdleDown", Frames: []content.Frame{{TileIndex: 1, Duration: d}}},
		{Name: "WalkLeft", Frames: []content.Frame{
			{TileIndex: 4, Duration: d},
			{TileIndex: 5, Duration: d, Effects: render.FlipHorizontally},
		}},
	}
}

func TestAnimationAdvances(t *testing.T) {
	w := ecs.NewWorld()
	id := w.CreateEntity()
	anim, err := component.NewAnimation(walkAnimations())
	if err != nil {
		t.Fatal(err)
	}
	anim.SetName("WalkLeft")
	ts := component.NewTileset(gamemap.Tileset{Columns: 4, TileWidth: 16, TileHeight: 16})
	sprite := component.NewSprite()
	w.Add(id, anim)
	w.Add(id, ts)
	w.Add(id, sprite)

	sys := Animation{}
	sys.Process(w, id, 60*time.Millisecond)
	if anim.Index() != 0 || ts.Index != 4 {
		t.Fatalf("index=%d tile=%d after 60ms", anim.Index(), ts.Index)
	}
	sys.Process(w, id, 40*time.Millisecond)
	if anim.Index() != 0 {
		t.Fatal("a frame lasts until its duration is exceeded")
	}
	sys.Process(w, id, 10*time.Millisecond)
	if anim.Index() != 1 || ts.Index != 5 || anim.FrameTime != 0 {
		t.Fatalf("index=%d tile=%d frameTime=%v", anim.Index(), ts.Index, anim.FrameTime)
	}
	if sprite.Effects != render.FlipHorizontally {
		t.Fatal("frame effects are copied to the sprite")
	}
}

func TestStateAnimationName(t *testing.T) {
	m := openMap(t, 2, 2)
	tile, err := component.NewTile(m, 0)
	if err != nil {
		t.Fatal(err)
	}
	anim, err := component.NewAnimation(walkAnimations())
	if err != nil {
		t.Fatal(err)
	}
	w := ecs.NewWorld()
	id := w.CreateEntity()
	w.Add(id, tile)
	w.Add(id, anim)

	tile.State = component.TileMoving
	tile.Direction = command.DirLeft
	StateAnimation{}.Process(w, id, frame)
	if anim.Name() != "WalkLeft" {
		t.Fatalf("name=%q, want WalkLeft", anim.Name())
	}

	tile.State = component.TileRunning
	StateAnimation{}.Process(w, id, frame)
	if anim.Name() != "WalkLeft" {
		t.Fatalf("missing animation should keep the current one, got %q", anim.Name())
	}

	if got := AnimationName(component.TileFishing, command.DirUp); got != "FishUp" {
		t.Fatalf("AnimationName=%q", got)
	}
}
