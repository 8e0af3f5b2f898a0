// Package generate builds areas procedurally by binary space partitioning.
package generate

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"tilewalk/internal/gamemap"
)

// ErrTemplate is returned for templates that cannot produce an area.
var ErrTemplate = errors.New("generate: invalid template")

// CorridorStyle selects the shape of connecting tunnels.
type CorridorStyle uint8

const (
	CorridorLShaped CorridorStyle = iota
	CorridorZShaped
	CorridorStraight
)

var corridorNames = [...]string{
	CorridorLShaped:  "lShaped",
	CorridorZShaped:  "zShaped",
	CorridorStraight: "straight",
}

func (s CorridorStyle) String() string {
	if int(s) < len(corridorNames) {
		return corridorNames[s]
	}
	return fmt.Sprintf("CorridorStyle(%d)", uint8(s))
}

// UnmarshalText decodes a style name, case-insensitively.
func (s *CorridorStyle) UnmarshalText(b []byte) error {
	for i, n := range corridorNames {
		if strings.EqualFold(n, strings.TrimSpace(string(b))) {
			*s = CorridorStyle(i)
			return nil
		}
	}
	return fmt.Errorf("generate: unknown corridor style %q", string(b))
}

// Template drives generation of one area. Floor, Wall and Exit are global
// tile indices into Tileset; Exit 0 places no exit.
type Template struct {
	Width       int             `json:"width" yaml:"width"`
	Height      int             `json:"height" yaml:"height"`
	MinLeafSize int             `json:"minLeafSize" yaml:"minLeafSize"`
	MaxLeafSize int             `json:"maxLeafSize" yaml:"maxLeafSize"`
	MinRoomSize int             `json:"minRoomSize" yaml:"minRoomSize"`
	RoomPadding int             `json:"roomPadding" yaml:"roomPadding"`
	Corridors   CorridorStyle   `json:"corridors" yaml:"corridors"`
	Tileset     gamemap.Tileset `json:"tileset" yaml:"tileset"`
	Floor       int             `json:"floor" yaml:"floor"`
	Wall        int             `json:"wall" yaml:"wall"`
	Exit        int             `json:"exit" yaml:"exit"`
	MusicTheme  string          `json:"musicTheme" yaml:"musicTheme"`
}

// Validate checks that the template can produce an area.
func (t *Template) Validate() error {
	switch {
	case t.Width < 8 || t.Height < 8:
		return fmt.Errorf("%w: size %dx%d below 8x8", ErrTemplate, t.Width, t.Height)
	case t.MinLeafSize < 4 || t.MaxLeafSize < t.MinLeafSize:
		return fmt.Errorf("%w: leaf sizes %d..%d", ErrTemplate, t.MinLeafSize, t.MaxLeafSize)
	case t.MinRoomSize < 3 || t.RoomPadding < 0:
		return fmt.Errorf("%w: room size %d padding %d", ErrTemplate, t.MinRoomSize, t.RoomPadding)
	case t.Tileset.TileCount <= 0:
		return fmt.Errorf("%w: tileset %q needs a tile count", ErrTemplate, t.Tileset.Name)
	}
	if err := t.Tileset.Validate(); err != nil {
		return err
	}
	for _, idx := range []int{t.Floor, t.Wall} {
		if !t.Tileset.Contains(idx) {
			return fmt.Errorf("%w: tile %d outside tileset %q", ErrTemplate, idx, t.Tileset.Name)
		}
	}
	if t.Exit != 0 && !t.Tileset.Contains(t.Exit) {
		return fmt.Errorf("%w: exit tile %d outside tileset %q", ErrTemplate, t.Exit, t.Tileset.Name)
	}
	return nil
}

// Result is a generated area with the rooms carved into it.
type Result struct {
	Area  *gamemap.Area
	Rooms []gamemap.Rect
	// Spawn is the cell at the center of the first room.
	Spawn int
}

// canvas is the carve buffer; true cells are floor.
type canvas struct {
	Width, Height int
	floor         []bool
	Rooms         []gamemap.Rect
}

func newCanvas(w, h int) *canvas {
	return &canvas{Width: w, Height: h, floor: make([]bool, w*h)}
}

func (c *canvas) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.Width && y < c.Height
}

func (c *canvas) Carve(x, y int) {
	if c.InBounds(x, y) {
		c.floor[y*c.Width+x] = true
	}
}

func (c *canvas) IsFloor(x, y int) bool {
	return c.InBounds(x, y) && c.floor[y*c.Width+x]
}

// builder carries the template and random source through one generation.
type builder struct {
	t   *Template
	rng *rand.Rand
	c   *canvas
}

// bspLeaf is a node in the BSP tree.
type bspLeaf struct {
	X, Y, W, H  int
	left, right *bspLeaf
	room        *gamemap.Rect
}

// split divides the leaf into two children, returning false when leaf is too small.
func (l *bspLeaf) split(b *builder) bool {
	if l.left != nil || l.right != nil {
		return false
	}
	// Horizontal when taller, vertical when wider.
	splitH := b.rng.Intn(2) == 0
	if l.W > l.H && float64(l.W)/float64(l.H) >= 1.25 {
		splitH = false
	} else if l.H > l.W && float64(l.H)/float64(l.W) >= 1.25 {
		splitH = true
	}

	maxSize := l.H
	if !splitH {
		maxSize = l.W
	}
	if maxSize <= b.t.MinLeafSize*2 {
		return false
	}

	lo := b.t.MinLeafSize
	hi := maxSize - b.t.MinLeafSize
	if lo >= hi {
		return false
	}
	split := lo + b.rng.Intn(hi-lo+1)

	if splitH {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: l.W, H: split}
		l.right = &bspLeaf{X: l.X, Y: l.Y + split, W: l.W, H: l.H - split}
	} else {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: split, H: l.H}
		l.right = &bspLeaf{X: l.X + split, Y: l.Y, W: l.W - split, H: l.H}
	}
	return true
}

// createRooms recursively carves rooms inside terminal leaves.
func (l *bspLeaf) createRooms(b *builder) {
	if l.left != nil || l.right != nil {
		if l.left != nil {
			l.left.createRooms(b)
		}
		if l.right != nil {
			l.right.createRooms(b)
		}
		return
	}
	pad := b.t.RoomPadding
	minSize := b.t.MinRoomSize
	availW := max(l.W-2*pad, minSize)
	availH := max(l.H-2*pad, minSize)

	rw := minSize + b.rng.Intn(max(1, availW-minSize+1))
	rh := minSize + b.rng.Intn(max(1, availH-minSize+1))
	rw = max(min(rw, l.W-2*pad), 3)
	rh = max(min(rh, l.H-2*pad), 3)

	rx := l.X + pad + b.rng.Intn(max(1, l.W-rw-2*pad+1))
	ry := l.Y + pad + b.rng.Intn(max(1, l.H-rh-2*pad+1))

	// Leave a one-cell border around the area.
	rx, ry = max(rx, 1), max(ry, 1)
	if rx+rw >= b.c.Width {
		rw = b.c.Width - rx - 1
	}
	if ry+rh >= b.c.Height {
		rh = b.c.Height - ry - 1
	}
	if rw < 3 || rh < 3 {
		return
	}

	room := gamemap.Rect{X1: rx, Y1: ry, X2: rx + rw - 1, Y2: ry + rh - 1}
	l.room = &room
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			b.c.Carve(x, y)
		}
	}
	b.c.Rooms = append(b.c.Rooms, room)
}

// getRoom returns a room from this leaf or its subtree, preferring the left.
func (l *bspLeaf) getRoom() *gamemap.Rect {
	if l.room != nil {
		return l.room
	}
	var lRoom, rRoom *gamemap.Rect
	if l.left != nil {
		lRoom = l.left.getRoom()
	}
	if l.right != nil {
		rRoom = l.right.getRoom()
	}
	if lRoom == nil {
		return rRoom
	}
	return lRoom
}

// connectChildren carves corridors between the two children of a split leaf.
func (l *bspLeaf) connectChildren(b *builder) {
	if l.left == nil || l.right == nil {
		return
	}
	l.left.connectChildren(b)
	l.right.connectChildren(b)

	lRoom := l.left.getRoom()
	rRoom := l.right.getRoom()
	if lRoom == nil || rRoom == nil {
		return
	}
	lCX, lCY := lRoom.Center()
	rCX, rCY := rRoom.Center()
	b.corridor(lCX, lCY, rCX, rCY)
}

// Generate partitions the template's area, carves and connects rooms, and
// lays the result out as a ground layer, an objects layer holding the exit
// in the last room, and a meta layer. The meta tileset is appended after
// the template's tileset.
func Generate(t *Template, rng *rand.Rand) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	b := &builder{t: t, rng: rng, c: newCanvas(t.Width, t.Height)}

	root := &bspLeaf{X: 0, Y: 0, W: t.Width, H: t.Height}
	leaves := []*bspLeaf{root}
	splitAny := true
	for splitAny {
		splitAny = false
		var next []*bspLeaf
		for _, leaf := range leaves {
			if leaf.left != nil || leaf.right != nil {
				next = append(next, leaf.left, leaf.right)
				continue
			}
			if leaf.W > t.MaxLeafSize || leaf.H > t.MaxLeafSize || rng.Float64() > 0.25 {
				if leaf.split(b) {
					next = append(next, leaf.left, leaf.right)
					splitAny = true
					continue
				}
			}
			next = append(next, leaf)
		}
		leaves = next
	}

	root.createRooms(b)
	root.connectChildren(b)
	if len(b.c.Rooms) == 0 {
		return nil, fmt.Errorf("%w: no room fits in %dx%d", ErrTemplate, t.Width, t.Height)
	}
	return b.result(), nil
}

func (b *builder) result() *Result {
	t, c := b.t, b.c
	metaFirst := t.Tileset.FirstIndex + t.Tileset.TileCount
	n := t.Width * t.Height
	ground := make([]int, n)
	objects := make([]int, n)
	meta := make([]int, n)
	for i := range n {
		if c.floor[i] {
			ground[i] = t.Floor
			meta[i] = metaFirst + 1
		} else {
			ground[i] = t.Wall
			meta[i] = metaFirst
		}
	}
	if t.Exit != 0 && len(c.Rooms) > 1 {
		x, y := c.Rooms[len(c.Rooms)-1].Center()
		objects[y*t.Width+x] = t.Exit
	}

	area := &gamemap.Area{
		Width:      t.Width,
		Height:     t.Height,
		TileWidth:  t.Tileset.TileWidth,
		TileHeight: t.Tileset.TileHeight,
		Layers: []gamemap.Layer{
			{Name: "ground", Data: ground, Opacity: 1},
			{Name: "objects", Data: objects, Opacity: 1},
			{Name: "meta", Data: meta, Properties: gamemap.LayerProps{IsMeta: true}},
		},
		Tilesets: []gamemap.Tileset{
			t.Tileset,
			{
				Name:       "meta",
				Columns:    2,
				TileWidth:  t.Tileset.TileWidth,
				TileHeight: t.Tileset.TileHeight,
				TileCount:  2,
				FirstIndex: metaFirst,
				Tiles: map[int]gamemap.TileInfo{
					0: {Type: gamemap.TileBlock},
					1: {Type: gamemap.TileWalk},
				},
				Properties: gamemap.TilesetProps{IsMeta: true},
			},
		},
		Properties: gamemap.AreaProps{MusicTheme: t.MusicTheme},
	}

	sx, sy := c.Rooms[0].Center()
	return &Result{Area: area, Rooms: c.Rooms, Spawn: sy*t.Width + sx}
}
