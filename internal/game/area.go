package game

import (
	"math/rand"
	"path"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"tilewalk/internal/component"
	"tilewalk/internal/config"
	"tilewalk/internal/content"
	"tilewalk/internal/factory"
	"tilewalk/internal/gamemap"
	"tilewalk/internal/generate"
	"tilewalk/internal/render"
)

// scene is a loaded area ready to become an entity.
type scene struct {
	name     string
	res      *content.Manager
	m        *gamemap.Map
	textures []render.Texture
	// spawn is the preferred spawn cell, -1 for none.
	spawn int
}

// openArea loads areas/<name>/area, or generates one from
// areas/generated/generator when name is config.GeneratedArea.
func (g *Game) openArea(name string) (*scene, error) {
	res := g.res.Allocate(path.Join("areas", name))
	if name == config.GeneratedArea {
		return g.generateArea(res)
	}
	a, err := res.Area("area")
	if err != nil {
		return nil, err
	}
	return newScene(name, res, a, g.cfg.Resources.SpawnTile)
}

func (g *Game) generateArea(res *content.Manager) (*scene, error) {
	tmpl, err := content.Load[generate.Template](res, "generator")
	if err != nil {
		return nil, err
	}
	seed := g.cfg.Resources.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	out, err := generate.Generate(tmpl, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	g.log.Info("area generated",
		zap.Int64("seed", seed),
		zap.Int("rooms", len(out.Rooms)),
		zap.Int("width", out.Area.Width),
		zap.Int("height", out.Area.Height))

	spawn := g.cfg.Resources.SpawnTile
	if spawn < 0 {
		spawn = out.Spawn
	}
	return newScene(config.GeneratedArea, res, out.Area, spawn)
}

func newScene(name string, res *content.Manager, a *gamemap.Area, spawn int) (*scene, error) {
	m, err := gamemap.NewMap(a)
	if err != nil {
		return nil, err
	}
	textures, err := factory.AreaTextures(res, a)
	if err != nil {
		return nil, err
	}
	return &scene{name: name, res: res, m: m, textures: textures, spawn: spawn}, nil
}

// center returns the pixel center of the scene's area.
func (s *scene) center() mgl64.Vec2 {
	size := s.m.Area().PixelSize()
	return mgl64.Vec2{float64(size.X) / 2, float64(size.Y) / 2}
}

// tileFocus follows the center of the cell under a transform.
type tileFocus struct {
	tr   *component.Transform
	half mgl64.Vec2
}

func (f tileFocus) FocusPosition() mgl64.Vec2 { return f.tr.Position.Add(f.half) }
