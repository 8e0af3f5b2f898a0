package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"tilewalk/internal/command"
	"tilewalk/internal/component"
	"tilewalk/internal/ecs"
	"tilewalk/internal/factory"
	"tilewalk/internal/input"
	"tilewalk/internal/render"
	"tilewalk/internal/state"
	"tilewalk/internal/system"
)

const exploreHintText = "Esc pause"

// Explore walks the player character around one area. It stops updating
// while a popup covers it.
type Explore struct {
	g      *Game
	area   string
	sc     *scene
	world  *ecs.World
	camera *render.Camera2D
	player ecs.EntityID

	suspended bool
	pause     *input.Trigger
}

// NewExplore returns a state exploring the named area.
func NewExplore(g *Game, area string) *Explore {
	return &Explore{g: g, area: area, player: ecs.NilEntity}
}

func (e *Explore) String() string { return "explore:" + e.area }

func (e *Explore) Enter() error {
	sc, err := e.g.openArea(e.area)
	if err != nil {
		return fmt.Errorf("area %q: %w", e.area, err)
	}
	e.sc = sc
	e.world = ecs.NewWorld()
	if _, err := factory.NewArea(e.world, sc.m, sc.textures); err != nil {
		return err
	}

	spawn, err := factory.SpawnIndex(sc.m, sc.spawn)
	if err != nil {
		return fmt.Errorf("area %q: %w", e.area, err)
	}
	chars := e.g.res.Allocate("characters")
	hero, err := chars.Character(e.g.cfg.Resources.Character)
	if err != nil {
		return err
	}
	tex, err := chars.Texture(hero.Tileset.Image)
	if err != nil {
		return fmt.Errorf("character %q: %w", e.g.cfg.Resources.Character, err)
	}
	e.player, err = factory.NewPlayer(e.world, hero, tex, sc.m, spawn, e.g.binder)
	if err != nil {
		return err
	}

	e.camera = render.NewCamera(e.g.screen.Resolution())
	if tr, ok := ecs.Get[*component.Transform](e.world, e.player); ok {
		a := sc.m.Area()
		focus := tileFocus{tr: tr, half: mgl64.Vec2{float64(a.TileWidth) / 2, float64(a.TileHeight) / 2}}
		e.camera.Focus = focus
		e.camera.Center(focus.FocusPosition())
	}

	mv := e.g.cfg.Movement
	e.world.AddSystem(ecs.PhaseUpdate, system.NewTileMovement(mv.BaseSpeed, mv.RunMultiplier))
	e.world.AddSystem(ecs.PhaseUpdate, system.Translation{})
	e.world.AddSystem(ecs.PhaseUpdate, system.StateAnimation{})
	e.world.AddSystem(ecs.PhaseUpdate, system.Animation{})
	e.world.AddSystem(ecs.PhaseDraw, system.NewAreaRender(e.g.screen, e.camera))
	e.world.AddSystem(ecs.PhaseDraw, system.NewSpriteRender(e.g.screen))

	e.suspended = false
	e.pause = input.NewTrigger(e.g.binder, command.Exit)
	e.g.log.Info("area entered",
		zap.String("area", e.area),
		zap.Int("width", sc.m.Area().Width),
		zap.Int("height", sc.m.Area().Height),
		zap.Int("spawn", spawn),
		zap.String("music", sc.m.Area().Properties.MusicTheme))
	return nil
}

func (e *Explore) Exit() {
	e.world.Clear()
	e.sc.res.Unload()
	e.g.log.Info("area left", zap.String("area", e.area))
}

func (e *Explore) Obscure(bool) { e.suspended = true }

func (e *Explore) Reveal(bool) {
	e.suspended = false
	e.pause = input.NewTrigger(e.g.binder, command.Exit)
}

func (e *Explore) Update(dt time.Duration) {
	if e.suspended {
		return
	}
	if e.pause.Fired() {
		if err := e.g.stack.Push(NewPause(e.g), state.Popup); err != nil {
			e.g.fail(err)
		}
		return
	}
	e.world.Update(dt)
	e.camera.Update(dt)
}

func (e *Explore) Draw(dt time.Duration) {
	b := e.g.screen
	e.camera.SetViewport(b.Resolution())
	b.Begin(e.camera.Transform())
	e.world.Draw(dt)
	render.DrawStatus(b, b.Cells(), []string{e.status()}, e.g.palette, -1)
	e.g.endDraw()
}

// Player returns the player entity and the world it lives in.
func (e *Explore) Player() (*ecs.World, ecs.EntityID) { return e.world, e.player }

func (e *Explore) status() string {
	tile, ok := ecs.Get[*component.Tile](e.world, e.player)
	if !ok {
		return e.area
	}
	a := tile.Map.Area()
	return fmt.Sprintf(" %s  (%d,%d)  %s %s  |  %s",
		e.area, tile.Index%a.Width, tile.Index/a.Width,
		tile.State, strings.ToLower(tile.Direction.String()), exploreHintText)
}
