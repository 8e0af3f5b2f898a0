package game

import (
	"errors"
	"image"
	"time"

	"go.uber.org/zap"

	"tilewalk/internal/command"
	"tilewalk/internal/content"
	"tilewalk/internal/ecs"
	"tilewalk/internal/factory"
	"tilewalk/internal/input"
	"tilewalk/internal/render"
	"tilewalk/internal/state"
	"tilewalk/internal/system"
)

const (
	blinkInterval = 500 * time.Millisecond
	titleText     = "t i l e w a l k"
	promptText    = "press Enter to start"
	menuHintText  = "Esc quits"
)

// Menu is the title screen. It draws an area behind the title and starts
// exploring on Start.
type Menu struct {
	g      *Game
	res    *content.Manager
	world  *ecs.World
	camera *render.Camera2D

	blink  time.Duration
	prompt bool
	start  *input.Trigger
	exit   *input.Trigger
}

func NewMenu(g *Game) *Menu {
	return &Menu{g: g}
}

func (m *Menu) String() string { return "menu" }

func (m *Menu) Enter() error {
	m.world = ecs.NewWorld()
	m.camera = render.NewCamera(m.g.screen.Resolution())
	m.world.AddSystem(ecs.PhaseDraw, system.NewAreaRender(m.g.screen, m.camera))

	if name := m.g.cfg.Resources.MenuBackground; name != "" {
		sc, err := m.g.openArea(name)
		switch {
		case errors.Is(err, content.ErrMissing):
			m.g.log.Warn("menu background missing", zap.String("area", name), zap.Error(err))
		case err != nil:
			return err
		default:
			if _, err := factory.NewArea(m.world, sc.m, sc.textures); err != nil {
				return err
			}
			m.res = sc.res
			m.camera.Center(sc.center())
		}
	}

	m.prompt = true
	m.blink = 0
	m.start = input.NewTrigger(m.g.binder, command.Start)
	m.exit = input.NewTrigger(m.g.binder, command.Exit)
	return nil
}

func (m *Menu) Exit() {
	m.world.Clear()
	if m.res != nil {
		m.res.Unload()
	}
}

func (m *Menu) Update(dt time.Duration) {
	m.blink += dt
	for m.blink >= blinkInterval {
		m.blink -= blinkInterval
		m.prompt = !m.prompt
	}

	if m.start.Fired() {
		if _, err := m.g.stack.Switch(NewExplore(m.g, m.g.cfg.Resources.StartArea), state.Exclusive); err != nil {
			m.g.fail(err)
		}
		return
	}
	if m.exit.Fired() {
		m.g.Quit()
	}
}

func (m *Menu) Draw(dt time.Duration) {
	b := m.g.screen
	cells := b.Cells()
	m.camera.SetViewport(b.Resolution())

	b.Begin(m.camera.Transform())
	m.world.Draw(dt)
	b.DrawString(titleText, image.Pt(render.CenterText(cells, titleText), cells.Y/4), m.g.palette.Title, -1)
	if m.prompt {
		b.DrawString(promptText, image.Pt(render.CenterText(cells, promptText), cells.Y-3), m.g.palette.Prompt, -1)
	}
	b.DrawString(menuHintText, image.Pt(render.CenterText(cells, menuHintText), cells.Y-2), m.g.palette.Hint, -1)
	m.g.endDraw()
}
