package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"tilewalk/internal/command"
	"tilewalk/internal/input"
	"tilewalk/internal/render"
	"tilewalk/internal/state"
)

var pauseLines = []string{
	"Enter  resume",
	"Esc    back to the menu",
}

// Pause is a popup over Explore. Start resumes; Exit returns to the menu.
type Pause struct {
	g      *Game
	resume *input.Trigger
	leave  *input.Trigger
}

func NewPause(g *Game) *Pause { return &Pause{g: g} }

func (p *Pause) String() string { return "pause" }

func (p *Pause) Enter() error {
	p.resume = input.NewTrigger(p.g.binder, command.Start)
	p.leave = input.NewTrigger(p.g.binder, command.Exit)
	return nil
}

func (p *Pause) Exit() {}

func (p *Pause) Update(time.Duration) {
	switch {
	case p.resume.Fired():
		if _, err := p.g.stack.Pop(); err != nil {
			p.g.fail(err)
		}
	case p.leave.Fired():
		if _, err := p.g.stack.Pop(); err != nil {
			p.g.fail(err)
			return
		}
		if _, err := p.g.stack.Switch(NewMenu(p.g), state.Exclusive); err != nil {
			p.g.fail(err)
		}
	}
}

func (p *Pause) Draw(time.Duration) {
	b := p.g.screen
	b.Begin(mgl64.Ident3())
	render.DrawPanel(b, b.Cells(), "Paused", pauseLines, p.g.palette, -2)
	p.g.endDraw()
}
