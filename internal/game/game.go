// Package game runs the frame loop and the states of one play session.
package game

import (
	"context"
	"fmt"
	"image"
	"maps"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"tilewalk/internal/config"
	"tilewalk/internal/content"
	"tilewalk/internal/input"
	"tilewalk/internal/render"
	"tilewalk/internal/state"
)

// maxFrameTime caps dt so a stalled terminal does not teleport characters.
const maxFrameTime = 250 * time.Millisecond

// Game is the top-level orchestrator of one terminal.
type Game struct {
	cfg      *config.Config
	log      *zap.Logger
	screen   *render.Screen
	res      *content.Manager
	keyboard *input.Keyboard
	binder   *input.Binder
	stack    *state.Stack
	palette  render.Palette

	quit    bool
	err     error
	drawErr string
}

// New wires a game to an initialized screen. res is rooted at the resource
// prefix; areas and characters are resolved below it.
func New(screen tcell.Screen, cfg *config.Config, res *content.Manager, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	batch, err := render.NewScreen(screen, image.Pt(cfg.Display.CellWidth, cfg.Display.CellHeight))
	if err != nil {
		return nil, err
	}

	keyboard := input.NewKeyboard(cfg.Input.RepeatDelay, cfg.Input.Release)
	binder := input.NewBinder()
	if err := binder.AddDriver(keyboard); err != nil {
		return nil, err
	}
	keys := input.DefaultKeys()
	maps.Copy(keys, cfg.Input.Bindings)
	timing := input.Timing{Walk: cfg.Input.WalkDelay, Tap: cfg.Input.TapTimeout}
	if err := input.BindKeys(binder, keys, timing); err != nil {
		return nil, fmt.Errorf("bind keys: %w", err)
	}

	g := &Game{
		cfg:      cfg,
		log:      log,
		screen:   batch,
		res:      res,
		keyboard: keyboard,
		binder:   binder,
		stack:    state.NewStack(log.Named("state")),
		palette:  render.DefaultPalette,
	}
	g.stack.OnChange(g.stackChanged)
	return g, nil
}

// Run shows the menu and drives frames until the player quits, the last
// state is popped or ctx is done. The caller owns the screen and must Fini
// it after Run returns.
func (g *Game) Run(ctx context.Context) error {
	if err := g.stack.Push(NewMenu(g), state.Exclusive); err != nil {
		return fmt.Errorf("open menu: %w", err)
	}
	defer g.stack.Clear()

	events := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := g.screen.Terminal().PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(g.cfg.FrameTime())
	defer ticker.Stop()
	last := time.Now()
	g.log.Info("game started", zap.Duration("frame", g.cfg.FrameTime()))

	for !g.quit {
		select {
		case <-ctx.Done():
			g.log.Info("game cancelled", zap.Error(ctx.Err()))
			return g.err
		case ev, ok := <-events:
			if !ok {
				g.log.Info("screen closed")
				return g.err
			}
			g.HandleEvent(ev)
		case now := <-ticker.C:
			dt := min(now.Sub(last), maxFrameTime)
			last = now
			g.Frame(dt)
		}
	}
	g.log.Info("game over")
	return g.err
}

// HandleEvent feeds one terminal event to the game.
func (g *Game) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			g.Quit()
			return
		}
		g.keyboard.HandleEvent(ev)
	case *tcell.EventResize:
		g.screen.Terminal().Sync()
	}
}

// Frame advances input and the state stack by dt and redraws the screen.
func (g *Game) Frame(dt time.Duration) {
	g.binder.Update(dt)
	g.stack.Update(dt)
	if g.quit {
		return
	}
	g.screen.Clear()
	g.stack.Draw(dt)
	g.screen.Show()
}

// Quit ends Run after the current event or frame.
func (g *Game) Quit() { g.quit = true }

// Done reports whether the game has ended.
func (g *Game) Done() bool { return g.quit }

// Err returns the error that ended the game, if any.
func (g *Game) Err() error { return g.err }

// fail ends the game with err.
func (g *Game) fail(err error) {
	g.log.Error("game failed", zap.Error(err))
	if g.err == nil {
		g.err = err
	}
	g.quit = true
}

// endDraw flushes the batch. A failing draw is logged once per distinct
// error so a broken sprite does not flood the log every frame.
func (g *Game) endDraw() {
	err := g.screen.End()
	if err == nil {
		g.drawErr = ""
		return
	}
	if msg := err.Error(); msg != g.drawErr {
		g.drawErr = msg
		g.log.Warn("draw failed", zap.Error(err))
	}
}

func (g *Game) stackChanged() {
	top := "none"
	if st, ok := g.stack.Top(); ok {
		top = state.Name(st)
	}
	g.log.Debug("states changed", zap.Int("depth", g.stack.Len()), zap.String("top", top))
	if g.stack.Len() == 0 {
		g.quit = true
	}
}
