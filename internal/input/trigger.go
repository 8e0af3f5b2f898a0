package input

import "tilewalk/internal/command"

// Trigger turns a level command into an edge: Fired is true on the first
// poll after the command becomes active. Poll it once per frame.
type Trigger struct {
	src    command.Source
	cmd    command.Command
	active bool
}

// NewTrigger watches cmd on src. A command that is already active when the
// trigger is created does not fire until it is released and pressed again.
func NewTrigger(src command.Source, cmd command.Command) *Trigger {
	return &Trigger{src: src, cmd: cmd, active: src.IsCommandActivated(cmd)}
}

func (t *Trigger) Fired() bool {
	now := t.src.IsCommandActivated(t.cmd)
	fired := now && !t.active
	t.active = now
	return fired
}
