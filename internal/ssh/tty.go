// Package ssh adapts SSH sessions to tcell terminals.
package ssh

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// SessionTty implements tcell.Tty over a gliderlabs/ssh session. Every
// connection gets its own SessionTty and tcell.Screen.
type SessionTty struct {
	session gossh.Session
	winCh   <-chan gossh.Window
	watch   sync.Once

	mu     sync.Mutex
	window gossh.Window
	cb     func()
}

// NewSessionTty wraps s. pty holds the initial window size; winCh delivers
// later resizes.
func NewSessionTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *SessionTty {
	return &SessionTty{
		session: s,
		window:  pty.Window,
		winCh:   winCh,
	}
}

func (t *SessionTty) Read(b []byte) (int, error) { return t.session.Read(b) }

func (t *SessionTty) Write(b []byte) (int, error) { return t.session.Write(b) }

func (t *SessionTty) Close() error { return t.session.Close() }

// Start, Stop and Drain have nothing to do: the channel is opened and
// flushed by the SSH server.
func (t *SessionTty) Start() error { return nil }

func (t *SessionTty) Stop() error { return nil }

func (t *SessionTty) Drain() error { return nil }

// WindowSize returns the last size the client reported.
func (t *SessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize sets the callback run after every resize; nil removes it.
// The window channel is watched from the first call until it closes.
func (t *SessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.cb = cb
	t.mu.Unlock()

	t.watch.Do(func() {
		go t.watchResize()
	})
}

func (t *SessionTty) watchResize() {
	for win := range t.winCh {
		t.mu.Lock()
		t.window = win
		cb := t.cb
		t.mu.Unlock()
		if cb != nil {
			cb()
		}
	}
}
