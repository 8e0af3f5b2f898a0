// tilewalk-server serves the game over SSH. Every connection plays its own
// session. Build:
//
//	go build -o tilewalk-server ./cmd/server
//
// Usage:
//
//	./tilewalk-server [-config tilewalk.toml]
//
// Connect:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	"github.com/google/uuid"
	"go.uber.org/zap"
	xssh "golang.org/x/crypto/ssh"

	"tilewalk/assets"
	"tilewalk/internal/config"
	"tilewalk/internal/content"
	"tilewalk/internal/game"
	internalssh "tilewalk/internal/ssh"
)

const (
	defaultTerm   = "xterm-256color"
	maxNameBytes  = 16
	shutdownGrace = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file; defaults apply when empty")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	fsys, err := assets.Open(cfg.Resources.Prefix)
	if err != nil {
		return fmt.Errorf("open resources: %w", err)
	}
	signer, err := loadOrCreateHostKey(cfg.Server.HostKey, log)
	if err != nil {
		return err
	}

	h := newHub(cfg, fsys, log)
	srv := &gossh.Server{
		Addr:    cfg.Server.BindAddress,
		Handler: h.handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(gossh.Context, gossh.Pty) bool { return true },
		// No authentication: every client plays.
		HostSigners: []gossh.Signer{signer},
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening",
		zap.String("addr", cfg.Server.BindAddress),
		zap.Int("max_sessions", cfg.Server.MaxSessions))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}

// hub tracks the sessions being played.
type hub struct {
	cfg  *config.Config
	fsys fs.FS
	log  *zap.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]string
}

func newHub(cfg *config.Config, fsys fs.FS, log *zap.Logger) *hub {
	return &hub{cfg: cfg, fsys: fsys, log: log, sessions: make(map[uuid.UUID]string)}
}

// admit reserves a slot for a session. It fails once MaxSessions are
// playing; a non-positive MaxSessions admits everyone.
func (h *hub) admit(id uuid.UUID, user string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit := h.cfg.Server.MaxSessions; limit > 0 && len(h.sessions) >= limit {
		return false
	}
	h.sessions[id] = user
	return true
}

func (h *hub) release(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Len returns the number of sessions playing.
func (h *hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// handleSession is the gliderlabs SSH handler for one connection. It blocks
// for the duration of the game so the SSH session stays open.
func (h *hub) handleSession(s gossh.Session) {
	id := uuid.New()
	user := sanitizeName(s.User())
	log := h.log.With(
		zap.Stringer("session", id),
		zap.String("user", user),
		zap.String("remote", s.RemoteAddr().String()))

	pty, winCh, ok := s.Pty()
	if !ok {
		fmt.Fprintln(s, "tilewalk needs a terminal. Connect with: ssh -t -p 2222 <host>")
		return
	}
	if !h.admit(id, user) {
		log.Warn("session refused", zap.Int("sessions", h.Len()))
		fmt.Fprintln(s, "The server is full, try again later.")
		return
	}
	defer h.release(id)

	term := sanitizeTerm(pty.Term, s.Environ())
	screen, err := newScreen(internalssh.NewSessionTty(s, pty, winCh), term)
	if err != nil {
		log.Error("terminal setup failed", zap.String("term", term), zap.Error(err))
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	defer screen.Fini()

	log.Info("session started", zap.String("term", term), zap.Int("sessions", h.Len()))
	res := content.NewManager(h.fsys, "", log.Named("content"))
	g, err := game.New(screen, h.cfg, res, log)
	if err != nil {
		log.Error("game setup failed", zap.Error(err))
		return
	}
	if err := g.Run(s.Context()); err != nil {
		log.Error("game ended", zap.Error(err))
		return
	}
	log.Info("session ended")
}

// termMu serializes os.Setenv("TERM") around screen creation; tcell reads
// the terminal type from the environment.
var termMu sync.Mutex

func newScreen(tty tcell.Tty, term string) (tcell.Screen, error) {
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

// allowedTerms are the terminal types a client may select. Anything else
// falls back to defaultTerm.
var allowedTerms = map[string]bool{
	"ansi":                  true,
	"linux":                 true,
	"rxvt":                  true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"vt100":                 true,
	"vt102":                 true,
	"vt220":                 true,
	"xterm":                 true,
	"xterm-256color":        true,
	"xterm-color":           true,
}

// sanitizeTerm picks the PTY's terminal type, then TERM from env, as long
// as it is allowed.
func sanitizeTerm(ptyTerm string, env []string) string {
	if allowedTerms[ptyTerm] {
		return ptyTerm
	}
	for _, kv := range env {
		if t, ok := strings.CutPrefix(kv, "TERM="); ok && allowedTerms[t] {
			return t
		}
	}
	return defaultTerm
}

// sanitizeName strips control characters from an SSH user name and cuts it
// to maxNameBytes without splitting a rune.
func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsControl(r) || r == utf8.RuneError {
			continue
		}
		if sb.Len()+utf8.RuneLen(r) > maxNameBytes {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// loadOrCreateHostKey loads a PEM private key from path, or generates an
// ed25519 key and saves it there when the file is absent or unreadable.
func loadOrCreateHostKey(path string, log *zap.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Info("host key loaded", zap.String("path", path))
			return signer, nil
		}
		log.Warn("host key unreadable, replacing it", zap.String("path", path))
	}

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	block, err := xssh.MarshalPrivateKey(key, "tilewalk server")
	if err != nil {
		return nil, fmt.Errorf("marshal host key: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		// The key still works for this run.
		log.Warn("host key not saved", zap.String("path", path), zap.Error(err))
	} else {
		log.Info("host key generated", zap.String("path", path))
	}
	return signer, nil
}
