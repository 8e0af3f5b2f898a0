// Package content resolves logical resource names to decoded documents.
// Documents are JSON or YAML, chosen by file extension, and are cached per
// manager until Unload.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissing is returned when no document exists for a name.
	ErrMissing = errors.New("content: resource missing")
	// ErrInvalid is returned when a document exists but cannot be used.
	ErrInvalid = errors.New("content: resource invalid")
)

// extensions are tried in order for names given without one.
var extensions = []string{".json", ".yaml", ".yml"}

// Validator is implemented by documents that check themselves after
// decoding.
type Validator interface {
	Validate() error
}

// Manager loads documents below a root directory of a file system.
type Manager struct {
	fsys  fs.FS
	root  string
	log   *zap.Logger
	cache map[uint64]any
}

// NewManager returns a manager reading below root in fsys.
func NewManager(fsys fs.FS, root string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		fsys:  fsys,
		root:  path.Clean("/" + root)[1:],
		log:   log,
		cache: make(map[uint64]any),
	}
}

// Root returns the directory names are resolved against.
func (m *Manager) Root() string { return m.root }

// Allocate returns a new manager over the same file system rooted at sub,
// relative to m's root, with its own empty cache.
func (m *Manager) Allocate(sub string) *Manager {
	return NewManager(m.fsys, path.Join(m.root, sub), m.log)
}

// Unload drops every cached document.
func (m *Manager) Unload() {
	clear(m.cache)
}

// Cached returns the number of cached documents.
func (m *Manager) Cached() int { return len(m.cache) }

// Load decodes the document called name into a new T. Names without an
// extension try .json, .yaml and .yml in that order. Results are cached per
// type and resolved path; callers share the returned value.
func Load[T any](m *Manager, name string) (*T, error) {
	p, data, err := m.read(name)
	if err != nil {
		return nil, err
	}
	key := xxhash.Sum64String(fmt.Sprintf("%T\x00%s", (*T)(nil), p))
	if v, ok := m.cache[key]; ok {
		return v.(*T), nil
	}

	v := new(T)
	if err := decode(p, data, v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, p, err)
	}
	if val, ok := any(v).(Validator); ok {
		if err := val.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, p, err)
		}
	}
	m.cache[key] = v
	m.log.Debug("content loaded", zap.String("name", name), zap.String("path", p), zap.Int("bytes", len(data)))
	return v, nil
}

func (m *Manager) read(name string) (string, []byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("%w: empty name", ErrMissing)
	}
	candidates := []string{name}
	if path.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range extensions {
			candidates = append(candidates, name+ext)
		}
	}
	for _, c := range candidates {
		p := path.Join(m.root, c)
		data, err := fs.ReadFile(m.fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("content: read %s: %w", p, err)
		}
		return p, data, nil
	}
	return "", nil, fmt.Errorf("%w: %s", ErrMissing, path.Join(m.root, name))
}

func decode(p string, data []byte, v any) error {
	switch path.Ext(p) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(v)
	}
	return fmt.Errorf("unsupported format %q", path.Ext(p))
}
