// Package assets embeds the default resources: the title backdrop, the
// meadow area, the template for generated areas and the hero character.
// Documents are laid out the way a resource prefix directory is.
package assets

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed data
var data embed.FS

// FS returns the embedded resources rooted at the data directory.
func FS() fs.FS {
	sub, err := fs.Sub(data, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Open returns the resource directory at prefix, or the embedded resources
// when prefix is empty.
func Open(prefix string) (fs.FS, error) {
	if prefix == "" {
		return FS(), nil
	}
	info, err := os.Stat(prefix)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: prefix, Err: fs.ErrInvalid}
	}
	return os.DirFS(prefix), nil
}
