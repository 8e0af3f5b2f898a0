package gamemap

import (
	"fmt"
	"strings"
)

// TileType is the movement semantics of a grid cell, read from the meta layer.
type TileType uint8

const (
	TileBlock TileType = iota
	TileWalk
	TileSurf
)

var tileTypeNames = [...]string{
	TileBlock: "block",
	TileWalk:  "walk",
	TileSurf:  "surf",
}

func (t TileType) String() string {
	if int(t) < len(tileTypeNames) {
		return tileTypeNames[t]
	}
	return fmt.Sprintf("TileType(%d)", uint8(t))
}

// Walkable reports whether an entity on foot may enter a tile of this type.
func (t TileType) Walkable() bool {
	return t == TileWalk
}

// MarshalText encodes the type by name.
func (t TileType) MarshalText() ([]byte, error) {
	if int(t) >= len(tileTypeNames) {
		return nil, fmt.Errorf("gamemap: unknown tile type %d", uint8(t))
	}
	return []byte(tileTypeNames[t]), nil
}

// UnmarshalText decodes a tile type name, case-insensitively.
func (t *TileType) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range tileTypeNames {
		if n == name {
			*t = TileType(i)
			return nil
		}
	}
	return fmt.Errorf("gamemap: unknown tile type %q", string(b))
}

// TileInfo is the per-tile metadata of a tileset.
type TileInfo struct {
	Type TileType `json:"type" yaml:"type"`
}
