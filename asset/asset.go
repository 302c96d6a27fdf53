// Package asset resolves and caches the textures a map refers to.
package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TypePNG is a PNG texture stored under the project's resources directory.
const TypePNG = "TexturePNG"

var ErrUnknownAssetType = errors.New("asset: unknown asset type")

// Asset identifies a resource by type and key.
type Asset struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

func PNG(key string) Asset {
	return Asset{Type: TypePNG, Key: key}
}

func (a Asset) String() string {
	return a.Type + ":" + a.Key
}

// Resolve returns the file an asset is loaded from, relative to baseSrc.
func Resolve(a Asset, baseSrc string) (string, error) {
	switch a.Type {
	case TypePNG:
		return filepath.Join(baseSrc, "resources", a.Key+".png"), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAssetType, a.Type)
	}
}

// List returns the PNG assets in the resources directory under baseSrc, sorted by
// key.
func List(baseSrc string) ([]Asset, error) {
	dir := filepath.Join(baseSrc, "resources")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("asset: list %s: %w", dir, err)
	}
	var out []Asset
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		out = append(out, PNG(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
