package tiles

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/pkg/tmx"
)

// TextureLoader loads a texture once per (path, flipY) pair.
type TextureLoader interface {
	Load(path string, flipY bool) (texture.Handle, error)
}

// Catalog is the ordered set of runtime tilesets for one map.
type Catalog struct {
	Tilesets []Runtime // sorted by Def.FirstGID
}

// Len returns the number of tilesets.
func (c *Catalog) Len() int {
	return len(c.Tilesets)
}

// BuildCatalog loads the textures of every tileset in m.
//
// A sheet whose atlas cannot be loaded fails the build. A collection tile
// whose image cannot be loaded is left out and resolves as not found.
// Textures are loaded flipped so row 0 of an atlas is its top row in UV space.
func BuildCatalog(m *tmx.Map, loader TextureLoader, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}

	c := &Catalog{Tilesets: make([]Runtime, 0, len(m.Tilesets))}
	for _, def := range m.Tilesets {
		switch def.Kind {
		case tmx.BackingSheet:
			tex, err := loader.Load(def.Sheet.Path, true)
			if err != nil {
				return nil, fmt.Errorf("tileset %q: %w", def.Name, err)
			}
			c.Tilesets = append(c.Tilesets, NewSheet(def, tex))

		case tmx.BackingCollection:
			textures := make(map[int]texture.Handle, len(def.Images))
			for id, img := range def.Images {
				tex, err := loader.Load(img.Path, true)
				if err != nil {
					log.Warn("skipping collection tile",
						zap.String("tileset", def.Name),
						zap.Int("tile", id),
						zap.Error(err))
					continue
				}
				textures[id] = tex
			}
			c.Tilesets = append(c.Tilesets, NewCollection(def, textures))
		}
	}

	sort.SliceStable(c.Tilesets, func(i, j int) bool {
		return c.Tilesets[i].Def.FirstGID < c.Tilesets[j].Def.FirstGID
	})

	log.Debug("tileset catalog built", zap.Int("tilesets", len(c.Tilesets)))
	return c, nil
}
