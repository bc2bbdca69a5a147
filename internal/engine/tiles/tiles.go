// Package tiles turns loaded tilesets into drawable runtime tilesets and
// resolves global tile ids to texture regions.
package tiles

import (
	gomath "math"

	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/pkg/math"
	"github.com/Faultbox/midgard-iso/pkg/tmx"
)

// Backing holds the textures of a runtime tileset: a Sheet or a Collection.
type Backing interface {
	backing()
}

// Sheet is a single atlas texture cut into a uniform grid.
type Sheet struct {
	Texture texture.Handle
	AtlasW  int
	AtlasH  int
}

// Collection stores one texture per local tile id.
type Collection struct {
	Textures map[int]texture.Handle
}

func (Sheet) backing()      {}
func (Collection) backing() {}

// Runtime is a tileset definition paired with its loaded textures.
type Runtime struct {
	Def     *tmx.Tileset
	Backing Backing
}

// NewSheet creates a sheet runtime. The atlas size is the texture size, or
// the authored image size when the texture reports none.
func NewSheet(def *tmx.Tileset, tex texture.Handle) Runtime {
	w, h := tex.Width, tex.Height
	if w <= 0 || h <= 0 {
		w, h = def.Sheet.Width, def.Sheet.Height
	}
	return Runtime{Def: def, Backing: Sheet{Texture: tex, AtlasW: w, AtlasH: h}}
}

// NewCollection creates an image-collection runtime.
func NewCollection(def *tmx.Tileset, textures map[int]texture.Handle) Runtime {
	if textures == nil {
		textures = make(map[int]texture.Handle)
	}
	return Runtime{Def: def, Backing: Collection{Textures: textures}}
}

// ResolveAnimation returns the tile id shown at clockMs for localID.
// Tiles without an active animation resolve to themselves.
func ResolveAnimation(anim *tmx.Animation, localID int, clockMs float64) int {
	if !anim.Active() {
		return localID
	}

	total := int64(anim.TotalDurationMs)
	t := int64(gomath.Floor(clockMs)) % total
	if t < 0 {
		t += total
	}

	var acc int64
	for _, f := range anim.Frames {
		acc += int64(f.DurationMs)
		if t < acc {
			return f.TileID
		}
	}
	return anim.Frames[len(anim.Frames)-1].TileID
}

// SheetUV returns the UV rectangle of localID in a top-row-first atlas whose
// pixels were flipped on load, so V grows upward. Degenerate atlas or tile
// sizes yield the full unit rectangle.
func SheetUV(localID, tileW, tileH, atlasW, atlasH int) (uvMin, uvMax math.Vec2) {
	cols, rows := 0, 0
	if tileW > 0 {
		cols = atlasW / tileW
	}
	if tileH > 0 {
		rows = atlasH / tileH
	}
	if cols <= 0 || rows <= 0 || atlasW <= 0 || atlasH <= 0 || localID < 0 {
		return math.Vec2{X: 0, Y: 0}, math.Vec2{X: 1, Y: 1}
	}

	col := localID % cols
	row := localID / cols

	aw, ah := float32(atlasW), float32(atlasH)
	u0 := float32(col*tileW) / aw
	u1 := float32((col+1)*tileW) / aw
	v1 := 1 - float32(row*tileH)/ah
	v0 := 1 - float32((row+1)*tileH)/ah

	return math.Vec2{X: u0, Y: v0}, math.Vec2{X: u1, Y: v1}
}
