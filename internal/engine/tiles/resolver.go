package tiles

import (
	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/pkg/math"
	"github.com/Faultbox/midgard-iso/pkg/tmx"
)

// Resolved is a drawable tile region. UVMin/UVMax are (0,0)-(1,1) when
// FullTexture is set.
type Resolved struct {
	Texture      texture.Handle
	UVMin        math.Vec2
	UVMax        math.Vec2
	Size         math.Vec2
	FullTexture  bool
	TilesetIndex int
	LocalID      int // after animation
}

// Resolver resolves global tile ids against a catalog.
type Resolver struct {
	tilesets []Runtime
}

// NewResolver creates a resolver over c.
func NewResolver(c *Catalog) *Resolver {
	return &Resolver{tilesets: c.Tilesets}
}

// find returns the runtime owning gid: the greatest FirstGID <= gid.
func (r *Resolver) find(gid uint32) int {
	lo, hi := 0, len(r.tilesets)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if r.tilesets[mid].Def.FirstGID <= gid {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1
}

// Resolve maps gid to the region drawn at clockMs.
// ok is false for gid 0, ids outside every tileset, and collection tiles
// without a texture; callers draw nothing in that case.
func (r *Resolver) Resolve(gid uint32, clockMs float64) (Resolved, bool) {
	gid &= tmx.GIDMask
	if gid == 0 {
		return Resolved{}, false
	}

	idx := r.find(gid)
	if idx < 0 {
		return Resolved{}, false
	}
	rt := &r.tilesets[idx]
	def := rt.Def

	local, ok := def.LocalID(gid)
	if !ok {
		return Resolved{}, false
	}
	local = ResolveAnimation(def.Animations[local], local, clockMs)

	switch b := rt.Backing.(type) {
	case Sheet:
		uvMin, uvMax := SheetUV(local, def.TileWidth, def.TileHeight, b.AtlasW, b.AtlasH)
		return Resolved{
			Texture:      b.Texture,
			UVMin:        uvMin,
			UVMax:        uvMax,
			Size:         math.Vec2{X: float32(def.TileWidth), Y: float32(def.TileHeight)},
			TilesetIndex: idx,
			LocalID:      local,
		}, true

	case Collection:
		tex, ok := b.Textures[local]
		if !ok || !tex.Valid() {
			return Resolved{}, false
		}
		w, h := tex.Width, tex.Height
		if img, ok := def.Images[local]; ok && img.Width > 0 && img.Height > 0 {
			w, h = img.Width, img.Height
		}
		return Resolved{
			Texture:      tex,
			UVMin:        math.Vec2{X: 0, Y: 0},
			UVMax:        math.Vec2{X: 1, Y: 1},
			Size:         math.Vec2{X: float32(w), Y: float32(h)},
			FullTexture:  true,
			TilesetIndex: idx,
			LocalID:      local,
		}, true
	}

	return Resolved{}, false
}
