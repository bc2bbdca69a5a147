// Package tmx loads Tiled XML maps (TMX) and tilesets (TSX) into a resolved,
// collidable map model.
//
// Only CSV-encoded tile layers are supported. Layers named "ground", "walls"
// and "overhead" (case-insensitive) populate the drawable grids, a layer named
// "collision" populates the collision grid, and object groups may be nested in
// groups whose pixel offsets accumulate onto every descendant object.
package tmx

import (
	"sort"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-iso/pkg/math"
)

// TileFlags are gameplay properties attached to a tile.
type TileFlags struct {
	Blocking bool
	Water    bool
	Slow     bool
}

// Or returns the union of f and o.
func (f TileFlags) Or(o TileFlags) TileFlags {
	return TileFlags{
		Blocking: f.Blocking || o.Blocking,
		Water:    f.Water || o.Water,
		Slow:     f.Slow || o.Slow,
	}
}

// Any reports whether any flag is set.
func (f TileFlags) Any() bool {
	return f.Blocking || f.Water || f.Slow
}

// Frame is one step of a tile animation.
type Frame struct {
	TileID     int // local tile id within the owning tileset
	DurationMs int
}

// Animation is an ordered cycle of frames.
type Animation struct {
	Frames          []Frame
	TotalDurationMs int
}

// Active reports whether the animation can drive frame selection.
func (a *Animation) Active() bool {
	return a != nil && len(a.Frames) > 0 && a.TotalDurationMs > 0
}

// BackingKind tells how a tileset stores its pixels.
type BackingKind int

const (
	// BackingSheet is a single atlas image cut into a uniform grid.
	BackingSheet BackingKind = iota
	// BackingCollection stores one image per tile.
	BackingCollection
)

// String returns the Tiled name of the backing kind.
func (k BackingKind) String() string {
	if k == BackingCollection {
		return "collection"
	}
	return "sheet"
}

// Image is an image file referenced by a tileset, with authored dimensions.
type Image struct {
	Path   string
	Width  int
	Height int
}

// Tileset is a tileset definition with its first global id.
type Tileset struct {
	Name     string
	Source   string // path of the external TSX document, empty when inline
	FirstGID uint32

	TileWidth  int
	TileHeight int
	Columns    int
	TileCount  int

	Kind   BackingKind
	Sheet  Image         // set when Kind == BackingSheet
	Images map[int]Image // local id -> image, set when Kind == BackingCollection

	Flags      map[int]TileFlags
	Animations map[int]*Animation
}

// LocalID converts a global id to this tileset's local id.
// ok is false when gid lies before FirstGID or, for sheets, past TileCount.
// Collection ids can be sparse, so they are only bounded below.
func (ts *Tileset) LocalID(gid uint32) (int, bool) {
	if gid < ts.FirstGID {
		return -1, false
	}
	local := int(gid - ts.FirstGID)
	if ts.Kind == BackingSheet && ts.TileCount > 0 && local >= ts.TileCount {
		return local, false
	}
	return local, true
}

// FlagsFor returns the property flags of a local tile id.
func (ts *Tileset) FlagsFor(local int) TileFlags {
	return ts.Flags[local]
}

// AnimationFor returns the active animation of a local tile id, or nil.
func (ts *Tileset) AnimationFor(local int) *Animation {
	anim := ts.Animations[local]
	if !anim.Active() {
		return nil
	}
	return anim
}

// FindTileset returns the index of the tileset owning gid: the one with the
// greatest FirstGID <= gid. Tilesets must be sorted by FirstGID.
// It returns -1 for gid 0 or when no tileset qualifies.
func FindTileset(tilesets []*Tileset, gid uint32) int {
	if gid == 0 {
		return -1
	}
	i := sort.Search(len(tilesets), func(i int) bool {
		return tilesets[i].FirstGID > gid
	})
	return i - 1
}

// TileLayer is one CSV tile layer with flip flags stripped.
type TileLayer struct {
	Name    string
	GIDs    []uint32 // row-major, 0 = empty
	Visible bool
}

// Door is a rectangular trigger leading to another map.
type Door struct {
	Pos         math.Vec2
	Size        math.Vec2
	TargetMap   string
	TargetSpawn string
}

// Rect returns the door trigger rectangle.
func (d Door) Rect() math.Rect {
	return math.Rect{Pos: d.Pos, Size: d.Size}
}

// Spawn is a named actor placement point.
type Spawn struct {
	Name string
	Pos  math.Vec2
}

// Object is an object that is not a door, spawn or tile instance.
type Object struct {
	ID         int
	Name       string
	Type       string
	Pos        math.Vec2
	Size       math.Vec2
	Properties map[string]string
}

// ObjectInstance is a tile stamped into an object group, such as a tree.
//
// Instances are anchored at the bottom-center of their sprite: WorldPos is
// the sprite's top-left in authored object space.
type ObjectInstance struct {
	GID      uint32
	Flips    Flip
	WorldPos math.Vec2
	Size     math.Vec2
	Name     string
	Type     string
}

// Anchor returns the authored bottom-center anchor of the instance.
func (o ObjectInstance) Anchor() math.Vec2 {
	return math.Vec2{X: o.WorldPos.X + o.Size.X*0.5, Y: o.WorldPos.Y + o.Size.Y}
}

// ObjectKind classifies an authored object.
type ObjectKind int

const (
	KindGeneric ObjectKind = iota
	KindTileInstance
	KindDoor
	KindSpawn
)

// String returns a display name for the kind.
func (k ObjectKind) String() string {
	switch k {
	case KindTileInstance:
		return "tile"
	case KindDoor:
		return "door"
	case KindSpawn:
		return "spawn"
	default:
		return "object"
	}
}

// PlacedObject records the classification of an authored object in document
// order. Index points into the slice matching Kind.
type PlacedObject struct {
	Kind  ObjectKind
	Index int
}

// Map is a fully loaded map. It is built once by the loader and replaced
// wholesale on map change.
type Map struct {
	Path        string
	Orientation string
	RenderOrder string

	Width      int // tiles
	Height     int // tiles
	TileWidth  int // pixels
	TileHeight int // pixels

	Properties map[string]string

	// Tilesets sorted ascending by FirstGID.
	Tilesets []*Tileset

	Ground   *TileLayer
	Walls    *TileLayer
	Overhead *TileLayer

	// Collision is row-major, true = impassable.
	Collision         []bool
	HasCollisionLayer bool

	// TileFlags holds the union of tile flags across the drawable layers.
	TileFlags []TileFlags

	Doors     []Door
	Spawns    []Spawn
	Objects   []Object
	Instances []ObjectInstance
	Placed    []PlacedObject

	// Warnings combines the recoverable per-layer problems met while loading.
	Warnings error
}

func (m *Map) cellCount() int {
	if m.Width <= 0 || m.Height <= 0 {
		return 0
	}
	return m.Width * m.Height
}

// HasGround reports whether a valid ground layer was loaded.
func (m *Map) HasGround() bool { return m.Ground != nil }

// HasWalls reports whether a valid walls layer was loaded.
func (m *Map) HasWalls() bool { return m.Walls != nil }

// HasOverhead reports whether a valid overhead layer was loaded.
func (m *Map) HasOverhead() bool { return m.Overhead != nil }

// HasCollision reports whether the collision grid covers the map.
func (m *Map) HasCollision() bool { return len(m.Collision) == m.cellCount() }

// InBounds reports whether (x, y) is a cell of the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Index returns the row-major index of cell (x, y).
func (m *Map) Index(x, y int) int {
	return y*m.Width + x
}

// Blocked reports whether cell (x, y) is impassable.
// Cells outside the map are impassable.
func (m *Map) Blocked(x, y int) bool {
	if !m.InBounds(x, y) || !m.HasCollision() {
		return true
	}
	return m.Collision[m.Index(x, y)]
}

// FlagsAt returns the aggregated tile flags of cell (x, y).
func (m *Map) FlagsAt(x, y int) TileFlags {
	if !m.InBounds(x, y) || len(m.TileFlags) != m.cellCount() {
		return TileFlags{}
	}
	return m.TileFlags[m.Index(x, y)]
}

// TilesetFor returns the tileset owning gid and the local id within it.
func (m *Map) TilesetFor(gid uint32) (*Tileset, int, bool) {
	i := FindTileset(m.Tilesets, gid)
	if i < 0 {
		return nil, -1, false
	}
	ts := m.Tilesets[i]
	local, ok := ts.LocalID(gid)
	if !ok {
		return nil, -1, false
	}
	return ts, local, true
}

// Spawn returns the spawn with the given name.
func (m *Map) Spawn(name string) (Spawn, bool) {
	for _, s := range m.Spawns {
		if s.Name == name {
			return s, true
		}
	}
	return Spawn{}, false
}

// Diagnostics lists the recoverable problems met while loading.
func (m *Map) Diagnostics() []string {
	errs := multierr.Errors(m.Warnings)
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
