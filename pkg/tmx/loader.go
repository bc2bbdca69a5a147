package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-iso/pkg/math"
)

// Option configures a load.
type Option func(*loader)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithFS reads the map and its tilesets from fsys instead of the OS
// filesystem. Paths are then slash-separated and relative to the root of fsys.
func WithFS(fsys fs.FS) Option {
	return func(l *loader) {
		l.fsys = fsys
	}
}

type loader struct {
	log  *zap.Logger
	fsys fs.FS
}

func newLoader(opts []Option) *loader {
	l := &loader{log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *loader) readFile(name string) ([]byte, error) {
	if l.fsys != nil {
		return fs.ReadFile(l.fsys, path.Clean(name))
	}
	return os.ReadFile(name)
}

func (l *loader) join(dir, rel string) string {
	if l.fsys != nil {
		return path.Join(dir, rel)
	}
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(dir, rel)
}

func (l *loader) dir(name string) string {
	if l.fsys != nil {
		return path.Dir(name)
	}
	return filepath.Dir(name)
}

// LoadFile loads the TMX document at path along with its external tilesets.
//
// Errors in the document structure or its tilesets abort the load. Problems
// confined to a single layer only skip that layer and are reported through
// Map.Warnings.
func LoadFile(name string, opts ...Option) (*Map, error) {
	l := newLoader(opts)

	data, err := l.readFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading map %s: %w", name, err)
	}

	m, err := l.parse(data, l.dir(name))
	if err != nil {
		return nil, fmt.Errorf("loading map %s: %w", name, err)
	}
	m.Path = name

	l.log.Info("map loaded",
		zap.String("path", name),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.Int("tilesets", len(m.Tilesets)),
		zap.Bool("ground", m.HasGround()),
		zap.Bool("walls", m.HasWalls()),
		zap.Bool("overhead", m.HasOverhead()),
		zap.Bool("collisionLayer", m.HasCollisionLayer),
		zap.Int("doors", len(m.Doors)),
		zap.Int("spawns", len(m.Spawns)),
		zap.Int("instances", len(m.Instances)),
		zap.Int("warnings", len(multierr.Errors(m.Warnings))))

	return m, nil
}

// Parse parses a TMX document. External tilesets and images are resolved
// relative to baseDir.
func Parse(data []byte, baseDir string, opts ...Option) (*Map, error) {
	return newLoader(opts).parse(data, baseDir)
}

func (l *loader) parse(data []byte, baseDir string) (*Map, error) {
	var doc xmlMap
	if err := xml.Unmarshal(data, &doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoMapElement
		}
		return nil, fmt.Errorf("decoding map: %w", err)
	}
	if doc.XMLName.Local != "map" {
		return nil, ErrNoMapElement
	}

	m := &Map{
		Orientation: doc.Orientation,
		RenderOrder: doc.RenderOrder,
		Width:       doc.Width,
		Height:      doc.Height,
		TileWidth:   doc.TileWidth,
		TileHeight:  doc.TileHeight,
		Properties:  propertyMap(doc.Properties),
	}
	if m.Orientation != "" && m.Orientation != "isometric" {
		l.log.Warn("map is not isometric", zap.String("orientation", m.Orientation))
	}

	if len(doc.Tilesets) == 0 {
		return nil, ErrNoTileset
	}
	for _, ref := range doc.Tilesets {
		ts, err := l.loadTileset(ref, baseDir, m.TileWidth, m.TileHeight)
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, ts)
	}
	sort.SliceStable(m.Tilesets, func(i, j int) bool {
		return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID
	})

	b := &builder{loader: l, m: m, cells: m.cellCount()}
	b.m.Collision = make([]bool, b.cells)
	b.m.TileFlags = make([]TileFlags, b.cells)

	b.walk(doc.Children, math.Vec2{})
	b.aggregateFlags()

	return m, nil
}

// builder accumulates layers and objects into a map during the document walk.
type builder struct {
	*loader
	m     *Map
	cells int
}

func (b *builder) warn(err error) {
	b.log.Warn("skipping layer", zap.Error(err))
	b.m.Warnings = multierr.Append(b.m.Warnings, err)
}

// walk visits children in document order. offset is the accumulated pixel
// offset of the enclosing groups.
func (b *builder) walk(children []xmlChild, offset math.Vec2) {
	for _, c := range children {
		switch {
		case c.Layer != nil:
			b.addLayer(c.Layer)
		case c.ObjectGroup != nil:
			og := c.ObjectGroup
			b.addObjects(og, offset.Add(math.Vec2{X: og.OffsetX, Y: og.OffsetY}))
		case c.Group != nil:
			g := c.Group
			b.walk(g.Children, offset.Add(math.Vec2{X: g.OffsetX, Y: g.OffsetY}))
		}
	}
}

func (b *builder) addLayer(x *xmlLayer) {
	name := x.Name
	kind := strings.ToLower(name)

	switch kind {
	case "ground", "walls", "overhead", "collision":
	default:
		b.log.Debug("ignoring layer", zap.String("name", name))
		return
	}

	if x.Data == nil {
		b.warn(fmt.Errorf("layer %q: %w", name, ErrMissingLayerData))
		return
	}
	if enc := strings.ToLower(strings.TrimSpace(x.Data.Encoding)); enc != "csv" || x.Data.Compression != "" {
		b.warn(fmt.Errorf("layer %q encoding %q: %w", name, x.Data.Encoding, ErrUnsupportedEncoding))
		return
	}

	raw, err := decodeCSV(x.Data.Text)
	if err != nil {
		b.warn(fmt.Errorf("layer %q: %w", name, err))
		return
	}
	if len(raw) != b.cells {
		b.warn(fmt.Errorf("layer %q has %d cells, want %d: %w", name, len(raw), b.cells, ErrLayerSizeMismatch))
		return
	}

	if kind == "collision" {
		for i, v := range raw {
			b.m.Collision[i] = v&GIDMask != 0
		}
		b.m.HasCollisionLayer = true
		return
	}

	for i, v := range raw {
		raw[i] = v & GIDMask
	}
	layer := &TileLayer{Name: name, GIDs: raw, Visible: visibleAttr(x.Visible)}

	switch kind {
	case "ground":
		b.m.Ground = layer
	case "walls":
		b.m.Walls = layer
	case "overhead":
		b.m.Overhead = layer
	}
}

// decodeCSV parses comma-separated raw tile values. Empty tokens are ignored.
func decodeCSV(text string) ([]uint32, error) {
	fields := strings.Split(text, ",")
	out := make([]uint32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCSV, f)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

func (b *builder) addObjects(og *xmlObjectGroup, offset math.Vec2) {
	for _, o := range og.Objects {
		pos := math.Vec2{X: o.X, Y: o.Y}.Add(offset)
		size := math.Vec2{X: o.Width, Y: o.Height}
		typ := o.Type
		if typ == "" {
			typ = o.Class
		}
		props := propertyMap(o.Properties)
		gid, flips := DecodeGID(o.GID)

		var placed PlacedObject
		switch {
		case gid != 0:
			placed = PlacedObject{Kind: KindTileInstance, Index: len(b.m.Instances)}
			b.m.Instances = append(b.m.Instances, b.instance(gid, flips, pos, size, o.Name, typ))
		case typ == "Door":
			placed = PlacedObject{Kind: KindDoor, Index: len(b.m.Doors)}
			b.m.Doors = append(b.m.Doors, Door{
				Pos:         pos,
				Size:        size,
				TargetMap:   props["targetMap"],
				TargetSpawn: props["targetSpawn"],
			})
		case typ == "Spawn":
			placed = PlacedObject{Kind: KindSpawn, Index: len(b.m.Spawns)}
			b.m.Spawns = append(b.m.Spawns, Spawn{Name: o.Name, Pos: pos})
		default:
			placed = PlacedObject{Kind: KindGeneric, Index: len(b.m.Objects)}
			b.m.Objects = append(b.m.Objects, Object{
				ID:         o.ID,
				Name:       o.Name,
				Type:       typ,
				Pos:        pos,
				Size:       size,
				Properties: props,
			})
		}
		b.m.Placed = append(b.m.Placed, placed)
	}
}

// instance builds a tile object. Its size is the authored size, or the owning
// tileset's tile size when the object has none.
func (b *builder) instance(gid uint32, flips Flip, pos, size math.Vec2, name, typ string) ObjectInstance {
	if size.X <= 0 || size.Y <= 0 {
		w, h := b.m.TileWidth, b.m.TileHeight
		if i := FindTileset(b.m.Tilesets, gid); i >= 0 {
			w, h = b.m.Tilesets[i].TileWidth, b.m.Tilesets[i].TileHeight
		}
		size = math.Vec2{X: float32(w), Y: float32(h)}
	}

	return ObjectInstance{
		GID:      gid,
		Flips:    flips,
		WorldPos: math.Vec2{X: pos.X - size.X*0.5, Y: pos.Y - size.Y},
		Size:     size,
		Name:     name,
		Type:     typ,
	}
}

// aggregateFlags ORs tile flags across the drawable layers and marks every
// blocking cell as colliding.
func (b *builder) aggregateFlags() {
	layers := []*TileLayer{b.m.Ground, b.m.Walls, b.m.Overhead}
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		for i, gid := range layer.GIDs {
			ts, local, ok := b.m.TilesetFor(gid)
			if !ok {
				continue
			}
			b.m.TileFlags[i] = b.m.TileFlags[i].Or(ts.FlagsFor(local))
		}
	}

	for i, f := range b.m.TileFlags {
		if f.Blocking {
			b.m.Collision[i] = true
		}
	}
}
