// Package world owns the loaded map and answers collision, door and spawn
// queries against it.
package world

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-iso/internal/engine/tilemap"
	"github.com/Faultbox/midgard-iso/internal/engine/tiles"
	"github.com/Faultbox/midgard-iso/pkg/iso"
	"github.com/Faultbox/midgard-iso/pkg/math"
	"github.com/Faultbox/midgard-iso/pkg/tmx"
)

// DefaultHalfExtents is the half size, in cells, of an actor's collision box.
var DefaultHalfExtents = math.Vec2{X: 0.05, Y: 0.05}

// Level is a fully built map: loaded data, textures and draw grid.
type Level struct {
	Map      *tmx.Map
	Catalog  *tiles.Catalog
	Resolver *tiles.Resolver
	Grid     *tilemap.Grid
}

// IsBlocked reports whether cell (tx, ty) is impassable. Cells outside the
// map are impassable.
func (l *Level) IsBlocked(tx, ty int) bool {
	return l.Map.Blocked(tx, ty)
}

// CollidesAt reports whether a box centered at grid position pos with the
// given half extents touches an impassable cell.
func (l *Level) CollidesAt(pos, half math.Vec2) bool {
	corners := [4]math.Vec2{
		{X: pos.X - half.X, Y: pos.Y - half.Y},
		{X: pos.X + half.X, Y: pos.Y - half.Y},
		{X: pos.X - half.X, Y: pos.Y + half.Y},
		{X: pos.X + half.X, Y: pos.Y + half.Y},
	}

	for _, c := range corners {
		if l.IsBlocked(c.Floor()) {
			return true
		}
	}
	return false
}

// MoveAndSlide moves pos by delta one axis at a time, dropping the part of
// the move that would collide, so actors slide along walls. The result is
// clamped so the box stays inside the map.
func (l *Level) MoveAndSlide(pos, delta, half math.Vec2) math.Vec2 {
	if delta.X != 0 {
		test := math.Vec2{X: pos.X + delta.X, Y: pos.Y}
		if !l.CollidesAt(test, half) {
			pos = test
		}
	}
	if delta.Y != 0 {
		test := math.Vec2{X: pos.X, Y: pos.Y + delta.Y}
		if !l.CollidesAt(test, half) {
			pos = test
		}
	}

	pos.X = clamp(pos.X, half.X, float32(l.Map.Width)-half.X)
	pos.Y = clamp(pos.Y, half.Y, float32(l.Map.Height)-half.Y)
	return pos
}

// DoorAt returns the first door whose rectangle contains p, given in
// authored object pixels.
func (l *Level) DoorAt(p math.Vec2) (tmx.Door, bool) {
	for _, d := range l.Map.Doors {
		if d.Rect().Contains(p) {
			return d, true
		}
	}
	return tmx.Door{}, false
}

// DoorAtGrid returns the door under an actor standing at grid position g.
func (l *Level) DoorAtGrid(g math.Vec2) (tmx.Door, bool) {
	return l.DoorAt(iso.GridToObjectPixels(g, l.Map.TileWidth, l.Map.TileHeight))
}

// SpawnGrid returns the grid position of the named spawn.
func (l *Level) SpawnGrid(name string) (math.Vec2, bool) {
	s, ok := l.Map.Spawn(name)
	if !ok {
		return math.Vec2{}, false
	}
	return iso.ObjectPixelsToGrid(s.Pos, l.Map.TileWidth, l.Map.TileHeight), true
}

// Center returns the grid position of the map's center cell.
func (l *Level) Center() math.Vec2 {
	return math.Vec2{
		X: float32(l.Map.Width/2) + 0.5,
		Y: float32(l.Map.Height/2) + 0.5,
	}
}

// StartPosition returns the named spawn, or the map center when the map has
// no such spawn.
func (l *Level) StartPosition(spawn string) math.Vec2 {
	if spawn != "" {
		if g, ok := l.SpawnGrid(spawn); ok {
			return g
		}
	}
	return l.Center()
}

func clamp(v, lo, hi float32) float32 {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for load reports.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithFS makes the manager read maps and tilesets from fsys. Texture loading
// is left to the TextureLoader.
func WithFS(fsys fs.FS) Option {
	return func(m *Manager) {
		m.fsys = fsys
	}
}

// Manager manages the current level and map transitions.
type Manager struct {
	textures tiles.TextureLoader
	origin   math.Vec2
	log      *zap.Logger
	fsys     fs.FS

	current *Level
	loading bool
}

// NewManager creates a manager whose maps are drawn with cell (0,0) at
// origin.
func NewManager(textures tiles.TextureLoader, origin math.Vec2, opts ...Option) *Manager {
	m := &Manager{
		textures: textures,
		origin:   origin,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the current level, or nil before the first load.
func (m *Manager) Current() *Level {
	return m.current
}

// IsLoading reports whether a load is in progress.
func (m *Manager) IsLoading() bool {
	return m.loading
}

// SetOrigin moves the map anchor, e.g. after a viewport resize.
func (m *Manager) SetOrigin(origin math.Vec2) {
	m.origin = origin
	if m.current != nil {
		m.current.Grid.Origin = origin
	}
}

// Load builds a level from the map at name and makes it current. The current
// level is replaced only when every step succeeds; on error it is left as is.
func (m *Manager) Load(name string) (*Level, error) {
	m.loading = true
	defer func() { m.loading = false }()

	l, err := m.build(name)
	if err != nil {
		m.log.Error("map load failed", zap.String("path", name), zap.Error(err))
		return nil, err
	}

	m.current = l
	return l, nil
}

func (m *Manager) build(name string) (*Level, error) {
	var opts []tmx.Option
	opts = append(opts, tmx.WithLogger(m.log))
	if m.fsys != nil {
		opts = append(opts, tmx.WithFS(m.fsys))
	}

	mp, err := tmx.LoadFile(name, opts...)
	if err != nil {
		return nil, err
	}
	for _, w := range mp.Diagnostics() {
		m.log.Warn("map diagnostic", zap.String("path", name), zap.String("problem", w))
	}

	cat, err := tiles.BuildCatalog(mp, m.textures, m.log)
	if err != nil {
		return nil, fmt.Errorf("building tilesets for %s: %w", name, err)
	}

	return &Level{
		Map:      mp,
		Catalog:  cat,
		Resolver: tiles.NewResolver(cat),
		Grid:     tilemap.NewGrid(mp, m.origin),
	}, nil
}

// EnterDoor loads the door's target map and returns the grid position of its
// target spawn, or the new map's center when the spawn is missing. The target
// path is relative to the current map's directory.
func (m *Manager) EnterDoor(d tmx.Door) (*Level, math.Vec2, error) {
	if d.TargetMap == "" {
		return nil, math.Vec2{}, fmt.Errorf("door has no target map")
	}

	target := d.TargetMap
	if m.current != nil && !filepath.IsAbs(target) {
		target = m.join(m.current.Map.Path, target)
	}

	l, err := m.Load(target)
	if err != nil {
		return nil, math.Vec2{}, fmt.Errorf("entering door to %s: %w", d.TargetMap, err)
	}

	pos, ok := l.SpawnGrid(d.TargetSpawn)
	if !ok {
		pos = l.Center()
		m.log.Warn("door spawn not found, using map center",
			zap.String("map", target),
			zap.String("spawn", d.TargetSpawn))
	}

	m.log.Info("entered door",
		zap.String("map", target),
		zap.String("spawn", d.TargetSpawn),
		zap.Float32("x", pos.X),
		zap.Float32("y", pos.Y))

	return l, pos, nil
}

func (m *Manager) join(current, rel string) string {
	if m.fsys != nil {
		return path.Join(path.Dir(current), rel)
	}
	return filepath.Join(filepath.Dir(current), rel)
}
