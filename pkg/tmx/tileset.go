package tmx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// DefaultFrameDurationMs is used for animation frames without a positive duration.
const DefaultFrameDurationMs = 100

// ParseTileset parses a standalone TSX document.
// Relative image paths are resolved against baseDir. Tile sizes missing from
// the document fall back to fallbackW x fallbackH.
func ParseTileset(data []byte, baseDir string, firstGID uint32, fallbackW, fallbackH int) (*Tileset, error) {
	l := newLoader(nil)
	return l.parseTileset(data, baseDir, firstGID, fallbackW, fallbackH)
}

func (l *loader) parseTileset(data []byte, baseDir string, firstGID uint32, fallbackW, fallbackH int) (*Tileset, error) {
	var doc xmlTileset
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding tileset: %w", err)
	}
	if doc.XMLName.Local != "tileset" {
		return nil, ErrNoTilesetElement
	}
	return l.buildTileset(doc, baseDir, firstGID, fallbackW, fallbackH)
}

// loadTileset builds a tileset from a map's <tileset> element, following the
// source attribute to an external TSX document when present.
func (l *loader) loadTileset(ref xmlTileset, mapDir string, fallbackW, fallbackH int) (*Tileset, error) {
	firstGID := ref.FirstGID
	if firstGID == 0 {
		firstGID = 1
	}

	if ref.Source == "" {
		return l.buildTileset(ref, mapDir, firstGID, fallbackW, fallbackH)
	}

	path := l.join(mapDir, ref.Source)
	data, err := l.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tileset %s: %w", path, err)
	}

	ts, err := l.parseTileset(data, l.dir(path), firstGID, fallbackW, fallbackH)
	if err != nil {
		return nil, fmt.Errorf("tileset %s: %w", path, err)
	}
	ts.Source = path
	return ts, nil
}

func (l *loader) buildTileset(x xmlTileset, baseDir string, firstGID uint32, fallbackW, fallbackH int) (*Tileset, error) {
	ts := &Tileset{
		Name:       x.Name,
		FirstGID:   firstGID,
		TileWidth:  x.TileWidth,
		TileHeight: x.TileHeight,
		Columns:    x.Columns,
		TileCount:  x.TileCount,
		Flags:      make(map[int]TileFlags),
		Animations: make(map[int]*Animation),
	}

	if x.Image != nil && x.Image.Source != "" {
		if err := l.buildSheet(ts, x, baseDir, fallbackW, fallbackH); err != nil {
			return nil, err
		}
	} else if err := l.buildCollection(ts, x, baseDir, fallbackW, fallbackH); err != nil {
		return nil, err
	}

	for _, tile := range x.Tiles {
		if tile.ID == nil || *tile.ID < 0 {
			continue
		}
		id := *tile.ID

		if flags := parseTileFlags(tile.Properties); flags.Any() {
			ts.Flags[id] = flags
		}
		if anim := parseAnimation(tile.Animation, id); anim.Active() {
			ts.Animations[id] = anim
		}
	}

	return ts, nil
}

func (l *loader) buildSheet(ts *Tileset, x xmlTileset, baseDir string, fallbackW, fallbackH int) error {
	ts.Kind = BackingSheet
	ts.Sheet = Image{
		Path:   l.join(baseDir, x.Image.Source),
		Width:  x.Image.Width,
		Height: x.Image.Height,
	}

	if ts.TileWidth <= 0 {
		ts.TileWidth = fallbackW
	}
	if ts.TileHeight <= 0 {
		ts.TileHeight = fallbackH
	}
	if ts.Columns <= 0 && ts.TileWidth > 0 {
		ts.Columns = ts.Sheet.Width / ts.TileWidth
	}
	if ts.TileCount <= 0 && ts.Columns > 0 && ts.TileHeight > 0 {
		ts.TileCount = ts.Columns * (ts.Sheet.Height / ts.TileHeight)
	}
	if ts.TileCount <= 0 {
		return fmt.Errorf("sheet %q: %w", ts.Name, ErrTileCountUnknown)
	}
	return nil
}

func (l *loader) buildCollection(ts *Tileset, x xmlTileset, baseDir string, fallbackW, fallbackH int) error {
	ts.Kind = BackingCollection
	ts.Images = make(map[int]Image)

	maxW, maxH, maxID := 0, 0, -1
	for _, tile := range x.Tiles {
		if tile.ID == nil || *tile.ID < 0 || tile.Image == nil || tile.Image.Source == "" {
			continue
		}
		id := *tile.ID
		ts.Images[id] = Image{
			Path:   l.join(baseDir, tile.Image.Source),
			Width:  tile.Image.Width,
			Height: tile.Image.Height,
		}
		maxW = max(maxW, tile.Image.Width)
		maxH = max(maxH, tile.Image.Height)
		maxID = max(maxID, id)
	}
	if len(ts.Images) == 0 {
		return fmt.Errorf("tileset %q: %w", ts.Name, ErrTilesetImage)
	}

	if ts.TileWidth <= 0 {
		ts.TileWidth = maxW
	}
	if ts.TileHeight <= 0 {
		ts.TileHeight = maxH
	}
	if ts.TileWidth <= 0 {
		ts.TileWidth = fallbackW
	}
	if ts.TileHeight <= 0 {
		ts.TileHeight = fallbackH
	}
	if ts.TileCount <= 0 {
		ts.TileCount = maxID + 1
	}
	return nil
}

func parseTileFlags(props []xmlProperty) TileFlags {
	var flags TileFlags
	for _, p := range props {
		if !truthy(p.value()) {
			continue
		}
		switch p.Name {
		case "blocking":
			flags.Blocking = true
		case "water":
			flags.Water = true
		case "slow":
			flags.Slow = true
		}
	}
	return flags
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// parseAnimation converts an <animation> element. Frames without a tileid
// show the animated tile itself.
func parseAnimation(x *xmlAnimation, tileID int) *Animation {
	if x == nil || len(x.Frames) == 0 {
		return nil
	}

	anim := &Animation{Frames: make([]Frame, 0, len(x.Frames))}
	for _, f := range x.Frames {
		id := tileID
		if f.TileID != nil {
			id = *f.TileID
		}
		dur := f.Duration
		if dur <= 0 {
			dur = DefaultFrameDurationMs
		}
		anim.Frames = append(anim.Frames, Frame{TileID: id, DurationMs: dur})
		anim.TotalDurationMs += dur
	}
	return anim
}
