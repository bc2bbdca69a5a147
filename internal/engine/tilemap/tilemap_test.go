package tilemap

import (
	"testing"

	"github.com/Faultbox/midgard-iso/internal/engine/camera"
	"github.com/Faultbox/midgard-iso/internal/engine/renderqueue"
	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/internal/engine/tiles"
	"github.com/Faultbox/midgard-iso/pkg/math"
	"github.com/Faultbox/midgard-iso/pkg/tmx"
)

type drawCall struct {
	tex          uint32
	pos, size    math.Vec2
	uvMin, uvMax math.Vec2
}

type fakeRasterizer struct {
	calls []drawCall
}

func (r *fakeRasterizer) Draw(tex texture.Handle, topLeft, size math.Vec2, _ *camera.Camera2D, uvMin, uvMax math.Vec2) {
	r.calls = append(r.calls, drawCall{tex: tex.ID, pos: topLeft, size: size, uvMin: uvMin, uvMax: uvMax})
}

var testOrigin = math.Vec2{X: 400, Y: 60}

// createTestMap builds a 3x2 map of 64x32 tiles. Gids 1-4 come from a 2x2
// sheet; gid 5 is a 64x96 collection tile.
func createTestMap() *tmx.Map {
	sheet := &tmx.Tileset{
		FirstGID: 1, TileWidth: 64, TileHeight: 32, TileCount: 4,
		Kind:  tmx.BackingSheet,
		Sheet: tmx.Image{Path: "sheet.png", Width: 128, Height: 64},
	}
	coll := &tmx.Tileset{
		FirstGID: 5, TileWidth: 64, TileHeight: 96, TileCount: 1,
		Kind:   tmx.BackingCollection,
		Images: map[int]tmx.Image{0: {Path: "tower.png", Width: 64, Height: 96}},
	}

	return &tmx.Map{
		Width: 3, Height: 2, TileWidth: 64, TileHeight: 32,
		Tilesets: []*tmx.Tileset{sheet, coll},
		Ground:   &tmx.TileLayer{Name: "ground", GIDs: []uint32{1, 1, 1, 1, 1, 1}, Visible: true},
		Walls:    &tmx.TileLayer{Name: "walls", GIDs: []uint32{0, 2, 0, 3, 0, 0}, Visible: true},
		Overhead: &tmx.TileLayer{Name: "overhead", GIDs: []uint32{4, 4, 4, 4, 4, 4}, Visible: false},
	}
}

func createTestResolver(m *tmx.Map) *tiles.Resolver {
	return tiles.NewResolver(&tiles.Catalog{Tilesets: []tiles.Runtime{
		tiles.NewSheet(m.Tilesets[0], texture.Handle{ID: 1, Width: 128, Height: 64}),
		tiles.NewCollection(m.Tilesets[1], map[int]texture.Handle{0: {ID: 2, Width: 64, Height: 96}}),
	}})
}

func TestDrawGroundDiagonalOrder(t *testing.T) {
	m := createTestMap()
	g := NewGrid(m, testOrigin)
	r := &fakeRasterizer{}

	n := g.DrawGround(r, createTestResolver(m), nil, 0)
	if n != 6 || len(r.calls) != 6 {
		t.Fatalf("drew %d tiles (%d calls), want 6", n, len(r.calls))
	}

	order := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}
	for i, cell := range order {
		want := g.CellTopLeft(cell[0], cell[1])
		if r.calls[i].pos != want {
			t.Errorf("draw %d at %v, want cell %v at %v", i, r.calls[i].pos, cell, want)
		}
		if r.calls[i].size != (math.Vec2{X: 64, Y: 32}) {
			t.Errorf("draw %d size = %v", i, r.calls[i].size)
		}
	}
}

func TestDrawGroundSkipsEmptyCells(t *testing.T) {
	m := createTestMap()
	m.Ground.GIDs = []uint32{0, 1, 99, 0, 0, 1}
	g := NewGrid(m, testOrigin)
	r := &fakeRasterizer{}

	if n := g.DrawGround(r, createTestResolver(m), nil, 0); n != 2 {
		t.Errorf("drew %d tiles, want 2 (empty and unresolvable cells skipped)", n)
	}
}

func TestDrawOverheadSkipsHiddenLayer(t *testing.T) {
	m := createTestMap()
	g := NewGrid(m, testOrigin)
	r := &fakeRasterizer{}

	if n := g.DrawOverhead(r, createTestResolver(m), nil, 0); n != 0 {
		t.Errorf("hidden overhead drew %d tiles", n)
	}

	m.Overhead.Visible = true
	if n := g.DrawOverhead(r, createTestResolver(m), nil, 0); n != 6 {
		t.Errorf("visible overhead drew %d tiles, want 6", n)
	}
}

func TestDrawMissingLayer(t *testing.T) {
	m := createTestMap()
	m.Ground = nil
	g := NewGrid(m, testOrigin)

	if n := g.DrawGround(&fakeRasterizer{}, createTestResolver(m), nil, 0); n != 0 {
		t.Errorf("absent ground drew %d tiles", n)
	}
}

func TestAppendOccluders(t *testing.T) {
	m := createTestMap()
	m.Instances = []tmx.ObjectInstance{{
		GID:      5,
		WorldPos: math.Vec2{X: -32, Y: -64},
		Size:     math.Vec2{X: 64, Y: 96},
	}}
	g := NewGrid(m, testOrigin)
	q := renderqueue.New(8)

	if n := g.AppendOccluders(q, createTestResolver(m), nil, 0); n != 3 {
		t.Fatalf("pushed %d commands, want 3", n)
	}

	items := q.Items()
	// Walls at (1,0) and (0,1) share a diagonal; traversal pushes (0,1) first.
	if items[0].Pos != g.CellTopLeft(0, 1) || items[1].Pos != g.CellTopLeft(1, 0) {
		t.Errorf("wall order = %v, %v", items[0].Pos, items[1].Pos)
	}
	if items[0].Depth != items[1].Depth {
		t.Errorf("same-diagonal walls should tie: %v vs %v", items[0].Depth, items[1].Depth)
	}
	if want := g.CellFeet(1, 0).Y; items[1].Depth != want {
		t.Errorf("wall depth = %v, want feet Y %v", items[1].Depth, want)
	}

	inst := items[2]
	if inst.Texture.ID != 2 || inst.Pos != testOrigin.Add(math.Vec2{X: -32, Y: -64}) {
		t.Errorf("instance cmd = %+v", inst)
	}
	if inst.Depth != testOrigin.Y+32 {
		t.Errorf("instance depth = %v, want anchor Y %v", inst.Depth, testOrigin.Y+32)
	}
}

func TestTallSpritesStandOnFeet(t *testing.T) {
	m := createTestMap()
	m.Walls.GIDs = []uint32{0, 0, 0, 0, 5, 0}
	g := NewGrid(m, testOrigin)
	q := renderqueue.New(1)

	g.AppendOccluders(q, createTestResolver(m), nil, 0)
	if q.Len() != 1 {
		t.Fatalf("pushed %d, want 1", q.Len())
	}

	cmd := q.Items()[0]
	feet := g.CellFeet(1, 1)
	if cmd.Size != (math.Vec2{X: 64, Y: 96}) {
		t.Errorf("size = %v", cmd.Size)
	}
	if cmd.Pos.X != feet.X-32 || cmd.Pos.Y != feet.Y-96 {
		t.Errorf("pos = %v, want bottom-center on feet %v", cmd.Pos, feet)
	}
}

func TestInstanceFlipSwapsUV(t *testing.T) {
	m := createTestMap()
	m.Instances = []tmx.ObjectInstance{{
		GID:   1,
		Flips: tmx.FlipHorizontal,
		Size:  math.Vec2{X: 64, Y: 32},
	}}
	m.Walls = nil
	g := NewGrid(m, testOrigin)
	q := renderqueue.New(1)

	g.AppendOccluders(q, createTestResolver(m), nil, 0)
	cmd := q.Items()[0]
	if cmd.UVMin.X <= cmd.UVMax.X {
		t.Errorf("horizontal flip should reverse U: %v-%v", cmd.UVMin, cmd.UVMax)
	}
	if cmd.UVMin.Y >= cmd.UVMax.Y {
		t.Errorf("V should be unchanged: %v-%v", cmd.UVMin, cmd.UVMax)
	}
}

func TestCulling(t *testing.T) {
	m := createTestMap()
	g := NewGrid(m, testOrigin)
	res := createTestResolver(m)

	cam := camera.New(800, 600)
	r := &fakeRasterizer{}
	if n := g.DrawGround(r, res, cam, 0); n != 6 {
		t.Errorf("on-screen map drew %d tiles, want 6", n)
	}

	cam.SetPosition(math.Vec2{X: 5000, Y: 5000})
	if n := g.DrawGround(r, res, cam, 0); n != 0 {
		t.Errorf("off-screen map drew %d tiles", n)
	}
	if n := g.AppendOccluders(renderqueue.New(0), res, cam, 0); n != 0 {
		t.Errorf("off-screen map pushed %d occluders", n)
	}
}

func TestTileAt(t *testing.T) {
	g := NewGrid(createTestMap(), testOrigin)

	tests := []struct {
		layer Layer
		x, y  int
		want  uint32
	}{
		{Walls, 1, 0, 2},
		{Walls, 0, 1, 3},
		{Ground, 2, 1, 1},
		{Ground, 3, 0, 0},
		{Ground, -1, 0, 0},
		{Ground, 0, 2, 0},
		{Layer(7), 0, 0, 0},
	}

	for _, tt := range tests {
		if got := g.TileAt(tt.layer, tt.x, tt.y); got != tt.want {
			t.Errorf("TileAt(%d, %d, %d) = %d, want %d", tt.layer, tt.x, tt.y, got, tt.want)
		}
	}
}
