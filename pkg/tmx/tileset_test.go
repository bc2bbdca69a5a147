package tmx

import (
	"errors"
	"testing"
)

func TestDecodeGID(t *testing.T) {
	tests := []struct {
		raw  uint32
		gid  uint32
		h, v bool
		d    bool
	}{
		{0, 0, false, false, false},
		{5, 5, false, false, false},
		{0x80000005, 5, true, false, false},
		{0x40000005, 5, false, true, false},
		{0x20000005, 5, false, false, true},
		{0xE0000000 | 0x1FFFFFFF, 0x1FFFFFFF, true, true, true},
	}

	for _, tt := range tests {
		gid, f := DecodeGID(tt.raw)
		if gid != tt.gid || f.Horizontal() != tt.h || f.Vertical() != tt.v || f.Diagonal() != tt.d {
			t.Errorf("DecodeGID(%#x) = %d, %#x", tt.raw, gid, uint32(f))
		}
	}
}

func TestFindTileset(t *testing.T) {
	tilesets := []*Tileset{
		{FirstGID: 1, TileCount: 8},
		{FirstGID: 9, TileCount: 4},
		{FirstGID: 100, TileCount: 1},
	}

	tests := []struct {
		gid  uint32
		want int
	}{
		{0, -1},
		{1, 0},
		{8, 0},
		{9, 1},
		{12, 1},
		{50, 1}, // owner by firstgid; LocalID rejects it
		{100, 2},
		{1 << 20, 2},
	}

	for _, tt := range tests {
		if got := FindTileset(tilesets, tt.gid); got != tt.want {
			t.Errorf("FindTileset(%d) = %d, want %d", tt.gid, got, tt.want)
		}
	}

	if _, ok := tilesets[1].LocalID(50); ok {
		t.Error("LocalID(50) should exceed tile count")
	}
	if local, ok := tilesets[1].LocalID(9); !ok || local != 0 {
		t.Errorf("LocalID(9) = %d, %v", local, ok)
	}
	if FindTileset(tilesets[1:], 3) != -1 {
		t.Error("gid below every firstgid should have no owner")
	}
}

func TestLocalIDSparseCollection(t *testing.T) {
	// Tiled keeps ids of deleted collection tiles, so tilecount=3 can hold
	// ids 0, 1 and 5.
	ts := &Tileset{FirstGID: 10, TileCount: 3, Kind: BackingCollection}
	if local, ok := ts.LocalID(15); !ok || local != 5 {
		t.Errorf("LocalID(15) = %d, %v, want 5, true", local, ok)
	}
	if _, ok := ts.LocalID(9); ok {
		t.Error("LocalID below firstgid should fail")
	}
}

func TestParseTileset(t *testing.T) {
	data := []byte(`<tileset name="fx" tilewidth="32" tileheight="32" columns="4">
  <image source="fx.png" width="128" height="64"/>
  <tile id="0">
    <properties>
      <property name="slow" value=" TRUE "/>
      <property name="water" value="no"/>
    </properties>
    <animation>
      <frame duration="50"/>
      <frame tileid="1" duration="-3"/>
    </animation>
  </tile>
  <tile id="3"><animation/></tile>
  <tile><properties><property name="blocking" value="true"/></properties></tile>
</tileset>`)

	ts, err := ParseTileset(data, "assets", 5, 64, 32)
	if err != nil {
		t.Fatalf("ParseTileset() error = %v", err)
	}
	if ts.FirstGID != 5 || ts.TileCount != 8 {
		t.Errorf("FirstGID/TileCount = %d/%d", ts.FirstGID, ts.TileCount)
	}
	if ts.Sheet.Path != "assets/fx.png" {
		t.Errorf("Sheet.Path = %q", ts.Sheet.Path)
	}

	flags := ts.FlagsFor(0)
	if !flags.Slow || flags.Water || flags.Blocking {
		t.Errorf("FlagsFor(0) = %+v, want slow only", flags)
	}
	if len(ts.Flags) != 1 {
		t.Errorf("tiles without id should be ignored, flags = %v", ts.Flags)
	}

	anim := ts.AnimationFor(0)
	if anim == nil {
		t.Fatal("AnimationFor(0) = nil")
	}
	want := []Frame{{TileID: 0, DurationMs: 50}, {TileID: 1, DurationMs: DefaultFrameDurationMs}}
	for i, f := range want {
		if anim.Frames[i] != f {
			t.Errorf("frame %d = %+v, want %+v", i, anim.Frames[i], f)
		}
	}
	if anim.TotalDurationMs != 150 {
		t.Errorf("TotalDurationMs = %d, want 150", anim.TotalDurationMs)
	}
	if ts.AnimationFor(3) != nil {
		t.Error("empty animation should be inactive")
	}
}

func TestParseTilesetWrongRoot(t *testing.T) {
	_, err := ParseTileset([]byte(`<map/>`), ".", 1, 32, 32)
	if !errors.Is(err, ErrNoTilesetElement) {
		t.Errorf("ParseTileset() error = %v, want %v", err, ErrNoTilesetElement)
	}
}

func TestTileFlagsOr(t *testing.T) {
	a := TileFlags{Blocking: true}
	b := TileFlags{Water: true}
	got := a.Or(b)
	if !got.Blocking || !got.Water || got.Slow {
		t.Errorf("Or() = %+v", got)
	}
	if (TileFlags{}).Any() {
		t.Error("zero flags should report none")
	}
}
