package tmx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sheetTileset is a 2x2 atlas of 64x32 tiles with an inferred tile count.
const sheetTileset = `<tileset firstgid="1" name="terrain" tilewidth="64" tileheight="32" columns="2">
  <image source="terrain.png" width="128" height="64"/>
</tileset>`

// createTestMap builds an isometric TMX document with 64x32 tiles.
func createTestMap(width, height int, inner ...string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="isometric" renderorder="right-down" width="%d" height="%d" tilewidth="64" tileheight="32">
%s
</map>`, width, height, strings.Join(inner, "\n"))
}

// csvLayer builds a CSV tile layer element.
func csvLayer(name string, values ...uint32) string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf(`<layer name=%q width="2" height="2"><data encoding="csv">
%s
</data></layer>`, name, strings.Join(cells, ","))
}

// writeTestFile writes content under dir, creating parent directories.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// loadTestMap writes a map document to a temp dir and loads it.
func loadTestMap(t *testing.T, doc string) *Map {
	t.Helper()

	p := writeTestFile(t, t.TempDir(), "level.tmx", doc)
	m, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	return m
}
