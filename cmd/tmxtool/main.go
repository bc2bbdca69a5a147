// tmxtool is a CLI utility for inspecting Tiled isometric maps without a
// window.
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/midgard-iso/internal/assets"
	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/internal/engine/tiles"
	"github.com/Faultbox/midgard-iso/internal/game/world"
	"github.com/Faultbox/midgard-iso/internal/logger"
	"github.com/Faultbox/midgard-iso/pkg/iso"
	"github.com/Faultbox/midgard-iso/pkg/math"
	"github.com/Faultbox/midgard-iso/pkg/tmx"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "layers":
		cmdLayers(args)
	case "objects", "obj":
		cmdObjects(args)
	case "resolve":
		cmdResolve(args)
	case "collision", "col":
		cmdCollision(args)
	case "path":
		cmdPath(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tmxtool - Tiled isometric map utility

Usage:
  tmxtool <command> [options]

Commands:
  info <map.tmx>                      Show map, tileset and object summary
  layers [-dump] <map.tmx>            List tile layers (optionally print gids)
  objects <map.tmx>                   List objects in document order
  resolve [-no-images] <map.tmx> <gid> [clockMs]
                                      Resolve a global tile id to a region
  collision <map.tmx>                 Print the collision grid
  path <map.tmx> <x0> <y0> <x1> <y1>  Find a walkable path between cells

Common options:
  -v    Log loader diagnostics at debug level

Examples:
  tmxtool info assets/maps/town.tmx
  tmxtool resolve assets/maps/town.tmx 37 450
  tmxtool path assets/maps/town.tmx 1 1 8 6`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newFlagSet returns a flag set with the common -v flag.
func newFlagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	verbose := fs.Bool("v", false, "Log loader diagnostics at debug level")
	return fs, verbose
}

func loadMap(path string, verbose bool) *tmx.Map {
	level := "warn"
	if verbose {
		level = "debug"
	}
	// Diagnostics go to stderr so command output stays parseable.
	if err := logger.InitWithOptions(logger.Options{Level: level, Console: zapcore.Lock(os.Stderr)}); err != nil {
		fail("%v", err)
	}

	m, err := tmx.LoadFile(path, tmx.WithLogger(logger.Named("tmx")))
	if err != nil {
		fail("%v", err)
	}
	return m
}

func cmdInfo(args []string) {
	fs, verbose := newFlagSet("info")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tmxtool info <map.tmx>")
		os.Exit(1)
	}

	m := loadMap(fs.Arg(0), *verbose)
	writeInfo(os.Stdout, m)
}

func writeInfo(w io.Writer, m *tmx.Map) {
	fmt.Fprintf(w, "Map:      %s\n", m.Path)
	fmt.Fprintf(w, "Size:     %dx%d tiles of %dx%d px\n", m.Width, m.Height, m.TileWidth, m.TileHeight)
	fmt.Fprintf(w, "Layers:   ground=%v walls=%v overhead=%v collision=%v\n",
		m.HasGround(), m.HasWalls(), m.HasOverhead(), m.HasCollisionLayer)
	fmt.Fprintf(w, "Objects:  %d doors, %d spawns, %d tile instances, %d other\n",
		len(m.Doors), len(m.Spawns), len(m.Instances), len(m.Objects))

	blocked := 0
	for _, b := range m.Collision {
		if b {
			blocked++
		}
	}
	fmt.Fprintf(w, "Blocked:  %d of %d cells\n", blocked, m.Width*m.Height)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tilesets:")
	for _, ts := range m.Tilesets {
		src := "inline"
		if ts.Source != "" {
			src = ts.Source
		}
		fmt.Fprintf(w, "  %-16s firstgid=%-5d %-10s tiles=%-4d anims=%-3d %s\n",
			ts.Name, ts.FirstGID, ts.Kind, ts.TileCount, len(ts.Animations), src)
	}

	if diags := m.Diagnostics(); len(diags) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, d := range diags {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}

func cmdLayers(args []string) {
	fs, verbose := newFlagSet("layers")
	dump := fs.Bool("dump", false, "Print every layer's gids")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tmxtool layers [-dump] <map.tmx>")
		os.Exit(1)
	}

	m := loadMap(fs.Arg(0), *verbose)
	writeLayers(os.Stdout, m, *dump)
}

func writeLayers(w io.Writer, m *tmx.Map, dump bool) {
	layers := []struct {
		role  string
		layer *tmx.TileLayer
	}{
		{"ground", m.Ground},
		{"walls", m.Walls},
		{"overhead", m.Overhead},
	}

	for _, l := range layers {
		if l.layer == nil {
			fmt.Fprintf(w, "%-9s (none)\n", l.role)
			continue
		}
		filled := 0
		for _, gid := range l.layer.GIDs {
			if gid != 0 {
				filled++
			}
		}
		fmt.Fprintf(w, "%-9s %-16q visible=%-5v tiles=%d\n", l.role, l.layer.Name, l.layer.Visible, filled)

		if dump {
			for y := 0; y < m.Height; y++ {
				row := make([]string, m.Width)
				for x := 0; x < m.Width; x++ {
					var gid uint32
					if i := m.Index(x, y); i < len(l.layer.GIDs) {
						gid = l.layer.GIDs[i]
					}
					row[x] = strconv.FormatUint(uint64(gid), 10)
				}
				fmt.Fprintf(w, "  %s\n", strings.Join(row, ","))
			}
		}
	}
}

func cmdObjects(args []string) {
	fs, verbose := newFlagSet("objects")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tmxtool objects <map.tmx>")
		os.Exit(1)
	}

	m := loadMap(fs.Arg(0), *verbose)
	writeObjects(os.Stdout, m)
}

func writeObjects(w io.Writer, m *tmx.Map) {
	for _, p := range m.Placed {
		switch p.Kind {
		case tmx.KindDoor:
			d := m.Doors[p.Index]
			g := iso.ObjectPixelsToGrid(doorCenter(d), m.TileWidth, m.TileHeight)
			fmt.Fprintf(w, "%-7s at %s -> %s#%s\n", p.Kind, formatGrid(g), d.TargetMap, d.TargetSpawn)
		case tmx.KindSpawn:
			s := m.Spawns[p.Index]
			g := iso.ObjectPixelsToGrid(s.Pos, m.TileWidth, m.TileHeight)
			fmt.Fprintf(w, "%-7s at %s %q\n", p.Kind, formatGrid(g), s.Name)
		case tmx.KindTileInstance:
			o := m.Instances[p.Index]
			g := iso.ObjectPixelsToGrid(o.Anchor(), m.TileWidth, m.TileHeight)
			fmt.Fprintf(w, "%-7s at %s gid=%d %q\n", p.Kind, formatGrid(g), o.GID, o.Name)
		default:
			o := m.Objects[p.Index]
			g := iso.ObjectPixelsToGrid(o.Pos, m.TileWidth, m.TileHeight)
			fmt.Fprintf(w, "%-7s at %s %q type=%q\n", p.Kind, formatGrid(g), o.Name, o.Type)
		}
	}
}

func doorCenter(d tmx.Door) math.Vec2 {
	return d.Pos.Add(d.Size.Scale(0.5))
}

func formatGrid(g math.Vec2) string {
	return fmt.Sprintf("(%.2f, %.2f)", g.X, g.Y)
}

// nullUploader hands out texture ids without a GPU.
type nullUploader struct {
	next uint32
}

func (u *nullUploader) Upload(img *image.RGBA) (texture.Handle, error) {
	u.next++
	b := img.Bounds()
	return texture.Handle{ID: u.next, Width: b.Dx(), Height: b.Dy()}, nil
}

func (u *nullUploader) Delete(texture.Handle) {}

// sizelessLoader skips image files; sheets fall back to their authored size.
type sizelessLoader struct {
	next uint32
}

func (l *sizelessLoader) Load(string, bool) (texture.Handle, error) {
	l.next++
	return texture.Handle{ID: l.next}, nil
}

func cmdResolve(args []string) {
	fs, verbose := newFlagSet("resolve")
	noImages := fs.Bool("no-images", false, "Do not read tileset images")
	fs.Parse(args)
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: tmxtool resolve [-no-images] <map.tmx> <gid> [clockMs]")
		os.Exit(1)
	}

	gid, err := strconv.ParseUint(fs.Arg(1), 10, 32)
	if err != nil {
		fail("invalid gid %q", fs.Arg(1))
	}
	var clock float64
	if fs.NArg() > 2 {
		if clock, err = strconv.ParseFloat(fs.Arg(2), 64); err != nil {
			fail("invalid clock %q", fs.Arg(2))
		}
	}

	m := loadMap(fs.Arg(0), *verbose)

	var loader tiles.TextureLoader = assets.NewTextureCache(&nullUploader{}, assets.WithLogger(logger.Named("assets")))
	if *noImages {
		loader = &sizelessLoader{}
	}
	cat, err := tiles.BuildCatalog(m, loader, logger.Named("tiles"))
	if err != nil {
		fail("%v", err)
	}

	writeResolved(os.Stdout, m, tiles.NewResolver(cat), uint32(gid), clock)
}

func writeResolved(w io.Writer, m *tmx.Map, res *tiles.Resolver, gid uint32, clockMs float64) {
	r, ok := res.Resolve(gid, clockMs)
	if !ok {
		fmt.Fprintf(w, "gid %d: not drawable\n", gid)
		return
	}

	fmt.Fprintf(w, "gid %d at %.0fms\n", gid, clockMs)
	if ts, _, ok := m.TilesetFor(gid & tmx.GIDMask); ok {
		fmt.Fprintf(w, "  tileset:  %s (%s, firstgid %d)\n", ts.Name, ts.Kind, ts.FirstGID)
	}
	fmt.Fprintf(w, "  local id: %d\n", r.LocalID)
	fmt.Fprintf(w, "  size:     %.0fx%.0f\n", r.Size.X, r.Size.Y)
	if r.FullTexture {
		fmt.Fprintln(w, "  uv:       full texture")
	} else {
		fmt.Fprintf(w, "  uv:       (%.4f, %.4f) - (%.4f, %.4f)\n", r.UVMin.X, r.UVMin.Y, r.UVMax.X, r.UVMax.Y)
	}
}

func cmdCollision(args []string) {
	fs, verbose := newFlagSet("collision")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tmxtool collision <map.tmx>")
		os.Exit(1)
	}

	m := loadMap(fs.Arg(0), *verbose)
	writeGrid(os.Stdout, m, nil)
}

func cmdPath(args []string) {
	fs, verbose := newFlagSet("path")
	fs.Parse(args)
	if fs.NArg() < 5 {
		fmt.Fprintln(os.Stderr, "Usage: tmxtool path <map.tmx> <x0> <y0> <x1> <y1>")
		os.Exit(1)
	}

	var c [4]int
	for i := range c {
		v, err := strconv.Atoi(fs.Arg(i + 1))
		if err != nil {
			fail("invalid cell coordinate %q", fs.Arg(i+1))
		}
		c[i] = v
	}

	m := loadMap(fs.Arg(0), *verbose)
	path := world.NewPathFinder(m).FindPath(c[0], c[1], c[2], c[3])
	if len(path) == 0 {
		fail("no path from (%d, %d) to (%d, %d)", c[0], c[1], c[2], c[3])
	}

	fmt.Printf("%d steps\n", len(path)-1)
	writeGrid(os.Stdout, m, path)
}

// writeGrid prints one character per cell: '#' blocked, '.' open, 'D' door,
// 'S' spawn and '*' path.
func writeGrid(w io.Writer, m *tmx.Map, path [][2]int) {
	cells := make([]byte, m.Width*m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := byte('.')
			if m.Blocked(x, y) {
				c = '#'
			}
			cells[m.Index(x, y)] = c
		}
	}

	mark := func(p math.Vec2, c byte) {
		x, y := iso.ObjectPixelsToGrid(p, m.TileWidth, m.TileHeight).Floor()
		if m.InBounds(x, y) {
			cells[m.Index(x, y)] = c
		}
	}
	for _, d := range m.Doors {
		mark(doorCenter(d), 'D')
	}
	for _, s := range m.Spawns {
		mark(s.Pos, 'S')
	}
	for _, p := range path {
		if m.InBounds(p[0], p[1]) {
			cells[m.Index(p[0], p[1])] = '*'
		}
	}

	for y := 0; y < m.Height; y++ {
		fmt.Fprintf(w, "%s\n", cells[y*m.Width:(y+1)*m.Width])
	}
}
