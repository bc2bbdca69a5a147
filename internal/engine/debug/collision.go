// Package debug provides debug visualization utilities.
package debug

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/midgard-iso/internal/engine/camera"
	"github.com/Faultbox/midgard-iso/internal/engine/renderqueue"
	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/pkg/iso"
	"github.com/Faultbox/midgard-iso/pkg/math"
)

// BlockedColor tints blocked cells in the collision overlay.
var BlockedColor = color.RGBA{R: 220, G: 40, B: 40, A: 110}

// BlockMap reports blocked cells of a map.
type BlockMap interface {
	Blocked(x, y int) bool
}

// DiamondImage returns a w x h image holding a filled isometric diamond
// touching the middle of each edge. Pixels outside it are transparent.
func DiamondImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return img
	}

	hw, hh := float32(w)/2, float32(h)/2
	for y := 0; y < h; y++ {
		dy := abs32(float32(y)+0.5-hh) / hh
		for x := 0; x < w; x++ {
			dx := abs32(float32(x)+0.5-hw) / hw
			if dx+dy <= 1 {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

// CollisionOverlay draws a tinted diamond over each blocked cell.
type CollisionOverlay struct {
	tex          texture.Handle
	tileW, tileH int
}

// NewCollisionOverlay uploads the overlay diamond for tileW x tileH cells.
func NewCollisionOverlay(up texture.Uploader, tileW, tileH int) (*CollisionOverlay, error) {
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("invalid tile size %dx%d", tileW, tileH)
	}
	tex, err := up.Upload(DiamondImage(tileW, tileH, BlockedColor))
	if err != nil {
		return nil, fmt.Errorf("uploading collision overlay: %w", err)
	}
	return &CollisionOverlay{tex: tex, tileW: tileW, tileH: tileH}, nil
}

// Texture returns the uploaded diamond.
func (o *CollisionOverlay) Texture() texture.Handle {
	return o.tex
}

// Draw draws every blocked cell of a width x height map and returns the
// number of cells drawn.
func (o *CollisionOverlay) Draw(r renderqueue.Rasterizer, m BlockMap, width, height int, origin math.Vec2, cam *camera.Camera2D) int {
	size := math.Vec2{X: float32(o.tileW), Y: float32(o.tileH)}
	uvMin, uvMax := math.Vec2{X: 0, Y: 0}, math.Vec2{X: 1, Y: 1}

	n := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !m.Blocked(x, y) {
				continue
			}
			topLeft := iso.GridToIsoTopLeft(math.Vec2{X: float32(x), Y: float32(y)}, o.tileW, o.tileH, origin)
			if cam != nil && !cam.Visible(math.Rect{Pos: topLeft, Size: size}, 0) {
				continue
			}
			r.Draw(o.tex, topLeft, size, cam, uvMin, uvMax)
			n++
		}
	}
	return n
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
