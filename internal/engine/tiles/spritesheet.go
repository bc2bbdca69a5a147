package tiles

import "github.com/Faultbox/midgard-iso/pkg/math"

// SpriteSheet maps frame indices of a uniform sprite grid to UVs.
type SpriteSheet struct {
	TexW, TexH     int
	FrameW, FrameH int
	Cols, Rows     int

	// FlippedY is set when the texture was flipped on load; row 0 is then
	// the top row of the image.
	FlippedY bool
}

// NewSpriteSheet creates a sheet of frameW x frameH frames.
func NewSpriteSheet(texW, texH, frameW, frameH int, flippedY bool) SpriteSheet {
	s := SpriteSheet{TexW: texW, TexH: texH, FrameW: frameW, FrameH: frameH, FlippedY: flippedY}
	if frameW > 0 {
		s.Cols = texW / frameW
	}
	if frameH > 0 {
		s.Rows = texH / frameH
	}
	return s
}

// Frames returns the number of frames in the sheet.
func (s SpriteSheet) Frames() int {
	return s.Cols * s.Rows
}

// FrameUV returns the UV rectangle of frame, clamped to the sheet.
// Degenerate sheets yield the full unit rectangle.
func (s SpriteSheet) FrameUV(frame int) (uvMin, uvMax math.Vec2) {
	if s.Cols <= 0 || s.Rows <= 0 || s.TexW <= 0 || s.TexH <= 0 {
		return math.Vec2{X: 0, Y: 0}, math.Vec2{X: 1, Y: 1}
	}

	frame = min(max(frame, 0), s.Frames()-1)
	if s.FlippedY {
		return SheetUV(frame, s.FrameW, s.FrameH, s.TexW, s.TexH)
	}

	col, row := frame%s.Cols, frame/s.Cols
	tw, th := float32(s.TexW), float32(s.TexH)
	return math.Vec2{X: float32(col*s.FrameW) / tw, Y: float32(row*s.FrameH) / th},
		math.Vec2{X: float32((col+1)*s.FrameW) / tw, Y: float32((row+1)*s.FrameH) / th}
}
