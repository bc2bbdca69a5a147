package renderer

import (
	"errors"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-iso/internal/engine/renderqueue"
	"github.com/Faultbox/midgard-iso/internal/engine/texture"
)

var (
	_ texture.Uploader       = (*Renderer)(nil)
	_ renderqueue.Rasterizer = (*Renderer)(nil)
)

// ErrEmptyImage is returned when uploading an image with no pixels.
var ErrEmptyImage = errors.New("empty image")

// Upload copies img to a new GL texture with nearest filtering, which keeps
// pixel art crisp.
func (r *Renderer) Upload(img *image.RGBA) (texture.Handle, error) {
	if img == nil {
		return texture.Handle{}, ErrEmptyImage
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || len(img.Pix) == 0 {
		return texture.Handle{}, ErrEmptyImage
	}

	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return texture.Handle{}, errors.New("glGenTextures returned 0")
	}
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	// Sub-images share their parent's rows.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix[img.PixOffset(b.Min.X, b.Min.Y):]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.log.Debug("texture uploaded",
		zap.Uint32("id", id),
		zap.Int("width", w),
		zap.Int("height", h),
	)

	return texture.Handle{ID: id, Width: w, Height: h}, nil
}

// Delete releases a texture created by Upload.
func (r *Renderer) Delete(h texture.Handle) {
	if !h.Valid() {
		return
	}
	gl.DeleteTextures(1, &h.ID)
}
