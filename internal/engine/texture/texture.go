// Package texture provides image decoding and the contract for uploading
// decoded images to the GPU.
package texture

import "image"

// Handle identifies an uploaded texture. The zero Handle is invalid.
type Handle struct {
	ID     uint32
	Width  int
	Height int
}

// Valid reports whether h refers to an uploaded texture.
func (h Handle) Valid() bool {
	return h.ID != 0
}

// Uploader turns decoded pixels into GPU textures.
type Uploader interface {
	Upload(img *image.RGBA) (Handle, error)
	Delete(h Handle)
}
