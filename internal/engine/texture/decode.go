package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrUnknownFormat is returned for image data no registered decoder accepts.
var ErrUnknownFormat = errors.New("texture: unknown image format")

// Decode decodes image data. name is only used to detect TGA files, which
// carry no magic number.
func Decode(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return Decode(data, path)
}

// LoadRGBA decodes the image at path into RGBA pixels. With flipY the rows
// are reversed so row 0 is the bottom of the image, matching GL texture space.
func LoadRGBA(path string, flipY bool) (*image.RGBA, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}

	rgba := ToRGBA(img)
	if flipY {
		FlipVertical(rgba)
	}
	return rgba, nil
}

// ToRGBA converts img to *image.RGBA with bounds starting at (0,0).
// An *image.RGBA already at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// FlipVertical reverses the rows of img in place.
func FlipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := img.Bounds().Dx() * 4
	tmp := make([]byte, row)

	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+row]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+row]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
