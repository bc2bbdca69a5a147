package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/midgard-iso/internal/engine/texture"
)

// Screenshot writes frames to numbered PNG files.
type Screenshot struct {
	dir    string
	prefix string
	seq    int
	now    func() time.Time
}

// NewScreenshot creates a writer saving into dir with the given file prefix.
func NewScreenshot(dir, prefix string) *Screenshot {
	return &Screenshot{dir: dir, prefix: prefix, now: time.Now}
}

// FromGLPixels converts a bottom-up RGBA framebuffer read into an image.
func FromGLPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: %dx%d needs %d bytes, got %d",
			width, height, width*height*4, len(pixels))
	}
	img := &image.RGBA{
		Pix:    append([]byte(nil), pixels...),
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	texture.FlipVertical(img)
	return img, nil
}

// Filename returns the path the next capture will be written to.
func (s *Screenshot) Filename() string {
	name := fmt.Sprintf("%s_%s_%03d.png", s.prefix, s.now().Format("2006-01-02_15-04-05"), s.seq)
	return filepath.Join(s.dir, name)
}

// Save encodes img as PNG and returns the file written.
func (s *Screenshot) Save(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating screenshot dir: %w", err)
		}
	}

	path := s.Filename()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating screenshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding screenshot: %w", err)
	}
	s.seq++
	return path, nil
}

// SaveGLPixels saves a framebuffer read.
func (s *Screenshot) SaveGLPixels(pixels []byte, width, height int) (string, error) {
	img, err := FromGLPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return s.Save(img)
}
