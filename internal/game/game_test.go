package game

import (
	"image/color"
	"testing"
)

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"player size", 64, 96, 64, 96},
		{"zero size", 0, 0, 1, 1},
	}

	want := color.RGBA{R: 240, G: 200, B: 60, A: 255}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img := placeholder(tc.w, tc.h)
			b := img.Bounds()
			if b.Dx() != tc.wantW || b.Dy() != tc.wantH {
				t.Fatalf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tc.wantW, tc.wantH)
			}
			for _, p := range [][2]int{{0, 0}, {b.Dx() - 1, b.Dy() - 1}} {
				if got := img.RGBAAt(p[0], p[1]); got != want {
					t.Errorf("pixel %v = %v, want %v", p, got, want)
				}
			}
		})
	}
}
