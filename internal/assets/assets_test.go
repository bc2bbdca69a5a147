package assets

import (
	"errors"
	"image"
	"testing"

	"github.com/Faultbox/midgard-iso/internal/engine/texture"
)

// fakeUploader hands out sequential ids and records deletions.
type fakeUploader struct {
	next    uint32
	deleted []texture.Handle
	fail    bool
}

func (u *fakeUploader) Upload(img *image.RGBA) (texture.Handle, error) {
	if u.fail {
		return texture.Handle{}, errors.New("upload failed")
	}
	u.next++
	b := img.Bounds()
	return texture.Handle{ID: u.next, Width: b.Dx(), Height: b.Dy()}, nil
}

func (u *fakeUploader) Delete(h texture.Handle) {
	u.deleted = append(u.deleted, h)
}

// createTestDecoder returns a decoder producing 8x4 images and counting calls.
func createTestDecoder(calls *int) DecodeFunc {
	return func(path string, flipY bool) (*image.RGBA, error) {
		*calls++
		if path == "missing.png" {
			return nil, errors.New("no such file")
		}
		return image.NewRGBA(image.Rect(0, 0, 8, 4)), nil
	}
}

func TestTextureCacheLoad(t *testing.T) {
	var calls int
	up := &fakeUploader{}
	c := NewTextureCache(up, WithDecoder(createTestDecoder(&calls)))

	h1, err := c.Load("tiles/terrain.png", true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if h1.Width != 8 || h1.Height != 4 || !h1.Valid() {
		t.Errorf("handle = %+v", h1)
	}

	h2, err := c.Load("tiles/../tiles/terrain.png", true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if h2 != h1 {
		t.Errorf("equivalent path should hit cache: %+v vs %+v", h2, h1)
	}

	h3, err := c.Load("tiles/terrain.png", false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if h3 == h1 {
		t.Error("different orientation should be a separate texture")
	}

	if calls != 2 {
		t.Errorf("decoder calls = %d, want 2", calls)
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Stats() = %d hits, %d misses, want 1, 2", hits, misses)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("tiles/terrain.png", false); !ok {
		t.Error("Get() should find loaded texture")
	}
}

func TestTextureCacheFailuresNotCached(t *testing.T) {
	var calls int
	up := &fakeUploader{}
	c := NewTextureCache(up, WithDecoder(createTestDecoder(&calls)))

	for i := 0; i < 2; i++ {
		if _, err := c.Load("missing.png", true); err == nil {
			t.Fatal("Load() should fail for missing file")
		}
	}
	if calls != 2 {
		t.Errorf("failed loads should retry, decoder calls = %d", calls)
	}

	up.fail = true
	if _, err := c.Load("ok.png", true); err == nil {
		t.Fatal("Load() should surface upload failure")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestTextureCacheClear(t *testing.T) {
	var calls int
	up := &fakeUploader{}
	c := NewTextureCache(up, WithDecoder(createTestDecoder(&calls)))

	for _, p := range []string{"a.png", "b.png"} {
		if _, err := c.Load(p, true); err != nil {
			t.Fatalf("Load(%s) error = %v", p, err)
		}
	}
	c.Clear()

	if len(up.deleted) != 2 {
		t.Errorf("deleted = %d textures, want 2", len(up.deleted))
	}
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("Stats() after Clear = %d, %d", hits, misses)
	}
}
