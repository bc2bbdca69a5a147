// Package assets handles texture loading and caching.
package assets

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-iso/internal/engine/texture"
)

// Key identifies a cached texture: the same file loaded with a different
// orientation is a different texture.
type Key struct {
	Path  string
	FlipY bool
}

// DecodeFunc decodes the image at path into RGBA pixels.
type DecodeFunc func(path string, flipY bool) (*image.RGBA, error)

// Option configures a TextureCache.
type Option func(*TextureCache)

// WithLogger sets the cache logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *TextureCache) {
		if log != nil {
			c.log = log
		}
	}
}

// WithDecoder replaces the image decoder, texture.LoadRGBA by default.
func WithDecoder(decode DecodeFunc) Option {
	return func(c *TextureCache) {
		c.decode = decode
	}
}

// TextureCache loads each texture once and hands out its handle on every
// later request. Failed loads are not cached.
type TextureCache struct {
	uploader texture.Uploader
	decode   DecodeFunc
	log      *zap.Logger

	data map[Key]texture.Handle
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewTextureCache creates a cache that uploads through uploader.
func NewTextureCache(uploader texture.Uploader, opts ...Option) *TextureCache {
	c := &TextureCache{
		uploader: uploader,
		decode:   texture.LoadRGBA,
		log:      zap.NewNop(),
		data:     make(map[Key]texture.Handle),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the texture for path, decoding and uploading it on first use.
func (c *TextureCache) Load(path string, flipY bool) (texture.Handle, error) {
	key := Key{Path: filepath.Clean(path), FlipY: flipY}

	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.data[key]; ok {
		c.hits++
		return h, nil
	}
	c.misses++

	img, err := c.decode(key.Path, flipY)
	if err != nil {
		return texture.Handle{}, fmt.Errorf("loading texture %s: %w", key.Path, err)
	}
	h, err := c.uploader.Upload(img)
	if err != nil {
		return texture.Handle{}, fmt.Errorf("uploading texture %s: %w", key.Path, err)
	}

	c.data[key] = h
	c.log.Debug("texture loaded",
		zap.String("path", key.Path),
		zap.Bool("flipY", flipY),
		zap.Int("width", h.Width),
		zap.Int("height", h.Height))
	return h, nil
}

// Get returns a cached texture without loading it.
func (c *TextureCache) Get(path string, flipY bool) (texture.Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h, ok := c.data[Key{Path: filepath.Clean(path), FlipY: flipY}]
	return h, ok
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear deletes every cached texture and resets the statistics.
func (c *TextureCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, h := range c.data {
		c.uploader.Delete(h)
	}
	c.data = make(map[Key]texture.Handle)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *TextureCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
