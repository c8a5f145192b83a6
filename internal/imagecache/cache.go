package imagecache

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	pixerrors "github.com/alexisbeaulieu97/pixtheme/pkg/errors"
)

// Mode distinguishes the variants of one source image kept in the cache.
type Mode int

const (
	// ModePlain is the image as decoded from disk.
	ModePlain Mode = iota
	// ModeRecolor is the image recolored with Key.Tint.
	ModeRecolor
	// ModeMask is the image used as an alpha stencil filled with Key.Tint.
	ModeMask
)

// Key identifies one cached raster.
type Key struct {
	Path string
	Mode Mode
	Tint color.NRGBA
}

// BuildFunc produces the raster for a key on first use.
type BuildFunc func() (image.Image, error)

type entry struct {
	img image.Image
	err error
}

// Cache holds decoded and recolored images for the lifetime of a theme.
// Entries are never invalidated individually; failures are remembered so a
// broken file is read once.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]entry
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]entry)}
}

// GetOrDecode returns the cached raster for key, calling build when the key
// has not been seen before.
func (c *Cache) GetOrDecode(key Key, build BuildFunc) (image.Image, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return e.img, e.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return e.img, e.err
	}

	img, err := build()
	c.entries[key] = entry{img: img, err: err}
	return img, err
}

// Source returns the plain decoded image at path.
func (c *Cache) Source(path string) (image.Image, error) {
	return c.GetOrDecode(Key{Path: path, Mode: ModePlain}, func() (image.Image, error) {
		return Decode(path)
	})
}

// Len reports the number of cached entries, failures included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry. Themes call it when they are discarded.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]entry)
}

// Decode reads and decodes the image file at path. PNG, GIF, JPEG, BMP and
// TIFF are supported.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pixerrors.NewDecodeError(path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, pixerrors.NewDecodeError(path, fmt.Errorf("decode image: %w", err))
	}
	return img, nil
}
