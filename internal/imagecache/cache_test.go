package imagecache

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pixerrors "github.com/alexisbeaulieu97/pixtheme/pkg/errors"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestGetOrDecodeBuildsOnce(t *testing.T) {
	t.Parallel()

	cache := New()
	calls := 0
	build := func() (image.Image, error) {
		calls++
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	key := Key{Path: "a.png", Mode: ModeRecolor, Tint: color.NRGBA{R: 1, A: 255}}
	first, err := cache.GetOrDecode(key, build)
	require.NoError(t, err)
	second, err := cache.GetOrDecode(key, build)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestKeysWithDifferentTintsAreDistinct(t *testing.T) {
	t.Parallel()

	cache := New()
	build := func() (image.Image, error) { return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil }

	_, _ = cache.GetOrDecode(Key{Path: "a.png", Mode: ModeRecolor, Tint: color.NRGBA{R: 1}}, build)
	_, _ = cache.GetOrDecode(Key{Path: "a.png", Mode: ModeRecolor, Tint: color.NRGBA{R: 2}}, build)
	_, _ = cache.GetOrDecode(Key{Path: "a.png", Mode: ModeMask, Tint: color.NRGBA{R: 2}}, build)

	assert.Equal(t, 3, cache.Len())
}

func TestFailuresAreRemembered(t *testing.T) {
	t.Parallel()

	cache := New()
	calls := 0
	boom := errors.New("boom")
	build := func() (image.Image, error) {
		calls++
		return nil, boom
	}

	key := Key{Path: "broken.png"}
	_, err := cache.GetOrDecode(key, build)
	require.ErrorIs(t, err, boom)
	_, err = cache.GetOrDecode(key, build)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestSourceDecodesPNG(t *testing.T) {
	t.Parallel()

	path := writePNG(t, t.TempDir(), "box.png", 4, 3)

	cache := New()
	img, err := cache.Source(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestDecodeMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Decode(filepath.Join(t.TempDir(), "missing.png"))
	var decodeErr *pixerrors.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestClearEmptiesCache(t *testing.T) {
	t.Parallel()

	cache := New()
	_, _ = cache.GetOrDecode(Key{Path: "x"}, func() (image.Image, error) { return nil, nil })
	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache := New()
	var mu sync.Mutex
	calls := 0
	build := func() (image.Image, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.GetOrDecode(Key{Path: "shared.png"}, build)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}
