package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"trainview/internal/monitoring"
)

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	switch filepath.Ext(path) {
	case ".png":
		require.NoError(t, png.Encode(f, img))
	case ".bmp":
		require.NoError(t, bmp.Encode(f, img))
	default:
		_, err = f.Write([]byte("not an image"))
		require.NoError(t, err)
	}
}

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 16; i++ {
		img.SetNRGBA(i%4, i/4, c)
	}
	return img
}

func TestLoadTexture(t *testing.T) {
	dir := t.TempDir()
	red := color.NRGBA{200, 10, 10, 255}

	t.Run("png", func(t *testing.T) {
		p := filepath.Join(dir, "a.png")
		writeImage(t, p, solid(red))
		img, err := LoadTexture(p)
		require.NoError(t, err)
		assert.Equal(t, red, img.NRGBAAt(1, 1))
	})
	t.Run("bmp", func(t *testing.T) {
		p := filepath.Join(dir, "b.bmp")
		writeImage(t, p, solid(red))
		img, err := LoadTexture(p)
		require.NoError(t, err)
		assert.Equal(t, red, img.NRGBAAt(3, 3))
		assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	})
	t.Run("corrupt tga", func(t *testing.T) {
		p := filepath.Join(dir, "c.tga")
		writeImage(t, p, nil)
		_, err := LoadTexture(p)
		assert.ErrorContains(t, err, "texture: decode")
	})
	t.Run("unknown extension", func(t *testing.T) {
		_, err := LoadTexture(filepath.Join(dir, "d.gif"))
		assert.ErrorContains(t, err, "unknown extension")
	})
	t.Run("missing", func(t *testing.T) {
		_, err := LoadTexture(filepath.Join(dir, "nope.png"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestIndexPriority(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeImage(t, filepath.Join(dir, "Castle.bmp"), solid(color.NRGBA{1, 2, 3, 255}))
	writeImage(t, filepath.Join(sub, "castle.png"), solid(color.NRGBA{4, 5, 6, 255}))
	writeImage(t, filepath.Join(dir, "notes.txt"), nil)

	idx := BuildIndex(dir)
	assert.Equal(t, 1, idx.Len())
	p, ok := idx.ResolvePath("images\\CASTLE.jpg")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(sub, "castle.png"), p)

	_, ok = idx.ResolvePath("ground")
	assert.False(t, ok)
	assert.Zero(t, BuildIndex("").Len())
	assert.Zero(t, BuildIndex(filepath.Join(dir, "missing")).Len())
}

func TestCacheFallsBackToBuiltin(t *testing.T) {
	orig := monitoring.Logf
	defer func() { monitoring.Logf = orig }()
	var warned int
	monitoring.SetLogger(func(string, ...interface{}) { warned++ })

	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "ground.tga"), nil)
	blue := color.NRGBA{0, 0, 250, 255}
	writeImage(t, filepath.Join(dir, "castle.png"), solid(blue))

	c := NewCache(BuildIndex(dir))
	castle := c.Resolve("castle")
	require.NotNil(t, castle)
	assert.Equal(t, blue, castle.NRGBAAt(0, 0))
	assert.Same(t, castle, c.Resolve("Castle.png"))

	ground := c.Resolve("ground")
	require.NotNil(t, ground)
	assert.Equal(t, builtinSize, ground.Bounds().Dx())
	assert.Equal(t, 1, warned)

	assert.Nil(t, c.Resolve("unknown"))
	assert.Nil(t, c.Resolve("unknown"))
	assert.Equal(t, 3, c.Len())

	assert.NotNil(t, NewCache(nil).Resolve(NameCastle))
}

func TestBuiltinPatterns(t *testing.T) {
	a := color.NRGBA{255, 255, 255, 255}
	b := color.NRGBA{0, 0, 0, 255}
	img := Checker(8, 2, a, b)
	assert.Equal(t, a, img.NRGBAAt(0, 0))
	assert.Equal(t, b, img.NRGBAAt(4, 0))
	assert.Equal(t, a, img.NRGBAAt(4, 4))

	br := Bricks(16, a, b)
	assert.Equal(t, b, br.NRGBAAt(5, 0), "mortar row")
	assert.Equal(t, a, br.NRGBAAt(1, 1))
	assert.Nil(t, Builtin("sky"))
}
