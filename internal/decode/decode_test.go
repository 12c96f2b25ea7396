package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeBytes(t *testing.T) {
	d := NewDecoder(0)
	img, info, err := d.DecodeBytes("mem.png", encodePNG(t, 8, 6))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 1, info.Orientation)
	assert.Equal(t, 8, info.Width)
	assert.Equal(t, 6, info.Height)
	assert.Positive(t, info.Size)
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 5, 5), 0o644))

	img, info, err := NewDecoder(2048).DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.False(t, info.ModTime.IsZero())
}

func TestDecodeRejectsNonImages(t *testing.T) {
	d := NewDecoder(0)
	_, _, err := d.DecodeBytes("notes.png", []byte("this is plain text, not a picture"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, _, err = d.DecodeBytes("empty.png", nil)
	assert.ErrorIs(t, err, ErrNotImage)

	_, _, err = d.DecodeFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestDecodeTruncatedImage(t *testing.T) {
	data := encodePNG(t, 16, 16)
	_, _, err := NewDecoder(0).DecodeBytes("cut.png", data[:len(data)/2])
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotImage, "header is valid, decoding fails later")
}

func TestFitDownscalesLongestEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	out := Fit(img, 100)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 25, out.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.Same(t, small, Fit(small, 100).(*image.RGBA))
}

func TestDecodeAppliesMaxTextureSize(t *testing.T) {
	img, info, err := NewDecoder(32).DecodeBytes("big.png", encodePNG(t, 128, 64))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, info.Width)
	assert.Equal(t, 16, info.Height)
}

func TestOrient(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	assert.Same(t, img, Orient(img, 1).(*image.RGBA))
	assert.Same(t, img, Orient(img, 0).(*image.RGBA), "unknown orientations are left alone")

	flipped := Orient(img, 2)
	r, _, _, _ := flipped.At(39, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r, "mirrored marker ends up top-right")

	for _, o := range []int{5, 6, 7, 8} {
		b := Orient(img, o).Bounds()
		assert.Greater(t, b.Dy(), b.Dx(), "orientation %d turns landscape into portrait", o)
	}
}
