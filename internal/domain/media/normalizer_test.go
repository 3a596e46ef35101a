package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNormalizeKeepsSmallDimensions(t *testing.T) {
	n := NewNormalizer(zerolog.Nop())

	src := encodeJPEG(t, solidImage(640, 480, color.NRGBA{R: 200, G: 30, B: 90, A: 255}))
	result, err := n.Normalize(src)
	require.NoError(t, err)

	assert.Equal(t, 640, result.Width)
	assert.Equal(t, 480, result.Height)
	assert.NotEmpty(t, result.Data)

	// Output must decode as JPEG.
	decoded, err := jpeg.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, 640, decoded.Bounds().Dx())
}

func TestNormalizeDownscalesLargeImages(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		wantW      int
		wantH      int
	}{
		{name: "wide landscape", w: 1600, h: 800, wantW: 800, wantH: 400},
		{name: "tall portrait", w: 600, h: 1200, wantW: 400, wantH: 800},
		{name: "square", w: 2000, h: 2000, wantW: 800, wantH: 800},
		{name: "just over the limit", w: 801, h: 400, wantW: 800, wantH: 400},
	}

	n := NewNormalizer(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := encodeJPEG(t, solidImage(tt.w, tt.h, color.NRGBA{R: 10, G: 120, B: 200, A: 255}))
			result, err := n.Normalize(src)
			require.NoError(t, err)

			longer := result.Width
			if result.Height > longer {
				longer = result.Height
			}
			assert.LessOrEqual(t, longer, MaxDimension)
			assert.InDelta(t, tt.wantW, result.Width, 1)
			assert.InDelta(t, tt.wantH, result.Height, 1)

			// Aspect ratio preserved within rounding.
			srcRatio := float64(tt.w) / float64(tt.h)
			gotRatio := float64(result.Width) / float64(result.Height)
			assert.InDelta(t, srcRatio, gotRatio, 0.01)
		})
	}
}

func TestNormalizeFlattensAlpha(t *testing.T) {
	n := NewNormalizer(zerolog.Nop())

	img := solidImage(100, 50, color.NRGBA{R: 255, G: 0, B: 0, A: 128})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	result, err := n.Normalize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 100, result.Width)
	assert.Equal(t, 50, result.Height)

	_, err = jpeg.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	n := NewNormalizer(zerolog.Nop())
	_, err := n.Normalize([]byte("definitely not an image"))
	require.Error(t, err)
}

func TestRotateForOrientation(t *testing.T) {
	// 3x1 image: red, green, blue left to right. Corner colors pin down
	// the rotation direction, not just the dimension swap.
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(1, 0, color.NRGBA{G: 255, A: 255})
	src.Set(2, 0, color.NRGBA{B: 255, A: 255})

	t.Run("orientation 3 rotates 180", func(t *testing.T) {
		got := rotateForOrientation(src, 3)
		assert.Equal(t, 3, got.Bounds().Dx())
		assert.Equal(t, 1, got.Bounds().Dy())
		r, _, _, _ := got.At(2, 0).RGBA()
		assert.Equal(t, uint32(0xffff), r, "red pixel should land on the right after 180 rotation")
	})

	t.Run("orientation 6 rotates 270 ccw", func(t *testing.T) {
		got := rotateForOrientation(src, 6)
		assert.Equal(t, 1, got.Bounds().Dx())
		assert.Equal(t, 3, got.Bounds().Dy())
		r, _, _, _ := got.At(0, 0).RGBA()
		assert.Equal(t, uint32(0xffff), r, "red pixel should land on top after 270 ccw rotation")
	})

	t.Run("orientation 8 rotates 90 ccw", func(t *testing.T) {
		got := rotateForOrientation(src, 8)
		assert.Equal(t, 1, got.Bounds().Dx())
		assert.Equal(t, 3, got.Bounds().Dy())
		_, _, b, _ := got.At(0, 0).RGBA()
		assert.Equal(t, uint32(0xffff), b, "blue pixel should land on top after 90 ccw rotation")
	})

	t.Run("unrecognized orientations are no-ops", func(t *testing.T) {
		for _, code := range []int{0, 1, 2, 4, 5, 7, 9} {
			got := rotateForOrientation(src, code)
			assert.Equal(t, src.Bounds(), got.Bounds(), "code %d", code)
		}
	})
}
