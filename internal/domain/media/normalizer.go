// Package media normalizes uploaded images into a compact, consistently
// oriented JPEG. Videos never pass through here; they go to the blob store
// unchanged.
package media

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	// MaxDimension is the longest side an image may keep after
	// normalization.
	MaxDimension = 800
	// JPEGQuality is the re-encode quality.
	JPEGQuality = 85
)

// Result is the normalized image payload with its final pixel dimensions.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// Normalizer runs the fixed normalization pipeline: orientation fix,
// downscale, JPEG re-encode.
type Normalizer struct {
	log zerolog.Logger
}

func NewNormalizer(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log.With().Str("component", "normalizer").Logger()}
}

// Normalize decodes raw image bytes, applies the EXIF orientation when one
// of the recognized codes is present, downsizes so neither dimension
// exceeds MaxDimension, and re-encodes as JPEG. Orientation handling is
// best effort: unreadable metadata is logged and skipped, never fatal.
func (n *Normalizer) Normalize(data []byte) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img = n.applyExifOrientation(data, img)

	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	// Encoding to JPEG flattens alpha and palette modes.
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	final := img.Bounds()
	return &Result{
		Data:   buf.Bytes(),
		Width:  final.Dx(),
		Height: final.Dy(),
	}, nil
}

func (n *Normalizer) applyExifOrientation(data []byte, img image.Image) image.Image {
	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		n.log.Debug().Err(err).Msg("no usable exif metadata, skipping orientation fix")
		return img
	}

	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		n.log.Debug().Err(err).Msg("unreadable orientation tag, skipping orientation fix")
		return img
	}

	return rotateForOrientation(img, orientation)
}

// rotateForOrientation applies the rotation for the three recognized EXIF
// orientation codes. All other values, including the mirrored ones, are
// passed through untouched.
func rotateForOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 3:
		return imaging.Rotate180(img)
	case 6:
		return imaging.Rotate270(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
