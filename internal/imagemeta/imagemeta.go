// Package imagemeta reads image dimensions without decoding pixel data
package imagemeta

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder reads the header of PNG, JPEG, GIF, BMP, TIFF and WebP payloads
type Decoder struct{}

// Dimensions returns the displayed width and height of an encoded image.
// JPEG EXIF orientations 5 to 8 are rotated by 90 degrees, so their stored
// width and height are swapped.
func (Decoder) Dimensions(content []byte) (width, height int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	width, height = cfg.Width, cfg.Height
	if format == "jpeg" && Orientation(content) >= 5 {
		width, height = height, width
	}
	return width, height, nil
}

// Orientation returns the EXIF orientation tag (1 to 8), or 1 when the
// payload has no usable EXIF data
func Orientation(content []byte) int {
	x, err := exif.Decode(bytes.NewReader(content))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}
