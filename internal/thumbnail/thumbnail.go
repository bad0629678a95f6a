// Package thumbnail renders the square preview stored next to uploaded images.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	// Decoders beyond the ones imaging registers itself.
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

// Size is the edge length of every thumbnail, in pixels.
const Size = 300

// ErrUnsupported is returned when the source cannot be decoded as an image.
var ErrUnsupported = errors.New("unsupported image")

var contentTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
	imaging.TIFF: "image/tiff",
	imaging.BMP:  "image/bmp",
}

// Image is an encoded thumbnail ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
}

// Fill decodes r, honoring EXIF orientation, and crops it around the center to Size x Size.
// The result keeps the format implied by ext when imaging can encode it and is JPEG otherwise.
func Fill(r io.Reader, ext string) (*Image, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	dst := imaging.Fill(src, Size, Size, imaging.Center, imaging.Lanczos)
	if err := imaging.Encode(&buf, dst, format, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode %s thumbnail: %w", format, err)
	}
	return &Image{Data: buf.Bytes(), ContentType: contentTypes[format]}, nil
}
