package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(t *testing.T, w, h int, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 0xff, A: 0xff})
	}
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, img))
	return buf.Bytes()
}

func pngEnc(b *bytes.Buffer, img image.Image) error  { return png.Encode(b, img) }
func jpegEnc(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) }

func TestFill(t *testing.T) {
	tests := []struct {
		name       string
		src        []byte
		ext        string
		wantFormat string
		wantType   string
	}{
		{name: "landscape png", src: encoded(t, 640, 480, pngEnc), ext: ".png", wantFormat: "png", wantType: "image/png"},
		{name: "portrait jpeg", src: encoded(t, 200, 900, jpegEnc), ext: ".JPG", wantFormat: "jpeg", wantType: "image/jpeg"},
		{name: "upscales small source", src: encoded(t, 40, 30, pngEnc), ext: ".png", wantFormat: "png", wantType: "image/png"},
		{name: "extension without encoder falls back to jpeg", src: encoded(t, 320, 320, pngEnc), ext: ".webp", wantFormat: "jpeg", wantType: "image/jpeg"},
		{name: "missing extension", src: encoded(t, 320, 320, jpegEnc), ext: "", wantFormat: "jpeg", wantType: "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Fill(bytes.NewReader(tt.src), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, img.ContentType)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, Size, cfg.Width)
			assert.Equal(t, Size, cfg.Height)
		})
	}
}

func TestFill_Unsupported(t *testing.T) {
	_, err := Fill(strings.NewReader("%PDF-1.4 not an image"), ".jpg")
	assert.ErrorIs(t, err, ErrUnsupported)
}
