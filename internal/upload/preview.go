package upload

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Thumbnail decodes a JPEG, PNG or GIF image and returns a JPEG resized to width,
// keeping the aspect ratio. Images narrower than width are re-encoded unscaled.
func Thumbnail(data []byte, width int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if width > 0 && img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}
