package camera

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// JPEG qualities per source. Device frames represent real sensor data
// and get the higher setting.
const (
	mockJPEGQuality   = 80
	deviceJPEGQuality = 85
)

// encodeJPEG compresses img at the given quality.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// rgbToImage wraps a packed RGB buffer into an image suitable for the
// encoder. The buffer must hold width*height*3 bytes.
func rgbToImage(rgb []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i+3 <= len(rgb); i, j = i+3, j+4 {
		img.Pix[j] = rgb[i]
		img.Pix[j+1] = rgb[i+1]
		img.Pix[j+2] = rgb[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
