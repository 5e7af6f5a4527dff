//go:build linux

package camera

import (
	"fmt"

	"github.com/blackjack/webcam"
)

// v4l2Webcam adapts blackjack/webcam to the v4l2Handle interface.
type v4l2Webcam struct {
	*webcam.Webcam
}

func (w v4l2Webcam) SetImageFormat(code uint32, width, height uint32) (uint32, uint32, uint32, error) {
	got, fw, fh, err := w.Webcam.SetImageFormat(webcam.PixelFormat(code), width, height)
	return uint32(got), fw, fh, err
}

// OpenDevice opens the V4L2 device at path and negotiates a capture
// format for the configured resolution and frame rate.
func OpenDevice(path string, width, height int, frameRate float64) (*Device, error) {
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open camera device %s: %w", path, err)
	}

	dev, err := newDevice(v4l2Webcam{cam}, path, width, height, frameRate)
	if err != nil {
		cam.Close()
		return nil, err
	}
	return dev, nil
}
