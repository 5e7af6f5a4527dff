//go:build !linux

package camera

import "fmt"

// OpenDevice requires V4L2, which only exists on linux. Callers fall
// back to the mock source when this fails.
func OpenDevice(path string, width, height int, frameRate float64) (*Device, error) {
	return nil, fmt.Errorf("camera device %s: v4l2 capture is only supported on linux", path)
}
