package camera

import (
	"context"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Mock synthesizes an animated gradient so the service works without
// hardware. The frame counter advances exactly once per capture and is
// shared by all concurrent callers; rendering itself may overlap.
type Mock struct {
	width   int
	height  int
	counter atomic.Uint64

	// Bounds concurrent CPU-heavy rendering/encoding.
	render *semaphore.Weighted
}

// NewMock creates a synthetic source at the given resolution.
func NewMock(width, height int) *Mock {
	return &Mock{
		width:  width,
		height: height,
		render: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Counter returns the number of frames captured so far.
func (m *Mock) Counter() uint64 {
	return m.counter.Load()
}

// CaptureFrame renders the next animation step and encodes it as JPEG.
func (m *Mock) CaptureFrame(ctx context.Context) ([]byte, error) {
	t := m.counter.Add(1)

	if err := m.render.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer m.render.Release(1)

	return encodeJPEG(renderPattern(m.width, m.height, t), mockJPEGQuality)
}

// renderPattern draws a smoothly animating gradient with vertical white
// stripes as a motion reference.
func renderPattern(width, height int, counter uint64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	t := float64(counter)
	fw := float64(max(width, 1))
	fh := float64(max(height, 1))

	for y := 0; y < height; y++ {
		yf := float64(y) / fh
		for x := 0; x < width; x++ {
			xf := float64(x) / fw
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(math.Mod(xf*255+t, 255)),
				G: uint8(math.Mod(yf*255+t*0.5, 255)),
				B: uint8(math.Mod((xf+yf)*127+t*0.25, 255)),
				A: 0xff,
			})
		}
	}

	stripe := max(width/10, 1)
	for x := 0; x < width; x += stripe {
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		}
	}

	return img
}
