package camera

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/camfeed/camfeed/internal/log"
)

// pixelFormat is fixed at construction and never renegotiated.
type pixelFormat uint8

const (
	formatMJPEG pixelFormat = iota
	formatYUYV
)

func (f pixelFormat) String() string {
	if f == formatYUYV {
		return "YUYV"
	}
	return "MJPG"
}

var (
	fourccMJPG = fourcc('M', 'J', 'P', 'G')
	fourccYUYV = fourcc('Y', 'U', 'Y', 'V')
)

func fourcc(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

func fourccString(code uint32) string {
	return string([]byte{byte(code), byte(code >> 8), byte(code >> 16), byte(code >> 24)})
}

// Seconds to wait for the driver to fill a buffer before the frame
// counts as failed.
const frameWaitSeconds = 5

// v4l2Handle is the slice of the V4L2 API the Device needs. The real
// implementation wraps blackjack/webcam on linux; tests substitute a
// fake to exercise negotiation without hardware.
type v4l2Handle interface {
	SetImageFormat(code uint32, width, height uint32) (uint32, uint32, uint32, error)
	SetFramerate(fps float32) error
	StartStreaming() error
	WaitForFrame(timeoutSec uint32) error
	ReadFrame() ([]byte, error)
	Close() error
}

// Device owns a camera handle negotiated for either MJPG or YUYV
// capture. The handle is never exposed; all access goes through the
// mutex so concurrent stream consumers serialize on the hardware.
type Device struct {
	mu     sync.Mutex
	dev    v4l2Handle
	path   string
	width  int
	height int
	format pixelFormat
}

// newDevice negotiates a capture format on an opened handle. MJPG is
// preferred; a driver error or a silently substituted format counts as
// rejection and triggers the YUYV fallback at the same resolution and
// rate. Both rejected means construction fails with both causes.
func newDevice(dev v4l2Handle, path string, width, height int, frameRate float64) (*Device, error) {
	fps := float32(math.Max(1, math.Round(frameRate)))

	w, h, mjpgErr := startCapture(dev, fourccMJPG, width, height, fps)
	if mjpgErr == nil {
		return &Device{dev: dev, path: path, width: w, height: h, format: formatMJPEG}, nil
	}
	log.Warn("MJPG format unsupported, falling back to YUYV",
		"device", path, "width", width, "height", height, "fps", fps, "error", mjpgErr)

	w, h, yuyvErr := startCapture(dev, fourccYUYV, width, height, fps)
	if yuyvErr != nil {
		return nil, &OpenError{Device: path, MJPEGErr: mjpgErr, YUYVErr: yuyvErr}
	}
	return &Device{dev: dev, path: path, width: w, height: h, format: formatYUYV}, nil
}

// startCapture attempts one full format/rate/stream negotiation. The
// driver may adjust the resolution; the adjusted values are adopted so
// raw decoding matches the buffers actually delivered.
func startCapture(dev v4l2Handle, code uint32, width, height int, fps float32) (int, int, error) {
	got, w, h, err := dev.SetImageFormat(code, uint32(width), uint32(height))
	if err != nil {
		return 0, 0, fmt.Errorf("set image format %s: %w", fourccString(code), err)
	}
	if got != code {
		return 0, 0, fmt.Errorf("driver selected %s instead of %s", fourccString(got), fourccString(code))
	}
	if err := dev.SetFramerate(fps); err != nil {
		return 0, 0, fmt.Errorf("set framerate %.0f: %w", fps, err)
	}
	if err := dev.StartStreaming(); err != nil {
		return 0, 0, fmt.Errorf("start streaming: %w", err)
	}
	return int(w), int(h), nil
}

// Format reports the negotiated capture format.
func (d *Device) Format() string {
	return d.format.String()
}

// CaptureFrame reads one raw frame from the device and returns it as
// JPEG. MJPG frames pass through unmodified; YUYV frames are converted
// to RGB and encoded at quality 85.
func (d *Device) CaptureFrame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.dev.WaitForFrame(frameWaitSeconds); err != nil {
		return nil, fmt.Errorf("wait for frame on %s: %w", d.path, err)
	}
	raw, err := d.dev.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("read frame from %s: %w", d.path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("read frame from %s: empty buffer", d.path)
	}

	if d.format == formatMJPEG {
		// The driver may recycle the buffer after the lock drops.
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}

	rgb, err := YUYVToRGB(raw, d.width, d.height)
	if err != nil {
		return nil, err
	}
	return encodeJPEG(rgbToImage(rgb, d.width, d.height), deviceJPEGQuality)
}

// Close releases the device handle.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dev.Close()
}
