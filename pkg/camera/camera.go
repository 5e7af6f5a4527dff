// Package camera exposes a single camera as a stream of JPEG frames.
//
// A Source is either a real V4L2 device or a synthetic generator; the
// choice is made once at startup and never revisited. Every frame is a
// complete, independently decodable JPEG image.
package camera

import (
	"context"
	"fmt"
)

// Source is the capture capability shared by every stream consumer.
// Implementations must be safe for concurrent callers; serializing
// access to the underlying hardware is their job, not the caller's.
type Source interface {
	// CaptureFrame returns one complete JPEG image, or an error
	// describing why this frame could not be produced. A failed
	// frame does not poison the source; the next call may succeed.
	CaptureFrame(ctx context.Context) ([]byte, error)
}

// OpenError reports a device whose driver rejected both the preferred
// MJPG format and the YUYV fallback.
type OpenError struct {
	Device   string
	MJPEGErr error
	YUYVErr  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("configure camera %s for MJPG (%v) and YUYV (%v)",
		e.Device, e.MJPEGErr, e.YUYVErr)
}

// Unwrap exposes both negotiation causes to errors.Is/As.
func (e *OpenError) Unwrap() []error {
	return []error{e.MJPEGErr, e.YUYVErr}
}
