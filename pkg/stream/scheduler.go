// Package stream turns a camera source into a continuous
// multipart/x-mixed-replace byte sequence.
package stream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/camfeed/camfeed/internal/log"
	"github.com/camfeed/camfeed/internal/metrics"
	"github.com/camfeed/camfeed/pkg/camera"
)

// Boundary separates parts of the multipart stream. The stream is
// unbounded, so there is no closing boundary.
const Boundary = "frame"

// ContentType is the value consumers receive in the response header.
const ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

// flusher is what the transport's writer implements when chunks can be
// pushed to the consumer eagerly.
type flusher interface {
	Flush() error
}

// Scheduler drives one consumer's stream: every tick it requests a
// frame from the source and emits one chunk. A failed capture emits a
// short error part and the sequence continues; only cancellation or a
// dead consumer ends it. There is no catch-up: a capture running past
// the tick period simply delays that cycle.
type Scheduler struct {
	src      camera.Source
	interval time.Duration

	// ticks overrides the interval ticker; tests drive it manually.
	ticks <-chan time.Time
}

// New creates a scheduler emitting at frameRate frames per second.
// Rates below 1 are clamped to 1.
func New(src camera.Source, frameRate float64) *Scheduler {
	if frameRate < 1.0 {
		frameRate = 1.0
	}
	return &Scheduler{
		src:      src,
		interval: time.Duration(float64(time.Second) / frameRate),
	}
}

// Interval returns the period between ticks.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run emits chunks into w until ctx is canceled or the consumer goes
// away, observed as a write or flush failure. The first frame is
// emitted immediately; later frames follow the ticker. Captures within
// one consumer are strictly sequential.
func (s *Scheduler) Run(ctx context.Context, w io.Writer) error {
	ticks := s.ticks
	if ticks == nil {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		if err := s.emit(ctx, w); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
		}
	}
}

// emit captures one frame and writes one chunk.
func (s *Scheduler) emit(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var chunk []byte
	frame, err := s.src.CaptureFrame(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		// Canceled mid-capture; not a camera failure.
		return ctx.Err()
	case err != nil:
		log.Error("camera capture failed", "error", err)
		metrics.CaptureErrors.Inc()
		chunk = errorChunk()
	default:
		metrics.FramesStreamed.Inc()
		chunk = frameChunk(frame)
	}

	if _, err := w.Write(chunk); err != nil {
		return fmt.Errorf("write chunk: %w", err)
	}
	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush chunk: %w", err)
		}
	}
	return nil
}

// frameChunk frames one JPEG image as a multipart part with an exact
// Content-Length.
func frameChunk(jpeg []byte) []byte {
	var b bytes.Buffer
	b.Grow(len(jpeg) + 128)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", Boundary, len(jpeg))
	b.Write(jpeg)
	b.WriteString("\r\n")
	return b.Bytes()
}

// errorChunk is the placeholder part for a failed capture.
func errorChunk() []byte {
	return fmt.Appendf(nil, "--%s\r\nContent-Type: text/plain\r\n\r\ncamera-error\r\n", Boundary)
}
