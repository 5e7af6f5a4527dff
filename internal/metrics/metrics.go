// Package metrics holds camfeed's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesStreamed counts successfully captured and emitted frames.
	FramesStreamed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camfeed_frames_streamed_total",
		Help: "Number of JPEG frames written to stream consumers.",
	})

	// CaptureErrors counts frames replaced by an error chunk.
	CaptureErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camfeed_capture_errors_total",
		Help: "Number of frame captures that failed.",
	})

	// ActiveStreams tracks currently connected stream consumers.
	ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "camfeed_active_streams",
		Help: "Number of open multipart stream connections.",
	})
)
