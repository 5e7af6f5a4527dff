package web

import (
	"bufio"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/camfeed/camfeed/internal/log"
	"github.com/camfeed/camfeed/internal/metrics"
	"github.com/camfeed/camfeed/pkg/stream"
)

// handleStream serves one consumer an unbounded multipart sequence.
// Each consumer gets its own scheduler ticking independently; the
// shared source serializes hardware access internally.
func (s *Server) handleStream(c *fiber.Ctx) error {
	logger := log.With("stream_id", uuid.NewString(), "remote", c.IP())

	c.Set(fiber.HeaderContentType, stream.ContentType)
	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")

	sched := stream.New(s.source, s.cfg.FrameRate)
	ctx := s.ctx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		metrics.ActiveStreams.Inc()
		defer metrics.ActiveStreams.Dec()

		logger.Info("stream opened", "interval", sched.Interval())
		err := sched.Run(ctx, w)
		logger.Info("stream closed", "reason", err)
	})
	return nil
}

// handleConfig returns the effective configuration.
func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(s.cfg)
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.SendString("ok")
}
