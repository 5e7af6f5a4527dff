// Package web exposes the camera as an MJPEG stream over HTTP.
package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/camfeed/camfeed/internal/config"
	"github.com/camfeed/camfeed/pkg/camera"
)

// Server serves the stream plus the config, health and metrics
// endpoints.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	source camera.Source

	// Canceled at shutdown so open streams stop capturing.
	ctx context.Context
}

// New builds the HTTP surface around a single shared camera source.
// ctx should be canceled when the process shuts down.
func New(ctx context.Context, cfg *config.Config, source camera.Source) *Server {
	s := &Server{
		cfg:    cfg,
		source: source,
		ctx:    ctx,
	}

	app := fiber.New(fiber.Config{
		AppName:               "camfeed",
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: fiber.MethodGet,
		AllowHeaders: "*",
	}))

	app.Get("/stream", s.handleStream)
	app.Get("/config", s.handleConfig)
	app.Get("/health", s.handleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.app = app
	return s
}

// Listen blocks serving HTTP on the configured address.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Addr())
}

// Shutdown drains connections, waiting at most timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}
