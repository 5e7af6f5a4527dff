package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/camfeed/camfeed/internal/config"
	"github.com/camfeed/camfeed/internal/log"
	"github.com/camfeed/camfeed/pkg/camera"
	"github.com/camfeed/camfeed/pkg/web"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// A .env file is optional; the environment wins either way.
	_ = godotenv.Load()
	log.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log.Info("loaded configuration",
		"addr", cfg.Addr(),
		"frame_rate", cfg.FrameRate,
		"resolution", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"device", cfg.Device)

	source := buildSource(cfg)
	if closer, ok := source.(io.Closer); ok {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := web.New(ctx, cfg, source)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr())
		errCh <- srv.Listen()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
		if err := srv.Shutdown(shutdownTimeout); err != nil {
			log.Error("shutdown incomplete", "error", err)
		}
	}
}

// buildSource opens the configured device, falling back to the mock
// source when there is no device or negotiation fails. A camera that
// cannot be opened is never fatal at process scope.
func buildSource(cfg *config.Config) camera.Source {
	if cfg.Device == "" {
		log.Warn("no camera device configured; using mock camera")
		return camera.NewMock(cfg.Width, cfg.Height)
	}

	dev, err := camera.OpenDevice(cfg.Device, cfg.Width, cfg.Height, cfg.FrameRate)
	if err != nil {
		log.Error("falling back to mock camera", "device", cfg.Device, "error", err)
		return camera.NewMock(cfg.Width, cfg.Height)
	}

	log.Info("using v4l2 camera device", "device", cfg.Device, "format", dev.Format())
	return dev
}
