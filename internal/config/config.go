// Package config loads camfeed's runtime configuration from the
// environment and validates it before anything touches the camera.
package config

import (
	"fmt"
	"net"
	"os"
	"runtime"
	"strconv"
	"time"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 8080
	DefaultFrameRate = 12.0
	DefaultWidth     = 1280
	DefaultHeight    = 720
)

// Config holds the effective service configuration. It is resolved
// once at startup and treated as read-only afterwards.
type Config struct {
	Host      string  `json:"listen_address"`
	Port      int     `json:"port"`
	FrameRate float64 `json:"frame_rate"`
	Width     int     `json:"resolution_width"`
	Height    int     `json:"resolution_height"`
	Device    string  `json:"camera_device,omitempty"`
}

// Load reads configuration from the environment, applying defaults
// and validating ranges. Any error here is fatal at startup.
func Load() (*Config, error) {
	cfg := &Config{
		Host:      envOrDefault("BACKEND_HOST", DefaultHost),
		Port:      DefaultPort,
		FrameRate: DefaultFrameRate,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
	}

	if raw := os.Getenv("BACKEND_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKEND_PORT %q: %w", raw, err)
		}
		cfg.Port = port
	}

	if raw := os.Getenv("FRAME_RATE"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FRAME_RATE %q: %w", raw, err)
		}
		cfg.FrameRate = rate
	}

	var err error
	if cfg.Width, err = envInt("FRAME_WIDTH", cfg.Width); err != nil {
		return nil, err
	}
	if cfg.Height, err = envInt("FRAME_HEIGHT", cfg.Height); err != nil {
		return nil, err
	}

	cfg.Device = os.Getenv("CAMERA_DEVICE")
	if cfg.Device == "" {
		cfg.Device = defaultDevice()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges the rest of the system relies on.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("BACKEND_PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.FrameRate < 1.0 || c.FrameRate > 60.0 {
		return fmt.Errorf("FRAME_RATE must be between 1 and 60, got %g", c.FrameRate)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("FRAME_WIDTH and FRAME_HEIGHT must be greater than zero, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// FrameInterval returns the tick period between frames.
func (c *Config) FrameInterval() time.Duration {
	rate := c.FrameRate
	if rate < 1.0 {
		rate = 1.0
	}
	return time.Duration(float64(time.Second) / rate)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// defaultDevice returns the platform's usual camera node. On
// non-linux systems there is none and the mock source is used.
func defaultDevice() string {
	if runtime.GOOS == "linux" {
		return "/dev/video0"
	}
	return ""
}
