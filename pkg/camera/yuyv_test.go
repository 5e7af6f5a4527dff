package camera

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

// grayYUYV builds a frame of identical macropixels.
func grayYUYV(width, height int, y, u, v byte) []byte {
	frame := make([]byte, 0, width*height*2)
	for i := 0; i < width*height/2; i++ {
		frame = append(frame, y, u, y, v)
	}
	return frame
}

func TestYUYVToRGBSize(t *testing.T) {
	const width, height = 16, 8

	rgb, err := YUYVToRGB(grayYUYV(width, height, 128, 128, 128), width, height)
	if err != nil {
		t.Fatalf("YUYVToRGB failed: %v", err)
	}
	if len(rgb) != width*height*3 {
		t.Fatalf("expected %d bytes, got %d", width*height*3, len(rgb))
	}
}

func TestYUYVToRGBOddPixelCount(t *testing.T) {
	// 3x1 satisfies the length precondition with 6 bytes but cannot
	// decode to exactly 3 pixels; it must fail, not come up short.
	rgb, err := YUYVToRGB([]byte{128, 128, 128, 128, 128, 128}, 3, 1)
	if err == nil {
		t.Fatalf("expected error for odd pixel count, got %d bytes", len(rgb))
	}
	if !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("expected ErrMalformedFrame, got %v", err)
	}
	if rgb != nil {
		t.Errorf("expected no output on failure, got %d bytes", len(rgb))
	}
}

func TestYUYVToRGBNeutralGray(t *testing.T) {
	// Y=128 with neutral chroma must stay gray within rounding error.
	const width, height = 4, 2

	rgb, err := YUYVToRGB(grayYUYV(width, height, 128, 128, 128), width, height)
	if err != nil {
		t.Fatalf("YUYVToRGB failed: %v", err)
	}

	for i, ch := range rgb {
		if math.Abs(float64(ch)-128) > 1 {
			t.Fatalf("channel %d = %d, want 128±1", i, ch)
		}
	}
}

func TestYUYVToRGBKnownColor(t *testing.T) {
	// Saturated red in BT.601: Y=81, U=90, V=240.
	rgb, err := YUYVToRGB([]byte{81, 90, 81, 240}, 2, 1)
	if err != nil {
		t.Fatalf("YUYVToRGB failed: %v", err)
	}

	want := []byte{238, 14, 14}
	for px := 0; px < 2; px++ {
		for ch := 0; ch < 3; ch++ {
			got := rgb[px*3+ch]
			if math.Abs(float64(got)-float64(want[ch])) > 1 {
				t.Errorf("pixel %d channel %d = %d, want %d±1", px, ch, got, want[ch])
			}
		}
	}
}

func TestYUYVToRGBClamps(t *testing.T) {
	// Extreme chroma drives the formulas far outside [0,255]; the
	// result must clamp, never wrap.
	rgb, err := YUYVToRGB([]byte{255, 255, 0, 255}, 2, 1)
	if err != nil {
		t.Fatalf("YUYVToRGB failed: %v", err)
	}

	// First pixel: Y=255, B = 255 + 1.772*127 would wrap if truncated.
	if rgb[2] != 255 {
		t.Errorf("expected blue clamped to 255, got %d", rgb[2])
	}
	// Second pixel: Y=0, G = -0.344136*127 - 0.714136*127 < 0.
	if rgb[4] != 0 {
		t.Errorf("expected green clamped to 0, got %d", rgb[4])
	}
}

func TestYUYVToRGBTruncated(t *testing.T) {
	const width, height = 8, 8

	short := make([]byte, width*height*2-1)
	rgb, err := YUYVToRGB(short, width, height)
	if err == nil {
		t.Fatal("expected error for short buffer, got nil")
	}
	if !errors.Is(err, ErrTruncatedFrame) {
		t.Errorf("expected ErrTruncatedFrame, got %v", err)
	}
	if rgb != nil {
		t.Errorf("expected no output on failure, got %d bytes", len(rgb))
	}
}

func TestYUYVToRGBDeterministic(t *testing.T) {
	const width, height = 32, 16

	frame := make([]byte, width*height*2)
	for i := range frame {
		frame[i] = byte(i*31 + 7)
	}

	first, err := YUYVToRGB(frame, width, height)
	if err != nil {
		t.Fatalf("YUYVToRGB failed: %v", err)
	}
	second, err := YUYVToRGB(frame, width, height)
	if err != nil {
		t.Fatalf("YUYVToRGB failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("identical input produced different output")
	}
}
