package camera

import (
	"errors"
	"fmt"
	"math"
)

// ErrTruncatedFrame means the driver handed us fewer bytes than the
// negotiated resolution requires.
var ErrTruncatedFrame = errors.New("yuyv frame truncated")

// ErrMalformedFrame means the buffer cannot decode to exactly
// width*height pixels, e.g. a geometry with an odd pixel count.
var ErrMalformedFrame = errors.New("yuyv frame malformed")

// YUYVToRGB converts a packed YUYV 4:2:2 buffer into a tightly packed
// RGB buffer of width*height*3 bytes. Each 4-byte macropixel (Y0,U,Y1,V)
// yields two pixels sharing one chroma pair. The conversion is pure:
// identical input always produces identical output.
func YUYVToRGB(frame []byte, width, height int) ([]byte, error) {
	expected := width * height * 2
	if len(frame) < expected {
		return nil, fmt.Errorf("%w: got %d bytes, need %d for %dx%d",
			ErrTruncatedFrame, len(frame), expected, width, height)
	}

	rgb := make([]byte, 0, width*height*3)
	for i := 0; i+4 <= expected; i += 4 {
		y0 := float64(frame[i])
		u := float64(frame[i+1]) - 128
		y1 := float64(frame[i+2])
		v := float64(frame[i+3]) - 128

		r0, g0, b0 := yuvToRGB(y0, u, v)
		r1, g1, b1 := yuvToRGB(y1, u, v)

		rgb = append(rgb, r0, g0, b0, r1, g1, b1)
	}

	// Macropixels decode in pairs, so an odd pixel count can never
	// fill the output exactly. Fail rather than hand back a frame
	// with a missing pixel.
	if len(rgb) != width*height*3 {
		return nil, fmt.Errorf("%w: %dx%d yields %d rgb bytes, want %d",
			ErrMalformedFrame, width, height, len(rgb), width*height*3)
	}

	return rgb, nil
}

// ITU-R BT.601 coefficients, rounded to nearest and clamped. No gamma
// or color-profile correction is applied.
func yuvToRGB(y, u, v float64) (uint8, uint8, uint8) {
	r := y + 1.402*v
	g := y - 0.344136*u - 0.714136*v
	b := y + 1.772*u

	return clampU8(r), clampU8(g), clampU8(b)
}

func clampU8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
