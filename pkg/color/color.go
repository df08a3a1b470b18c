// Package color assigns stable display colors to event names. The
// same name always yields the same color; different names very likely
// differ but collisions are acceptable.
package color

import (
	"fmt"
	"math"
)

const (
	saturation  = 0.70
	value       = 0.55
	hoverFactor = 0.85
)

// ColorFor maps an event name to a hex color by hashing the name onto
// a hue and converting through HSV.
func ColorFor(name string) string {
	r, g, b := rgbFor(name)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// HoverColorFor is ColorFor darkened by 15% per channel, floored at 0.
func HoverColorFor(name string) string {
	r, g, b := rgbFor(name)
	return fmt.Sprintf("#%02x%02x%02x", darken(r), darken(g), darken(b))
}

func rgbFor(name string) (uint8, uint8, uint8) {
	hue := math.Abs(float64(hashName(name)))
	return hsvToRGB(math.Mod(hue, 360), saturation, value)
}

// hashName is the djb2 string hash with wrapping 32-bit arithmetic.
func hashName(name string) int32 {
	var h int32 = 5381
	for _, c := range name {
		h = h*33 + int32(c)
	}
	return h
}

// hsvToRGB is the standard six-sector HSV to RGB conversion. h is in
// degrees, s and v in [0, 1].
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

func darken(channel uint8) uint8 {
	d := float64(channel) * hoverFactor
	if d < 0 {
		d = 0
	}
	return uint8(d)
}
