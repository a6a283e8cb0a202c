// Package colorutil provides shared color utilities for the floor plan application.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common colors used throughout the application.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.RGBA{}

	// Defaults for the dynamic room visualization.
	MotionAccent = color.RGBA{R: 255, G: 152, B: 0, A: 120}
	LightAccent  = color.RGBA{R: 255, G: 214, B: 10, A: 70}
	NeutralFill  = color.RGBA{R: 128, G: 128, B: 128, A: 30}
)

// Parse parses a user-authored color string. Accepted forms are
// "rgba(r,g,b,a)" with a in 0..1, "rgb(r,g,b)", and "#rrggbb"/"#rrggbbaa".
func Parse(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[5:len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[4:len(s)-1], false)
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	}
	return color.RGBA{}, fmt.Errorf("unrecognized color %q", s)
}

func parseFunc(args string, hasAlpha bool) (color.RGBA, error) {
	parts := strings.Split(args, ",")
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(parts) != want {
		return color.RGBA{}, fmt.Errorf("expected %d components, got %d", want, len(parts))
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("component %d: %w", i, err)
		}
		ch[i] = clamp255(v)
	}

	a := uint8(255)
	if hasAlpha {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("alpha: %w", err)
		}
		a = clamp255(v * 255)
	}

	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}

func parseHex(hex string) (color.RGBA, error) {
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("hex color must have 6 or 8 digits, got %d", len(hex))
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.RGBA{}, err
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

// Blend linearly interpolates between two colors. t=0 yields a, t=1 yields b.
func Blend(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}
