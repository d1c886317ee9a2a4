// Package colorutil provides shared color utilities for the venue designer.
package colorutil

import (
	"image/color"
	"strconv"
	"strings"
)

// Common overlay colors used throughout the application.
var (
	Black       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.NRGBA{}
	Blue        = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 255}
	Green       = color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 255}
	Amber       = color.NRGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 255}
	Red         = color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 255}
	Gray        = color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 255}
)

var named = map[string]color.NRGBA{
	"black":       Black,
	"white":       White,
	"transparent": Transparent,
	"blue":        Blue,
	"green":       Green,
	"red":         Red,
	"gray":        Gray,
	"grey":        Gray,
}

// Parse converts a CSS-style color string ("#rgb", "#rrggbb", "#rrggbbaa",
// "rgb(r,g,b)", "rgba(r,g,b,a)" or a small set of names) into a color.
func Parse(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, false
	}
	if c, ok := named[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.HasPrefix(s, "rgb") {
		return parseFunc(s)
	}
	return color.NRGBA{}, false
}

// ParseOr is Parse with a fallback for empty or malformed input.
func ParseOr(s string, fallback color.NRGBA) color.NRGBA {
	if c, ok := Parse(s); ok {
		return c
	}
	return fallback
}

// WithOpacity scales the alpha channel by opacity (0..1).
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		c.A = 0
		return c
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}

// Hex formats a color as "#rrggbb" (or "#rrggbbaa" when not opaque).
func Hex(c color.NRGBA) string {
	const digits = "0123456789abcdef"
	buf := []byte{'#'}
	for _, v := range []uint8{c.R, c.G, c.B} {
		buf = append(buf, digits[v>>4], digits[v&0x0f])
	}
	if c.A != 255 {
		buf = append(buf, digits[c.A>>4], digits[c.A&0x0f])
	}
	return string(buf)
}

func parseHex(h string) (color.NRGBA, bool) {
	switch len(h) {
	case 3, 4:
		var expanded strings.Builder
		for _, r := range h {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		return parseHex(expanded.String())
	case 6, 8:
	default:
		return color.NRGBA{}, false
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

func parseFunc(s string) (color.NRGBA, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, false
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, false
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		ch[i] = clampByte(n)
	}
	alpha := uint8(255)
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		alpha = clampByte(a * 255)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, true
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
