// Package draw provides immediate-mode 2D drawing onto raster surfaces.
package draw

import (
	"image/color"
	"unicode/utf8"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Surface is an immediate-mode drawing target. All coordinates are in
// logical playfield units; implementations scale to their own resolution.
// Colors follow image/color conventions (alpha-premultiplied).
type Surface interface {
	// Clear fills the whole surface with c and drops pending text.
	Clear(c color.RGBA)
	FillRect(x, y, w, h float64, c color.RGBA)
	FillPolygon(points []Point, c color.RGBA)
	FillCircle(cx, cy, r float64, c color.RGBA)
	// Text draws s with its top-left corner near (x, y).
	Text(x, y float64, s string, c color.RGBA)
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// WithAlpha scales an opaque color to the given opacity in [0, 1].
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha <= 0 {
		return color.RGBA{}
	}
	if alpha >= 1 {
		return c
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

// Over composites src over dst (both premultiplied) and returns an opaque color.
func Over(dst, src color.RGBA) color.RGBA {
	if src.A == 0xff {
		return src
	}
	inv := 1 - float64(src.A)/0xff
	return color.RGBA{
		R: src.R + uint8(float64(dst.R)*inv),
		G: src.G + uint8(float64(dst.G)*inv),
		B: src.B + uint8(float64(dst.B)*inv),
		A: 0xff,
	}
}

// TextMeasurer is implemented by surfaces that know how wide text renders.
type TextMeasurer interface {
	TextWidth(s string) float64
}

// fallbackGlyphWidth is used when a surface cannot measure text.
const fallbackGlyphWidth = 10

// TextWidth returns the logical width of s on surface.
func TextWidth(surface Surface, s string) float64 {
	if m, ok := surface.(TextMeasurer); ok {
		return m.TextWidth(s)
	}
	return float64(utf8.RuneCountInString(s)) * fallbackGlyphWidth
}

// TextCentered draws s horizontally centered on cx.
func TextCentered(surface Surface, cx, y float64, s string, c color.RGBA) {
	surface.Text(cx-TextWidth(surface, s)/2, y, s, c)
}
