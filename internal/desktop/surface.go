package desktop

import (
	"image"
	"image/color"
	"sync"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/space-defender/internal/draw"
)

// Debug font cell size in pixels.
const (
	glyphWidth  = 6
	glyphHeight = 16
)

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// solidSource returns a one pixel white source image for DrawTriangles.
func solidSource() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// Surface draws onto an ebiten image. The image is expected to use the
// playfield's logical size.
type Surface struct {
	dst     *ebiten.Image
	textBuf *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewSurface creates a surface targeting dst.
func NewSurface(dst *ebiten.Image) *Surface {
	return &Surface{dst: dst}
}

// Clear fills the whole image with c.
func (s *Surface) Clear(c color.RGBA) {
	s.dst.Fill(c)
}

// FillRect draws a filled rectangle.
func (s *Surface) FillRect(x, y, w, h float64, c color.RGBA) {
	vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

// FillCircle draws a filled circle.
func (s *Surface) FillCircle(cx, cy, r float64, c color.RGBA) {
	if r <= 0 {
		return
	}
	vector.DrawFilledCircle(s.dst, float32(cx), float32(cy), float32(r), c, true)
}

// FillPolygon draws a filled convex polygon as a triangle fan.
func (s *Surface) FillPolygon(points []draw.Point, c color.RGBA) {
	if len(points) < 3 {
		return
	}
	r := float32(c.R) / 0xff
	g := float32(c.G) / 0xff
	b := float32(c.B) / 0xff
	a := float32(c.A) / 0xff

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for _, p := range points {
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}
	for i := 1; i < len(points)-1; i++ {
		s.indices = append(s.indices, 0, uint16(i), uint16(i+1))
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	s.dst.DrawTriangles(s.vertices, s.indices, solidSource(), op)
}

// Text draws s in the debug font tinted with c.
func (s *Surface) Text(x, y float64, str string, c color.RGBA) {
	if str == "" {
		return
	}
	w := utf8.RuneCountInString(str) * glyphWidth
	if s.textBuf == nil || s.textBuf.Bounds().Dx() < w {
		s.textBuf = ebiten.NewImage(max(w, 256), glyphHeight)
	}
	s.textBuf.Clear()
	ebitenutil.DebugPrintAt(s.textBuf, str, 0, 0)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	s.dst.DrawImage(s.textBuf.SubImage(image.Rect(0, 0, w, glyphHeight)).(*ebiten.Image), op)
}

// TextWidth returns the width of s in the debug font.
func (s *Surface) TextWidth(str string) float64 {
	return textWidth(str)
}

func textWidth(str string) float64 {
	return float64(utf8.RuneCountInString(str) * glyphWidth)
}

var (
	_ draw.Surface      = (*Surface)(nil)
	_ draw.TextMeasurer = (*Surface)(nil)
)
