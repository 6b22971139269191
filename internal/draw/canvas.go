package draw

import (
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
// Each terminal cell shows two sub-pixels: the upper one as foreground of '▀'
// and the lower one as background.
type Canvas struct {
	termWidth      int          // Actual terminal columns
	termHeight     int          // Actual terminal rows
	subPixelHeight int          // termHeight * 2
	pixels         []color.RGBA // Flat slice: [y * termWidth + x], always opaque
	background     color.RGBA

	// Last frame written to the terminal, per sub-pixel. Only cells that changed
	// are emitted by Render.
	prev      []color.RGBA
	prevValid bool

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	texts     []textItem
	textCells []int // cell indices covered by text in the last frame

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	scaledBuf       []Point
	intersectionBuf []float64
	numBuf          [20]byte
}

type textItem struct {
	col, row int // 1-based canvas cell
	value    string
	color    color.RGBA
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]color.RGBA, subPixelHeight*termWidth)
		c.prev = make([]color.RGBA, subPixelHeight*termWidth)
		c.prevValid = false
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.prevValid = false
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every cell.
func (c *Canvas) ForceRedraw() {
	c.prevValid = false
}

// Clear fills all pixels with bg and drops queued text.
func (c *Canvas) Clear(bg color.RGBA) {
	bg.A = 0xff
	c.background = bg
	for i := range c.pixels {
		c.pixels[i] = bg
	}
	c.texts = c.texts[:0]
}

// blendPixel composites col over the pixel at actual terminal coordinates.
func (c *Canvas) blendPixel(x, y int, col color.RGBA) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		i := y*c.termWidth + x
		c.pixels[i] = Over(c.pixels[i], col)
	}
}

// At returns the pixel at actual sub-pixel coordinates.
func (c *Canvas) At(x, y int) color.RGBA {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return color.RGBA{}
	}
	return c.pixels[y*c.termWidth+x]
}

// FillRect fills an axis-aligned rectangle. Anything with positive size
// covers at least one pixel, so thin bullets and stars stay visible.
func (c *Canvas) FillRect(x, y, w, h float64, col color.RGBA) {
	if w <= 0 || h <= 0 || col.A == 0 {
		return
	}
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := int(math.Ceil((x + w) * c.scaleX))
	y1 := int(math.Ceil((y + h) * c.scaleY))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.blendPixel(px, py, col)
		}
	}
}

// FillCircle fills a disc. Pixels are sampled at their centers in logical space.
func (c *Canvas) FillCircle(cx, cy, r float64, col color.RGBA) {
	if r <= 0 || col.A == 0 {
		return
	}
	x0 := int(math.Floor((cx - r) * c.scaleX))
	x1 := int(math.Ceil((cx + r) * c.scaleX))
	y0 := int(math.Floor((cy - r) * c.scaleY))
	y1 := int(math.Ceil((cy + r) * c.scaleY))

	hit := false
	for py := y0; py <= y1; py++ {
		ly := (float64(py)+0.5)/c.scaleY - cy
		for px := x0; px <= x1; px++ {
			lx := (float64(px)+0.5)/c.scaleX - cx
			if lx*lx+ly*ly <= r*r {
				c.blendPixel(px, py, col)
				hit = true
			}
		}
	}
	if !hit {
		c.blendPixel(int(math.Floor(cx*c.scaleX)), int(math.Floor(cy*c.scaleY)), col)
	}
}

// FillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) FillPolygon(points []Point, col color.RGBA) {
	if len(points) < 3 || col.A == 0 {
		return
	}

	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))
	filled := false

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Floor(intersections[i] + 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.blendPixel(x, y, col)
				filled = true
			}
		}
	}

	// Shapes smaller than a pixel still leave a mark at their first vertex.
	if !filled {
		c.blendPixel(int(math.Floor(scaled[0].X)), int(math.Floor(scaled[0].Y)), col)
	}
}

// Text queues s to be written over the pixels at the cell containing (x, y).
func (c *Canvas) Text(x, y float64, s string, col color.RGBA) {
	if s == "" {
		return
	}
	tc, tr := c.LogicalToTerminal(x, y)
	c.TextAt(tc, tr, s, col)
}

// TextAt queues s at a 1-based canvas cell.
func (c *Canvas) TextAt(col, row int, s string, clr color.RGBA) {
	if row < 1 || row > c.termHeight || s == "" {
		return
	}
	if col < 1 {
		s = clipLeft(s, 1-col)
		col = 1
	}
	if room := c.termWidth - col + 1; room <= 0 {
		return
	} else if len([]rune(s)) > room {
		s = string([]rune(s)[:room])
	}
	c.texts = append(c.texts, textItem{col: col, row: row, value: s, color: clr})
}

func clipLeft(s string, n int) string {
	r := []rune(s)
	if n >= len(r) {
		return ""
	}
	return string(r[n:])
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes the changed cells to w using truecolor half-block characters,
// followed by the queued text.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 8)

	// Cells that held text last frame must be repainted from pixels.
	dirty := make(map[int]struct{}, len(c.textCells))
	for _, i := range c.textCells {
		dirty[i] = struct{}{}
	}

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			_, isDirty := dirty[row*c.termWidth+col]
			if c.prevValid && !isDirty &&
				c.prev[topOffset+col] == top && c.prev[bottomOffset+col] == bottom {
				continue
			}
			c.prev[topOffset+col] = top
			c.prev[bottomOffset+col] = bottom

			c.moveCursor(col+1, row+1)
			c.fg(top)
			c.bg(bottom)
			c.renderBuf.WriteRune(BlockUpperHalf)
		}
	}
	c.prevValid = true

	c.textCells = c.textCells[:0]
	for _, t := range c.texts {
		c.moveCursor(t.col, t.row)
		c.fg(t.color)
		c.bg(c.background)
		c.renderBuf.WriteString(t.value)
		for i := range []rune(t.value) {
			c.textCells = append(c.textCells, (t.row-1)*c.termWidth+t.col-1+i)
		}
	}
	c.renderBuf.WriteString("\033[0m")

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+c.offsetRow), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+c.offsetCol), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) fg(col color.RGBA) {
	c.sgr("38", col)
}

func (c *Canvas) bg(col color.RGBA) {
	c.sgr("48", col)
}

func (c *Canvas) sgr(kind string, col color.RGBA) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.WriteString(kind)
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.B), 10))
	c.renderBuf.WriteByte('m')
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TextWidth returns the logical width covered by s, one cell per rune.
func (c *Canvas) TextWidth(s string) float64 {
	if c.scaleX == 0 {
		return 0
	}
	return float64(len([]rune(s))) / c.scaleX
}

// Ensure Canvas satisfies Surface.
var (
	_ Surface      = (*Canvas)(nil)
	_ TextMeasurer = (*Canvas)(nil)
)
