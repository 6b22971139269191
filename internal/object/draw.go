package object

import (
	"image/color"
	"math"

	"github.com/tomz197/space-defender/internal/draw"
)

var (
	shipBody    = draw.RGB(0x33, 0x66, 0xff)
	shipDetail  = draw.RGB(0x66, 0xaa, 0xff)
	shipCockpit = draw.RGB(0xaa, 0xdd, 0xff)
	shipEngine  = draw.RGB(0xff, 0x66, 0x00)
	shipFlame   = draw.RGB(0xff, 0xaa, 0x00)
	white       = draw.RGB(0xff, 0xff, 0xff)
	yellow      = draw.RGB(0xff, 0xff, 0x00)
	orange      = draw.RGB(0xff, 0x66, 0x00)
	trailHot    = draw.RGB(0xff, 0x80, 0x00)
)

// Draw renders the ship. t is the animation clock in seconds and drives the
// engine flame flicker.
func (p Player) Draw(s draw.Surface, t float64) {
	x, y, w, h := p.X, p.Y, p.W, p.H

	s.FillPolygon([]draw.Point{
		{X: x + w/2, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}, shipBody)
	s.FillRect(x+w/2-5, y+5, 10, h-10, shipDetail)
	s.FillCircle(x+w/2, y+10, 5, shipCockpit)

	// Engines sit under both wing tips.
	for _, ex := range [2]float64{x + 10, x + w - 10} {
		s.FillPolygon([]draw.Point{
			{X: ex, Y: y + h},
			{X: ex + 5, Y: y + h + 5},
			{X: ex - 5, Y: y + h + 5},
		}, shipEngine)

		flame := 3 + math.Sin(t*10)*2
		s.FillPolygon([]draw.Point{
			{X: ex, Y: y + h + 5},
			{X: ex + 5, Y: y + h + 5 + flame},
			{X: ex - 5, Y: y + h + 5 + flame},
		}, shipFlame)
	}
}

// DrawLifeIcon renders the small ship used by the lives counter.
func DrawLifeIcon(s draw.Surface, x, y float64) {
	s.FillPolygon([]draw.Point{
		{X: x + 10, Y: y},
		{X: x + 20, Y: y + 10},
		{X: x, Y: y + 10},
	}, shipBody)
}

// Draw renders the enemy using its archetype's silhouette.
func (e Enemy) Draw(s draw.Surface) {
	x, y, w, h := e.X, e.Y, e.W, e.H
	cx, cy := x+w/2, y+h/2

	switch e.Kind {
	case EnemyStandard:
		s.FillPolygon([]draw.Point{
			{X: cx, Y: y},
			{X: x + w, Y: cy},
			{X: cx, Y: y + h},
			{X: x, Y: cy},
		}, e.Color)
		s.FillCircle(cx, cy, w/5, white)
	case EnemyHeavy:
		s.FillPolygon([]draw.Point{
			{X: cx, Y: y},
			{X: x + w, Y: y + h/3},
			{X: x + w, Y: y + h*2/3},
			{X: cx, Y: y + h},
			{X: x, Y: y + h*2/3},
			{X: x, Y: y + h/3},
		}, e.Color)
		s.FillCircle(cx, cy, w/6, white)
		s.FillCircle(x+w/4, y+h/3, w/10, white)
		s.FillCircle(x+w*3/4, y+h/3, w/10, white)
	default:
		s.FillPolygon([]draw.Point{
			{X: cx, Y: y},
			{X: x + w, Y: y + h},
			{X: x, Y: y + h},
		}, e.Color)
		s.FillCircle(cx, cy, w/6, white)
	}
}

// Draw renders the bullet core and its fading trail.
func (b Bullet) Draw(s draw.Surface) {
	s.FillRect(b.X, b.Y, b.W, b.H, b.Color)

	// Three bands approximate the trail gradient.
	const trail = 15
	bands := [...]struct {
		from, to float64
		c        color.RGBA
		alpha    float64
	}{
		{0, 5, yellow, 0.7},
		{5, 10, trailHot, 0.5},
		{10, trail, draw.RGB(0xff, 0x00, 0x00), 0.2},
	}
	bottom := b.Y + b.H
	for _, band := range bands {
		spread0 := 2 * band.from / trail
		spread1 := 2 * band.to / trail
		s.FillPolygon([]draw.Point{
			{X: b.X - spread0, Y: bottom + band.from},
			{X: b.X + b.W + spread0, Y: bottom + band.from},
			{X: b.X + b.W + spread1, Y: bottom + band.to},
			{X: b.X - spread1, Y: bottom + band.to},
		}, draw.WithAlpha(band.c, band.alpha))
	}
}

// Draw renders the explosion as three concentric rings fading with age.
func (e Explosion) Draw(s draw.Surface) {
	a := e.Alpha()
	if a <= 0 {
		return
	}
	s.FillCircle(e.X, e.Y, e.Radius, draw.WithAlpha(orange, a))
	s.FillCircle(e.X, e.Y, e.Radius*0.6, draw.WithAlpha(yellow, a))
	s.FillCircle(e.X, e.Y, e.Radius*0.3, draw.WithAlpha(white, a))
}
