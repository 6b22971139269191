// Package object defines the game entities and how they are spawned and drawn.
package object

import (
	"image/color"

	"github.com/tomz197/space-defender/internal/draw"
	"github.com/tomz197/space-defender/internal/physics"
)

// Playfield is the fixed logical drawing area all entities live in.
type Playfield struct {
	Width  float64
	Height float64
}

// DefaultPlayfield is the 800x600 logical playfield.
var DefaultPlayfield = Playfield{Width: 800, Height: 600}

// Player defaults.
const (
	PlayerStartX = 375
	PlayerStartY = 520
	PlayerWidth  = 50
	PlayerHeight = 30
	PlayerSpeed  = 5
)

// Bullet defaults.
const (
	BulletWidth  = 4
	BulletHeight = 15
	BulletSpeed  = 10
)

// Explosion defaults.
const (
	ExplosionLife        = 20 // ticks
	ExplosionRadiusHit   = 30 // enemy shot down
	ExplosionRadiusCrash = 40 // enemy rammed the player
)

// Palette used by entities.
var (
	ColorPlayer = draw.RGB(0x00, 0xff, 0x00)
	ColorBullet = draw.RGB(0xff, 0xff, 0x00)
)

// Player is the ship at the bottom of the playfield.
type Player struct {
	physics.Rect
	Speed float64
	Color color.RGBA
}

// NewPlayer creates a player at the start position.
func NewPlayer() Player {
	return Player{
		Rect:  physics.Rect{X: PlayerStartX, Y: PlayerStartY, W: PlayerWidth, H: PlayerHeight},
		Speed: PlayerSpeed,
		Color: ColorPlayer,
	}
}

// Enemy descends from the top of the playfield. Speed is fixed at spawn time.
type Enemy struct {
	physics.Rect
	Kind   EnemyKind
	Speed  float64
	Color  color.RGBA
	Points int
}

// Bullet travels straight up from the player.
type Bullet struct {
	physics.Rect
	Speed float64
	Color color.RGBA
}

// NewBullet creates a bullet leaving the nose of p.
func NewBullet(p Player) Bullet {
	return Bullet{
		Rect: physics.Rect{
			X: p.X + p.W/2 - BulletWidth/2,
			Y: p.Y,
			W: BulletWidth,
			H: BulletHeight,
		},
		Speed: BulletSpeed,
		Color: ColorBullet,
	}
}

// Explosion is a purely cosmetic fading burst.
type Explosion struct {
	X, Y    float64
	Radius  float64
	Life    int
	MaxLife int
}

// NewExplosion creates an explosion centered at (x, y).
func NewExplosion(x, y, radius float64) Explosion {
	return Explosion{
		X:       x,
		Y:       y,
		Radius:  radius,
		Life:    ExplosionLife,
		MaxLife: ExplosionLife,
	}
}

// Alpha returns the remaining opacity in [0, 1].
func (e Explosion) Alpha() float64 {
	if e.MaxLife <= 0 {
		return 0
	}
	return float64(e.Life) / float64(e.MaxLife)
}
