package loop

import (
	"fmt"
	"image/color"
	"math"

	"github.com/tomz197/space-defender/internal/draw"
	"github.com/tomz197/space-defender/internal/loop/config"
	"github.com/tomz197/space-defender/internal/object"
)

var (
	colorBackground = draw.RGB(0x00, 0x00, 0x22)
	colorNebula     = draw.RGB(25, 25, 112)
	colorStar       = draw.RGB(0xff, 0xff, 0xff)
	colorText       = draw.RGB(0xff, 0xff, 0xff)
	colorHighScore  = draw.RGB(0xff, 0xcc, 0x00)
	colorSpeedLow   = draw.RGB(0x00, 0xff, 0x00)
	colorSpeedHigh  = draw.RGB(0xff, 0x00, 0x00)
	colorGameOver   = draw.RGB(0xf8, 0x71, 0x71)
	colorHint       = draw.RGB(0xaa, 0xaa, 0xaa)
	colorShade      = draw.WithAlpha(draw.RGB(0, 0, 0), 0.75)
)

// DrawScene paints a full frame of s onto surface.
func DrawScene(surface draw.Surface, s Snapshot) {
	t := float64(s.Time.UnixMilli()) / 1000

	drawBackground(surface, s.Field, t)

	for _, e := range s.Enemies {
		e.Draw(surface)
	}
	for _, b := range s.Bullets {
		b.Draw(surface)
	}
	s.Player.Draw(surface, t)
	for _, e := range s.Explosions {
		e.Draw(surface)
	}

	switch s.State {
	case StatePlaying:
		drawHUD(surface, s)
		if s.Paused {
			drawPaused(surface, s)
		}
	case StateMenu:
		drawMenu(surface, s)
	case StateGameOver:
		drawGameOver(surface, s)
	}
}

// drawBackground fills the playfield, a faint nebula band and drifting stars.
func drawBackground(surface draw.Surface, field object.Playfield, t float64) {
	surface.Clear(colorBackground)

	// Nebula gradient fading out toward the bottom.
	const bands = 6
	bandH := field.Height / bands
	for i := 0; i < bands; i++ {
		alpha := 0.2 * (1 - float64(i)/bands)
		surface.FillRect(0, float64(i)*bandH, field.Width, bandH, draw.WithAlpha(colorNebula, alpha))
	}

	ms := t * 1000
	for i := 0; i < config.StarCount; i++ {
		fi := float64(i)
		x := math.Mod(fi*37+math.Sin(t+fi)*10, field.Width)
		y := math.Mod(fi*73+ms*0.05, field.Height)
		size := 0.5 + math.Sin(t*3+fi*0.7)*1.5
		if size <= 0 {
			continue
		}
		if x < 0 {
			x += field.Width
		}
		surface.FillRect(x, y, size, size, colorStar)
	}
}

func drawHUD(surface draw.Surface, s Snapshot) {
	surface.Text(10, 12, fmt.Sprintf("Score: %d", s.Score), colorText)

	surface.Text(10, 42, "Lives:", colorText)
	for i := 0; i < s.Lives; i++ {
		object.DrawLifeIcon(surface, 80+float64(i)*25, 45)
	}

	surface.Text(10, 72, fmt.Sprintf("High Score: %d", s.HighScore), colorHighScore)

	// Speed label shifts from green to red as difficulty climbs.
	heat := math.Min(1, (s.Difficulty-config.DifficultyBase)/1.0)
	speed := lerpColor(colorSpeedLow, colorSpeedHigh, heat)
	surface.Text(s.Field.Width-150, 12, fmt.Sprintf("Speed: %.1fx", s.Difficulty), speed)

	if !s.AudioEnabled {
		surface.Text(s.Field.Width-150, 42, "Audio: off", colorHint)
	}
}

func drawPaused(surface draw.Surface, s Snapshot) {
	cx, cy := s.Field.Width/2, s.Field.Height/2
	surface.FillRect(0, cy-60, s.Field.Width, 120, colorShade)
	draw.TextCentered(surface, cx, cy-20, "PAUSED", colorText)
	draw.TextCentered(surface, cx, cy+10, "Press P to resume", colorHint)
}

func drawMenu(surface draw.Surface, s Snapshot) {
	cx, cy := s.Field.Width/2, s.Field.Height/2
	surface.FillRect(0, 0, s.Field.Width, s.Field.Height, colorShade)

	draw.TextCentered(surface, cx, cy-150, "SPACE DEFENDER", colorText)
	draw.TextCentered(surface, cx, cy-110, "Defend Earth from the alien invasion!", colorHint)

	controls := []string{
		"< > / A D  . . . . Move",
		"SPACE  . . . . .  Shoot",
		"P  . . . . . . .  Pause",
		"U  . . . . .  Sound on/off",
		"- =  . . . .  Music volume",
		"[ ]  . . . . .  SFX volume",
		"Q  . . . . . . . .  Quit",
	}
	for i, line := range controls {
		draw.TextCentered(surface, cx, cy-60+float64(i)*24, line, colorText)
	}

	draw.TextCentered(surface, cx, cy+130, "Press SPACE or ENTER to start", colorHighScore)
	if s.HighScore > 0 {
		draw.TextCentered(surface, cx, cy+170, fmt.Sprintf("High Score: %d", s.HighScore), colorHighScore)
	}
}

func drawGameOver(surface draw.Surface, s Snapshot) {
	cx, cy := s.Field.Width/2, s.Field.Height/2
	surface.FillRect(0, 0, s.Field.Width, s.Field.Height, colorShade)

	draw.TextCentered(surface, cx, cy-80, "GAME OVER", colorGameOver)
	draw.TextCentered(surface, cx, cy-30, fmt.Sprintf("Final Score: %d", s.Score), colorText)
	if s.NewHighScore() {
		draw.TextCentered(surface, cx, cy, "New High Score!", colorHighScore)
	}
	draw.TextCentered(surface, cx, cy+50, "SPACE to play again", colorText)
	draw.TextCentered(surface, cx, cy+80, "ESC or M for menu", colorHint)
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return draw.RGB(mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B))
}
