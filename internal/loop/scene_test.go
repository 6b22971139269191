package loop

import (
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/tomz197/space-defender/internal/draw"
)

type textSurface struct {
	texts  []string
	clears int
	shapes int
}

func (s *textSurface) Clear(color.RGBA) { s.clears++ }
func (s *textSurface) FillRect(x, y, w, h float64, c color.RGBA) { s.shapes++ }
func (s *textSurface) FillPolygon(pts []draw.Point, c color.RGBA) { s.shapes++ }
func (s *textSurface) FillCircle(cx, cy, r float64, c color.RGBA) { s.shapes++ }
func (s *textSurface) Text(x, y float64, text string, c color.RGBA) { s.texts = append(s.texts, text) }

func (s *textSurface) has(sub string) bool {
	for _, t := range s.texts {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

func TestDrawSceneOverlays(t *testing.T) {
	g := NewGame(Options{Rand: rand.New(rand.NewSource(4))})

	menu := &textSurface{}
	DrawScene(menu, g.Snapshot())
	if menu.clears != 1 {
		t.Errorf("clears = %d, want 1", menu.clears)
	}
	if !menu.has("SPACE DEFENDER") || menu.has("Score:") {
		t.Errorf("menu texts = %q", menu.texts)
	}

	g.StartSession(t0)
	g.Tick(t0)
	playing := &textSurface{}
	DrawScene(playing, g.Snapshot())
	for _, want := range []string{"Score: 0", "Lives:", "High Score: 0", "Speed: 1.0x"} {
		if !playing.has(want) {
			t.Errorf("HUD missing %q in %q", want, playing.texts)
		}
	}

	g.score = 70
	g.lives = 1
	g.enemies = append(g.enemies, enemyAt(375, 519, 50, 30, 1, 10))
	g.Tick(t0)
	over := &textSurface{}
	DrawScene(over, g.Snapshot())
	if !over.has("GAME OVER") || !over.has("Final Score: 70") || !over.has("New High Score!") {
		t.Errorf("game over texts = %q", over.texts)
	}
}

func TestDrawScenePaused(t *testing.T) {
	g, _ := newTestGame(t)
	g.SetPaused(true, t0)

	s := &textSurface{}
	DrawScene(s, g.Snapshot())
	if !s.has("PAUSED") {
		t.Errorf("texts = %q", s.texts)
	}
}

func TestDrawSceneOnCanvas(t *testing.T) {
	g, _ := newTestGame(t)
	g.Tick(t0)

	c := draw.NewScaledCanvas(80, 30, 800, 600)
	DrawScene(c, g.Snapshot())

	var sb strings.Builder
	if err := c.Render(&sb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(sb.String(), "Score") {
		t.Error("rendered frame has no score text")
	}
}
