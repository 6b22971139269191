package loop

import (
	"time"

	"github.com/tomz197/space-defender/internal/event"
	"github.com/tomz197/space-defender/internal/loop/config"
	"github.com/tomz197/space-defender/internal/object"
	"github.com/tomz197/space-defender/internal/physics"
)

// step advances the simulation by one tick. Must be called with g.mu held
// while playing.
func (g *Game) step(now time.Time) {
	g.movePlayer()
	g.advanceBullets()
	if over := g.advanceEnemies(); over {
		return
	}
	g.advanceExplosions()

	if object.Due(now, g.lastSpawn, g.score) {
		g.enemies = append(g.enemies, g.spawner.Spawn(g.difficulty))
		g.lastSpawn = now
	}

	g.difficulty = Difficulty(g.score)
}

// Difficulty returns the enemy speed multiplier for a score.
func Difficulty(score int) float64 {
	return config.DifficultyBase + float64(score)*config.DifficultyPerPoint
}

func (g *Game) movePlayer() {
	moving := false
	if g.held[KeyLeft] {
		g.player.X -= g.player.Speed
		moving = true
	}
	if g.held[KeyRight] {
		g.player.X += g.player.Speed
		moving = true
	}
	g.player.X = physics.ClampX(g.player.X, g.player.W, 0, g.field.Width)

	if moving && g.cosmetic.Float64() < config.EngineHumChance {
		g.emit(event.Event{Kind: event.EngineHum, X: g.player.X + g.player.W/2, Y: g.player.Bottom(), Score: g.score})
	}
}

func (g *Game) advanceBullets() {
	kept := g.bullets[:0]
	for _, b := range g.bullets {
		b.Y -= b.Speed
		if b.Bottom() < 0 {
			continue
		}
		kept = append(kept, b)
	}
	g.bullets = kept
}

// advanceEnemies moves enemies newest first and resolves their collisions.
// It reports whether the session ended.
func (g *Game) advanceEnemies() bool {
	for i := len(g.enemies) - 1; i >= 0; i-- {
		if i >= len(g.enemies) {
			continue
		}
		e := &g.enemies[i]
		e.Y += e.Speed

		if e.Y > g.field.Height {
			g.removeEnemy(i)
			continue
		}

		if physics.Intersects(g.player.Rect, e.Rect) {
			cx, cy := e.Center()
			g.explosions = append(g.explosions, object.NewExplosion(cx, cy, object.ExplosionRadiusCrash))
			g.removeEnemy(i)
			g.lives--
			g.emit(event.Event{Kind: event.PlayerHit, X: cx, Y: cy, Score: g.score})
			if g.lives <= 0 {
				g.lives = 0
				g.gameOver()
				return true
			}
			continue
		}

		for j := len(g.bullets) - 1; j >= 0; j-- {
			if !physics.Intersects(g.bullets[j].Rect, e.Rect) {
				continue
			}
			cx, cy := e.Center()
			points := e.Points
			g.explosions = append(g.explosions, object.NewExplosion(cx, cy, object.ExplosionRadiusHit))
			g.score += points
			g.bullets = append(g.bullets[:j], g.bullets[j+1:]...)
			g.removeEnemy(i)
			g.emit(event.Event{Kind: event.EnemyDestroyed, X: cx, Y: cy, Points: points, Score: g.score})
			break
		}
	}
	return false
}

func (g *Game) removeEnemy(i int) {
	g.enemies = append(g.enemies[:i], g.enemies[i+1:]...)
}

// gameOver ends the session and records the high score in the same
// transition.
func (g *Game) gameOver() {
	g.state = StateGameOver
	g.held = [numKeys]bool{}
	if g.score > g.highScore {
		g.highScore = g.score
	}
	g.emit(event.Event{Kind: event.GameOver, Score: g.score})
	g.logger.Info("game over", "score", g.score, "high_score", g.highScore)
}

func (g *Game) advanceExplosions() {
	kept := g.explosions[:0]
	for _, e := range g.explosions {
		e.Life--
		if e.Life <= 0 {
			continue
		}
		kept = append(kept, e)
	}
	g.explosions = kept
}
