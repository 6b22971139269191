package loop

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/space-defender/internal/event"
	"github.com/tomz197/space-defender/internal/object"
	"github.com/tomz197/space-defender/internal/physics"
)

var t0 = time.Unix(1_700_000_000, 0)

type eventLog struct {
	events []event.Event
}

func (l *eventLog) OnEvent(e event.Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) count(k event.Kind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func newTestGame(t *testing.T) (*Game, *eventLog) {
	t.Helper()
	log := &eventLog{}
	g := NewGame(Options{
		Rand:      rand.New(rand.NewSource(1)),
		Listeners: []event.Listener{log},
	})
	g.StartSession(t0)
	return g, log
}

func enemyAt(x, y, w, h, speed float64, points int) object.Enemy {
	return object.Enemy{
		Rect:   physics.Rect{X: x, Y: y, W: w, H: h},
		Kind:   object.EnemyStandard,
		Speed:  speed,
		Points: points,
	}
}

func TestStartSessionResetsState(t *testing.T) {
	g, log := newTestGame(t)

	if g.State() != StatePlaying {
		t.Fatalf("state = %v, want playing", g.State())
	}
	if g.Score() != 0 || g.Lives() != 3 || g.Difficulty() != 1 {
		t.Errorf("score=%d lives=%d difficulty=%v", g.Score(), g.Lives(), g.Difficulty())
	}
	s := g.Snapshot()
	if s.Player.X != 375 || s.Player.Y != 520 {
		t.Errorf("player at (%v, %v), want (375, 520)", s.Player.X, s.Player.Y)
	}
	if len(s.Enemies)+len(s.Bullets)+len(s.Explosions) != 0 {
		t.Errorf("entity collections not empty: %+v", s)
	}
	if log.count(event.SessionStarted) != 1 {
		t.Errorf("session_started emitted %d times", log.count(event.SessionStarted))
	}
}

func TestBulletHitsEnemy(t *testing.T) {
	g, log := newTestGame(t)

	g.FireShot()
	g.Tick(t0)
	if n := len(g.bullets); n != 1 {
		t.Fatalf("bullets = %d, want 1", n)
	}
	if b := g.bullets[0]; b.X != 398 || b.Y != 510 {
		t.Fatalf("bullet at (%v, %v), want (398, 510)", b.X, b.Y)
	}

	// Lands at y=471..501, overlapping the bullet at y=500..515.
	g.enemies = append(g.enemies, enemyAt(380, 470, 40, 30, 1, 10))
	g.Tick(t0)

	if got := g.Score(); got != 10 {
		t.Errorf("score = %d, want 10", got)
	}
	if len(g.enemies) != 0 || len(g.bullets) != 0 {
		t.Errorf("enemies=%d bullets=%d, want both removed", len(g.enemies), len(g.bullets))
	}
	if len(g.explosions) != 1 || g.explosions[0].Radius != object.ExplosionRadiusHit {
		t.Fatalf("explosions = %+v, want one of radius 30", g.explosions)
	}
	if x, y := g.explosions[0].X, g.explosions[0].Y; x != 400 || y != 486 {
		t.Errorf("explosion at (%v, %v), want enemy center (400, 486)", x, y)
	}
	if g.Lives() != 3 {
		t.Errorf("lives = %d, want 3", g.Lives())
	}
	if log.count(event.ShotFired) != 1 || log.count(event.EnemyDestroyed) != 1 {
		t.Errorf("events = %+v", log.events)
	}
}

func TestEnemyRamsPlayer(t *testing.T) {
	g, log := newTestGame(t)

	g.bullets = append(g.bullets, object.NewBullet(object.Player{Rect: physics.Rect{X: 100, Y: 300, W: 50}}))
	g.enemies = append(g.enemies, enemyAt(375, 519, 50, 30, 1, 10))
	g.Tick(t0)

	if got := g.Lives(); got != 2 {
		t.Errorf("lives = %d, want 2", got)
	}
	if len(g.enemies) != 0 {
		t.Errorf("enemies = %d, want 0", len(g.enemies))
	}
	if len(g.explosions) != 1 || g.explosions[0].Radius != object.ExplosionRadiusCrash {
		t.Errorf("explosions = %+v, want one of radius 40", g.explosions)
	}
	if len(g.bullets) != 1 || g.bullets[0].Y != 290 {
		t.Errorf("bullets = %+v, want the one bullet advanced only", g.bullets)
	}
	if g.Score() != 0 {
		t.Errorf("score = %d, want 0", g.Score())
	}
	if log.count(event.PlayerHit) != 1 {
		t.Errorf("player_hit emitted %d times", log.count(event.PlayerHit))
	}
}

func TestPlayerCollisionBeatsBullet(t *testing.T) {
	g, _ := newTestGame(t)

	// The enemy overlaps both the player and a bullet after moving.
	g.bullets = append(g.bullets, object.Bullet{Rect: physics.Rect{X: 390, Y: 530, W: 4, H: 15}, Speed: 10})
	g.enemies = append(g.enemies, enemyAt(375, 519, 50, 30, 1, 10))
	g.Tick(t0)

	if g.Lives() != 2 || g.Score() != 0 {
		t.Errorf("lives=%d score=%d, want 2 and 0", g.Lives(), g.Score())
	}
	if len(g.bullets) != 1 {
		t.Errorf("bullets = %d, want the bullet untouched", len(g.bullets))
	}
}

func TestEnemyLeavesPlayfield(t *testing.T) {
	g, _ := newTestGame(t)

	a := object.ArchetypeOf(object.EnemyStandard)
	g.enemies = append(g.enemies, enemyAt(0, -a.Height, a.Width, a.Height, 1, a.Points))

	ticks := 0
	for len(g.enemies) > 0 && ticks < 1000 {
		g.Tick(t0)
		ticks++
	}
	if len(g.enemies) != 0 {
		t.Fatal("enemy never left the playfield")
	}
	if ticks != 631 {
		t.Errorf("removed after %d ticks, want 631", ticks)
	}
	if g.Score() != 0 || g.Lives() != 3 {
		t.Errorf("score=%d lives=%d, want 0 and 3", g.Score(), g.Lives())
	}
}

func TestBulletLeavesPlayfield(t *testing.T) {
	g, _ := newTestGame(t)
	g.bullets = append(g.bullets, object.Bullet{Rect: physics.Rect{X: 10, Y: -5, W: 4, H: 15}, Speed: 10})

	g.Tick(t0)
	if len(g.bullets) != 1 {
		t.Fatal("bullet removed while its bottom edge was still on screen")
	}
	g.Tick(t0)
	if len(g.bullets) != 0 {
		t.Error("bullet kept after passing the top")
	}
}

func TestSpawnCadence(t *testing.T) {
	g, _ := newTestGame(t)

	g.Tick(t0.Add(2000 * time.Millisecond))
	if len(g.enemies) != 0 {
		t.Fatal("spawned at exactly the delay")
	}
	first := t0.Add(2001 * time.Millisecond)
	g.Tick(first)
	if len(g.enemies) != 1 {
		t.Fatalf("enemies = %d, want 1", len(g.enemies))
	}
	for ms := 500; ms <= 2000; ms += 500 {
		g.Tick(first.Add(time.Duration(ms) * time.Millisecond))
	}
	if spawned := len(g.enemies); spawned != 1 {
		t.Errorf("second spawn within 2000ms, enemies = %d", spawned)
	}
}

func TestSpawnDelayFloor(t *testing.T) {
	g, _ := newTestGame(t)
	g.score = 1000

	g.Tick(t0.Add(500 * time.Millisecond))
	if len(g.enemies) != 0 {
		t.Fatal("spawned at exactly the 500ms floor")
	}
	g.Tick(t0.Add(501 * time.Millisecond))
	if len(g.enemies) != 1 {
		t.Errorf("enemies = %d, want 1 after the 500ms floor", len(g.enemies))
	}
}

func TestEnemySpeedFrozenAtSpawn(t *testing.T) {
	g, _ := newTestGame(t)

	g.Tick(t0.Add(2001 * time.Millisecond))
	if len(g.enemies) != 1 {
		t.Fatalf("enemies = %d, want 1", len(g.enemies))
	}
	speed := g.enemies[0].Speed

	g.score = 900
	g.Tick(t0.Add(2002 * time.Millisecond))
	g.Tick(t0.Add(2003 * time.Millisecond))

	if got := g.Difficulty(); math.Abs(got-1.9) > 1e-9 {
		t.Errorf("difficulty = %v, want 1.9", got)
	}
	if got := g.enemies[0].Speed; got != speed {
		t.Errorf("speed changed from %v to %v", speed, got)
	}
}

func TestPlayerClamp(t *testing.T) {
	g, _ := newTestGame(t)

	g.player.X = 0
	g.SetMovementKey(KeyLeft, true)
	g.Tick(t0)
	if g.player.X != 0 {
		t.Errorf("moving left from 0 gave x=%v", g.player.X)
	}

	g.SetMovementKey(KeyLeft, false)
	g.player.X = 750
	g.SetMovementKey(KeyRight, true)
	g.Tick(t0)
	if g.player.X != 750 {
		t.Errorf("moving right from the edge gave x=%v", g.player.X)
	}

	g.SetMovementKey(KeyRight, false)
	g.SetMovementKey(KeyLeft, true)
	g.Tick(t0)
	g.Tick(t0)
	if g.player.X != 740 {
		t.Errorf("x = %v after two left ticks, want 740", g.player.X)
	}
}

func TestGameOverUpdatesHighScore(t *testing.T) {
	tests := []struct {
		name      string
		high      int
		score     int
		wantHigh  int
		wantNewHS bool
	}{
		{"beats high", 50, 120, 120, true},
		{"below high", 300, 120, 300, false},
		{"zero score", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, log := newTestGame(t)
			g.highScore = tt.high
			g.score = tt.score
			g.lives = 1
			g.enemies = append(g.enemies,
				enemyAt(375, 519, 50, 30, 1, 10),
				enemyAt(380, 519, 40, 30, 1, 10),
			)
			g.Tick(t0)

			if g.State() != StateGameOver {
				t.Fatalf("state = %v, want game over", g.State())
			}
			if g.Lives() != 0 {
				t.Errorf("lives = %d, want 0", g.Lives())
			}
			if g.HighScore() != tt.wantHigh {
				t.Errorf("high score = %d, want %d", g.HighScore(), tt.wantHigh)
			}
			if got := g.Snapshot().NewHighScore(); got != tt.wantNewHS {
				t.Errorf("NewHighScore() = %v, want %v", got, tt.wantNewHS)
			}
			if log.count(event.GameOver) != 1 {
				t.Errorf("game_over emitted %d times", log.count(event.GameOver))
			}
		})
	}
}

func TestTicksHaltOutsidePlaying(t *testing.T) {
	renders := 0
	g := NewGame(Options{
		Rand:     rand.New(rand.NewSource(2)),
		Renderer: RendererFunc(func(Snapshot) { renders++ }),
	})

	g.Tick(t0.Add(time.Hour))
	if renders != 0 {
		t.Errorf("menu tick rendered %d frames", renders)
	}

	g.StartSession(t0)
	g.Tick(t0.Add(16 * time.Millisecond))
	if renders != 2 {
		t.Errorf("renders = %d, want 2 (start + one tick)", renders)
	}

	g.lives = 1
	g.enemies = append(g.enemies, enemyAt(375, 519, 50, 30, 1, 10))
	g.Tick(t0.Add(32 * time.Millisecond))
	after := renders
	x := g.player.X

	g.SetMovementKey(KeyLeft, true)
	g.Tick(t0.Add(10 * time.Second))
	if renders != after {
		t.Errorf("game over tick rendered")
	}
	if len(g.enemies) != 0 || g.player.X != x {
		t.Error("simulation advanced after game over")
	}
}

func TestFireIgnoredUnlessPlaying(t *testing.T) {
	g := NewGame(Options{Rand: rand.New(rand.NewSource(3))})
	g.FireShot()
	g.StartSession(t0)
	g.Tick(t0)
	if len(g.bullets) != 0 {
		t.Errorf("fire queued in the menu produced %d bullets", len(g.bullets))
	}
}

func TestReplayFromGameOver(t *testing.T) {
	g, _ := newTestGame(t)
	g.score = 40
	g.lives = 1
	g.enemies = append(g.enemies, enemyAt(375, 519, 50, 30, 1, 10))
	g.Tick(t0)
	if g.State() != StateGameOver {
		t.Fatalf("state = %v", g.State())
	}

	g.StartSession(t0.Add(time.Minute))
	if g.State() != StatePlaying || g.Score() != 0 || g.Lives() != 3 {
		t.Errorf("replay state=%v score=%d lives=%d", g.State(), g.Score(), g.Lives())
	}
	if g.HighScore() != 40 {
		t.Errorf("high score = %d, want 40 kept across sessions", g.HighScore())
	}
}

func TestResetToMenu(t *testing.T) {
	g, log := newTestGame(t)
	g.score = 30
	g.explosions = append(g.explosions, object.NewExplosion(1, 1, 30))

	g.ResetToMenu()

	if g.State() != StateMenu {
		t.Fatalf("state = %v, want menu", g.State())
	}
	if len(g.explosions) != 0 {
		t.Error("explosions kept in menu")
	}
	if g.Score() != 30 {
		t.Errorf("score = %d, want it kept for display", g.Score())
	}
	if log.count(event.ReturnedToMenu) != 1 {
		t.Error("returned_to_menu not emitted")
	}
}

func TestPauseShiftsSpawnClock(t *testing.T) {
	g, log := newTestGame(t)

	g.SetPaused(true, t0.Add(1000*time.Millisecond))
	g.FireShot()
	g.Tick(t0.Add(5 * time.Second))
	if len(g.enemies) != 0 || len(g.bullets) != 0 {
		t.Fatal("paused session advanced")
	}

	g.SetPaused(false, t0.Add(11*time.Second))
	// 1000ms elapsed before the pause, so 1000ms remain.
	g.Tick(t0.Add(12 * time.Second))
	if len(g.enemies) != 0 {
		t.Error("spawned early after resume")
	}
	g.Tick(t0.Add(12*time.Second + time.Millisecond))
	if len(g.enemies) != 1 {
		t.Errorf("enemies = %d, want 1", len(g.enemies))
	}
	if log.count(event.SessionPaused) != 1 || log.count(event.SessionResumed) != 1 {
		t.Errorf("events = %+v", log.events)
	}
}

func TestInvariantsUnderRandomPlay(t *testing.T) {
	g, _ := newTestGame(t)
	r := rand.New(rand.NewSource(99))
	now := t0
	lastScore := 0

	for i := 0; i < 20000 && g.State() == StatePlaying; i++ {
		now = now.Add(16 * time.Millisecond)
		switch r.Intn(6) {
		case 0:
			g.FireShot()
		case 1:
			g.SetMovementKey(KeyLeft, r.Intn(2) == 0)
		case 2:
			g.SetMovementKey(KeyRight, r.Intn(2) == 0)
		}
		g.Tick(now)

		if s := g.Score(); s < lastScore {
			t.Fatalf("score dropped from %d to %d", lastScore, s)
		} else {
			lastScore = s
		}
		if l := g.Lives(); l < 0 || l > 3 {
			t.Fatalf("lives = %d", l)
		}
		if l := g.Lives(); l == 0 && g.State() != StateGameOver {
			t.Fatal("lives reached 0 without game over")
		}
		for _, e := range g.explosions {
			if e.Life <= 0 {
				t.Fatalf("dead explosion kept: %+v", e)
			}
		}
		if g.player.X < 0 || g.player.Right() > 800 {
			t.Fatalf("player out of bounds: %v", g.player.X)
		}
	}
	if g.State() == StateGameOver && g.HighScore() != lastScore {
		t.Errorf("high score = %d, want %d", g.HighScore(), lastScore)
	}
}
