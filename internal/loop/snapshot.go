package loop

import (
	"slices"
	"time"

	"github.com/tomz197/space-defender/internal/object"
)

// Snapshot is an immutable copy of everything a renderer needs.
type Snapshot struct {
	State      State
	Paused     bool
	Field      object.Playfield
	Player     object.Player
	Enemies    []object.Enemy
	Bullets    []object.Bullet
	Explosions []object.Explosion
	Score      int
	Lives      int
	HighScore  int
	Difficulty float64
	Time       time.Time // Timestamp of the last tick or transition

	MusicVolume  float64
	SfxVolume    float64
	AudioEnabled bool
}

// NewHighScore reports whether a finished session set the high score.
func (s Snapshot) NewHighScore() bool {
	return s.State == StateGameOver && s.Score > 0 && s.Score == s.HighScore
}

func (g *Game) snapshotLocked() *Snapshot {
	return &Snapshot{
		State:        g.state,
		Paused:       g.paused,
		Field:        g.field,
		Player:       g.player,
		Enemies:      slices.Clone(g.enemies),
		Bullets:      slices.Clone(g.bullets),
		Explosions:   slices.Clone(g.explosions),
		Score:        g.score,
		Lives:        g.lives,
		HighScore:    g.highScore,
		Difficulty:   g.difficulty,
		Time:         g.clock,
		MusicVolume:  g.musicVolume,
		SfxVolume:    g.sfxVolume,
		AudioEnabled: g.audioEnabled,
	}
}
