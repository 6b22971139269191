package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/space-defender/internal/physics"
)

// Spawn cadence tuning.
const (
	SpawnDelayStart    = 2000 * time.Millisecond
	SpawnDelayMin      = 500 * time.Millisecond
	SpawnDelayPerPoint = 2 * time.Millisecond
)

// Spawner creates enemies with randomized archetype, position and speed.
type Spawner struct {
	rng   *rand.Rand
	field Playfield
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(rng *rand.Rand, field Playfield) *Spawner {
	return &Spawner{rng: rng, field: field}
}

// Delay returns the minimum gap between spawns at the given score.
func Delay(score int) time.Duration {
	d := SpawnDelayStart - time.Duration(score)*SpawnDelayPerPoint
	if d < SpawnDelayMin {
		return SpawnDelayMin
	}
	return d
}

// Due reports whether more than Delay(score) has passed since last.
func Due(now, last time.Time, score int) bool {
	return now.Sub(last) > Delay(score)
}

// Spawn creates one enemy just above the playfield. Its speed is the
// archetype's jittered speed scaled by difficulty and never changes afterwards.
func (s *Spawner) Spawn(difficulty float64) Enemy {
	a := Archetypes[s.rng.Intn(len(Archetypes))]
	return s.SpawnKind(a.Kind, difficulty)
}

// SpawnKind is Spawn with a fixed archetype.
func (s *Spawner) SpawnKind(kind EnemyKind, difficulty float64) Enemy {
	a := ArchetypeOf(kind)
	speed := a.MinSpeed + s.rng.Float64()*(a.MaxSpeed-a.MinSpeed)
	return Enemy{
		Rect: physics.Rect{
			X: s.rng.Float64() * (s.field.Width - a.Width),
			Y: -a.Height,
			W: a.Width,
			H: a.Height,
		},
		Kind:   a.Kind,
		Speed:  speed * difficulty,
		Color:  a.Color,
		Points: a.Points,
	}
}
