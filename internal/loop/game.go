// Package loop implements the session state machine and the per-tick
// simulation of the game.
package loop

import (
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	appconfig "github.com/tomz197/space-defender/internal/config"
	"github.com/tomz197/space-defender/internal/event"
	"github.com/tomz197/space-defender/internal/loop/config"
	"github.com/tomz197/space-defender/internal/object"
)

// Renderer draws a snapshot. It is called after every simulation step and
// once when the session enters a state that does not tick.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

// Render calls f(s).
func (f RendererFunc) Render(s Snapshot) {
	f(s)
}

// Audio is the control side of the sound system. Sounds themselves are
// triggered through events.
type Audio interface {
	event.Listener
	SetMusicVolume(v float64)
	SetSfxVolume(v float64)
	SetEnabled(enabled bool)
}

// Options configures a Game. Zero values select defaults.
type Options struct {
	Rand        *rand.Rand // Gameplay randomness; time seeded when nil
	Field       object.Playfield
	Renderer    Renderer
	Audio       Audio
	Listeners   []event.Listener
	Logger      *log.Logger
	MusicVolume float64
	SfxVolume   float64
	AudioOff    bool
}

// Game owns all session state. Input handlers only queue intents; the
// entity collections are mutated exclusively inside Tick.
type Game struct {
	mu      sync.Mutex
	intents []intent

	state      State
	paused     bool
	pausedAt   time.Time
	field      object.Playfield
	player     object.Player
	enemies    []object.Enemy
	bullets    []object.Bullet
	explosions []object.Explosion
	held       [numKeys]bool
	score      int
	lives      int
	highScore  int
	difficulty float64
	lastSpawn  time.Time
	clock      time.Time

	musicVolume  float64
	sfxVolume    float64
	audioEnabled bool

	spawner  *object.Spawner
	cosmetic *rand.Rand // Engine hum rolls; never touches game state
	pending  []event.Event

	renderer  Renderer
	audio     Audio
	listeners event.Bus
	logger    *log.Logger

	snapshot atomic.Pointer[Snapshot]
}

// NewGame creates a game sitting in the menu.
func NewGame(opts Options) *Game {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	field := opts.Field
	if field.Width <= 0 || field.Height <= 0 {
		field = object.DefaultPlayfield
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := &Game{
		state:        StateMenu,
		field:        field,
		player:       object.NewPlayer(),
		lives:        config.InitialLives,
		difficulty:   config.DifficultyBase,
		musicVolume:  opts.MusicVolume,
		sfxVolume:    opts.SfxVolume,
		audioEnabled: !opts.AudioOff,
		spawner:      object.NewSpawner(rng, field),
		cosmetic:     rand.New(rand.NewSource(rng.Int63())),
		renderer:     opts.Renderer,
		audio:        opts.Audio,
		logger:       logger,
	}
	if opts.Audio != nil {
		g.listeners = append(g.listeners, opts.Audio)
		opts.Audio.SetMusicVolume(opts.MusicVolume)
		opts.Audio.SetSfxVolume(opts.SfxVolume)
		opts.Audio.SetEnabled(g.audioEnabled)
	}
	g.listeners = append(g.listeners, opts.Listeners...)
	g.publish()
	return g
}

// SetRenderer replaces the renderer called after each step.
func (g *Game) SetRenderer(r Renderer) {
	g.mu.Lock()
	g.renderer = r
	g.mu.Unlock()
}

// StartSession resets the session and starts playing. Valid from the menu
// and from game over; ignored while already playing.
func (g *Game) StartSession(now time.Time) {
	g.mu.Lock()
	if g.state == StatePlaying {
		g.mu.Unlock()
		return
	}
	g.reset(now)
	g.state = StatePlaying
	g.emit(event.Event{Kind: event.SessionStarted})
	g.logger.Debug("session started", "high_score", g.highScore)
	g.finish()
}

// reset restores all per-session state.
func (g *Game) reset(now time.Time) {
	g.score = 0
	g.lives = config.InitialLives
	g.player = object.NewPlayer()
	g.enemies = g.enemies[:0]
	g.bullets = g.bullets[:0]
	g.explosions = g.explosions[:0]
	g.difficulty = config.DifficultyBase
	g.lastSpawn = now
	g.clock = now
	g.paused = false
	g.held = [numKeys]bool{}
	g.intents = g.intents[:0]
}

// ResetToMenu stops the session and returns to the title screen. Score and
// lives are kept for display; cosmetic entities are cleared.
func (g *Game) ResetToMenu() {
	g.mu.Lock()
	if g.state == StateMenu {
		g.mu.Unlock()
		return
	}
	g.state = StateMenu
	g.paused = false
	g.explosions = g.explosions[:0]
	g.emit(event.Event{Kind: event.ReturnedToMenu, Score: g.score})
	g.logger.Debug("returned to menu", "score", g.score)
	g.finish()
}

// SetPaused pauses or resumes a running session. Spawn timing resumes where
// it left off.
func (g *Game) SetPaused(paused bool, now time.Time) {
	g.mu.Lock()
	if g.state != StatePlaying || g.paused == paused {
		g.mu.Unlock()
		return
	}
	g.paused = paused
	if paused {
		g.pausedAt = now
		g.emit(event.Event{Kind: event.SessionPaused, Score: g.score})
	} else {
		g.lastSpawn = g.lastSpawn.Add(now.Sub(g.pausedAt))
		g.emit(event.Event{Kind: event.SessionResumed, Score: g.score})
	}
	g.logger.Debug("pause toggled", "paused", paused)
	g.finish()
}

// SetMovementKey records a key transition for the next tick.
func (g *Game) SetMovementKey(key Key, pressed bool) {
	if key < 0 || key >= numKeys {
		return
	}
	g.mu.Lock()
	g.intents = append(g.intents, intent{key: key, pressed: pressed})
	g.mu.Unlock()
}

// FireShot requests a bullet on the next tick. Ignored unless playing.
func (g *Game) FireShot() {
	g.mu.Lock()
	if g.state == StatePlaying && !g.paused {
		g.intents = append(g.intents, intent{fire: true})
	}
	g.mu.Unlock()
}

// SetMusicVolume sets the music volume in [0, 1].
func (g *Game) SetMusicVolume(v float64) {
	v = appconfig.ClampUnit(v)
	g.mu.Lock()
	g.musicVolume = v
	g.mu.Unlock()
	if g.audio != nil {
		g.audio.SetMusicVolume(v)
	}
	g.republish()
}

// SetSfxVolume sets the sound effect volume in [0, 1].
func (g *Game) SetSfxVolume(v float64) {
	v = appconfig.ClampUnit(v)
	g.mu.Lock()
	g.sfxVolume = v
	g.mu.Unlock()
	if g.audio != nil {
		g.audio.SetSfxVolume(v)
	}
	g.republish()
}

// ToggleAudio enables or mutes all sound.
func (g *Game) ToggleAudio(enabled bool) {
	g.mu.Lock()
	g.audioEnabled = enabled
	g.mu.Unlock()
	if g.audio != nil {
		g.audio.SetEnabled(enabled)
	}
	g.republish()
}

// Tick applies queued intents and, while playing, advances the simulation
// by one step and renders the result.
func (g *Game) Tick(now time.Time) {
	g.mu.Lock()
	g.drainIntents()
	if g.state != StatePlaying || g.paused {
		g.mu.Unlock()
		return
	}
	g.clock = now
	g.step(now)
	g.finish()
}

// drainIntents applies queued intents in arrival order.
func (g *Game) drainIntents() {
	playing := g.state == StatePlaying && !g.paused
	for _, in := range g.intents {
		if in.fire {
			if playing {
				g.fire()
			}
			continue
		}
		g.held[in.key] = in.pressed
	}
	g.intents = g.intents[:0]
}

// fire launches a bullet from the player's nose.
func (g *Game) fire() {
	g.bullets = append(g.bullets, object.NewBullet(g.player))
	g.emit(event.Event{Kind: event.ShotFired, X: g.player.X + g.player.W/2, Y: g.player.Y, Score: g.score})
}

// emit queues an event for delivery once the state lock is released.
func (g *Game) emit(e event.Event) {
	g.pending = append(g.pending, e)
}

// finish publishes a snapshot, releases the lock, then delivers pending
// events and renders. Must be called with g.mu held.
func (g *Game) finish() {
	snap := g.snapshotLocked()
	g.snapshot.Store(snap)
	events := g.pending
	g.pending = nil
	renderer := g.renderer
	g.mu.Unlock()

	for _, e := range events {
		g.listeners.OnEvent(e)
	}
	if renderer != nil {
		renderer.Render(*snap)
	}
}

// publish stores a fresh snapshot. Must be called with g.mu held.
func (g *Game) publish() {
	g.snapshot.Store(g.snapshotLocked())
}

// republish publishes and renders a fresh snapshot for callers not
// holding g.mu, so settings show up even when the game is not ticking.
func (g *Game) republish() {
	g.mu.Lock()
	g.finish()
}

// Score returns the current session score.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// Lives returns the remaining lives.
func (g *Game) Lives() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lives
}

// HighScore returns the best score of any finished session.
func (g *Game) HighScore() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.highScore
}

// State returns the session phase.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Paused reports whether a running session is paused.
func (g *Game) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Difficulty returns the current enemy speed multiplier.
func (g *Game) Difficulty() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.difficulty
}

// Snapshot returns the most recently published state. Safe to call from
// any goroutine.
func (g *Game) Snapshot() Snapshot {
	return *g.snapshot.Load()
}
