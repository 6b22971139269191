// Package desktop runs a Game in a native window through ebiten, with real
// key press and release events.
package desktop

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/space-defender/internal/loop"
	"github.com/tomz197/space-defender/internal/loop/config"
)

// Window defaults.
const (
	WindowTitle = "Space Defender"
	WindowScale = 1
)

// movementKeys maps each game key to the physical keys that drive it.
var movementKeys = [...]struct {
	key  loop.Key
	keys []ebiten.Key
}{
	{loop.KeyLeft, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{loop.KeyRight, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
}

// App adapts a Game to ebiten.Game. Update ticks the simulation at the
// host's cadence; Draw paints the latest rendered snapshot.
type App struct {
	game    *loop.Game
	surface *Surface
	held    [2]bool
	now     func() time.Time

	mu     sync.Mutex
	latest loop.Snapshot
}

// NewApp creates an app for game and registers it as the game's renderer.
func NewApp(game *loop.Game) *App {
	a := &App{
		game:   game,
		now:    time.Now,
		latest: game.Snapshot(),
	}
	game.SetRenderer(a)
	return a
}

// Render stores s for the next Draw. It implements loop.Renderer.
func (a *App) Render(s loop.Snapshot) {
	a.mu.Lock()
	a.latest = s
	a.mu.Unlock()
}

// Update handles input and advances the game by one tick.
func (a *App) Update() error {
	now := a.now()

	for _, m := range movementKeys {
		held := false
		for _, k := range m.keys {
			if ebiten.IsKeyPressed(k) {
				held = true
				break
			}
		}
		if a.held[m.key] != held {
			a.held[m.key] = held
			a.game.SetMovementKey(m.key, held)
		}
	}

	if quit := a.handleActions(now, inpututil.IsKeyJustPressed); quit {
		return ebiten.Termination
	}

	a.game.Tick(now)
	return nil
}

// handleActions applies one-shot keys. It reports whether the player quit.
func (a *App) handleActions(now time.Time, pressed func(ebiten.Key) bool) bool {
	state := a.game.State()
	snap := a.game.Snapshot()

	switch {
	case pressed(ebiten.KeyQ):
		return true
	case pressed(ebiten.KeySpace):
		if state == loop.StatePlaying {
			a.game.FireShot()
		} else {
			a.game.StartSession(now)
		}
	case pressed(ebiten.KeyEnter):
		if state != loop.StatePlaying {
			a.game.StartSession(now)
		}
	case pressed(ebiten.KeyEscape), pressed(ebiten.KeyM):
		a.game.ResetToMenu()
	case pressed(ebiten.KeyP):
		a.game.SetPaused(!snap.Paused, now)
	case pressed(ebiten.KeyU):
		a.game.ToggleAudio(!snap.AudioEnabled)
	case pressed(ebiten.KeyMinus):
		a.game.SetMusicVolume(snap.MusicVolume - config.VolumeStep)
	case pressed(ebiten.KeyEqual):
		a.game.SetMusicVolume(snap.MusicVolume + config.VolumeStep)
	case pressed(ebiten.KeyBracketLeft):
		a.game.SetSfxVolume(snap.SfxVolume - config.VolumeStep)
	case pressed(ebiten.KeyBracketRight):
		a.game.SetSfxVolume(snap.SfxVolume + config.VolumeStep)
	}
	return false
}

// Draw paints the latest snapshot.
func (a *App) Draw(screen *ebiten.Image) {
	a.mu.Lock()
	snap := a.latest
	a.mu.Unlock()

	// Screens that do not tick still animate the background.
	if snap.State != loop.StatePlaying || snap.Paused {
		snap.Time = a.now()
	}

	if a.surface == nil {
		a.surface = NewSurface(screen)
	}
	a.surface.dst = screen
	loop.DrawScene(a.surface, snap)
}

// Layout keeps the logical playfield size regardless of window size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ViewWidth, config.ViewHeight
}

// Run opens the window and blocks until it is closed.
func Run(a *App) error {
	ebiten.SetWindowSize(config.ViewWidth*WindowScale, config.ViewHeight*WindowScale)
	ebiten.SetWindowTitle(WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(a)
	if err == ebiten.Termination {
		return nil
	}
	return err
}
