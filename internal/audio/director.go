package audio

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/tomz197/space-defender/internal/config"
	"github.com/tomz197/space-defender/internal/event"
)

// Options configures a Director. Zero values select defaults.
type Options struct {
	Scheduler Scheduler
	Logger    *log.Logger
	Rand      *rand.Rand // Engine pitch jitter
}

// Director reacts to game events with sound. It owns one mixer on the
// output device carrying the music bus and every sound effect.
//
// A Director created without an output is silent: every call is a no-op.
type Director struct {
	mu     sync.Mutex
	out    Output
	sched  Scheduler
	logger *log.Logger
	rng    *rand.Rand

	rate   beep.SampleRate
	mixer  *beep.Mixer
	music  *musicBus
	master *effects.Volume

	musicVolume float64
	sfxVolume   float64
	enabled     bool
	session     bool // A session is running and wants music
	musicOn     bool // Music has been started and not stopped

	pending    Timer
	pendingGen uint64
	closed     bool
}

// NewDirector creates a director playing through out. A nil out yields a
// silent director.
func NewDirector(out Output, opts Options) *Director {
	d := &Director{
		out:     out,
		sched:   opts.Scheduler,
		logger:  opts.Logger,
		rng:     opts.Rand,
		enabled: true,
	}
	if d.sched == nil {
		d.sched = wallScheduler{}
	}
	if d.logger == nil {
		d.logger = log.New(io.Discard)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if out == nil {
		return d
	}

	d.rate = out.SampleRate()
	d.music = newMusicBus(d.rate)
	d.mixer = &beep.Mixer{}
	d.mixer.Add(d.music)
	d.master = &effects.Volume{Streamer: d.mixer, Base: 2}
	out.Play(d.master)
	return d
}

// Silent reports whether the director has no output device.
func (d *Director) Silent() bool {
	return d.out == nil
}

// OnEvent plays the sound for e.
func (d *Director) OnEvent(e event.Event) {
	switch e.Kind {
	case event.ShotFired:
		d.playEffect(func(vol float64) (beep.Streamer, error) {
			return shootSound(d.rate, vol), nil
		})
	case event.EnemyDestroyed, event.PlayerHit:
		d.playEffect(func(vol float64) (beep.Streamer, error) {
			return explosionSound(d.rate, vol), nil
		})
	case event.EngineHum:
		d.playEffect(func(vol float64) (beep.Streamer, error) {
			return engineSound(d.rate, vol, d.rng.Float64())
		})
	case event.SessionStarted, event.SessionResumed:
		d.setSession(true)
	case event.SessionPaused, event.GameOver, event.ReturnedToMenu:
		d.setSession(false)
	}
}

// playEffect mixes a fire-and-forget effect built at the current volume.
func (d *Director) playEffect(build func(vol float64) (beep.Streamer, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.out == nil || d.closed || !d.enabled {
		return
	}
	s, err := build(d.sfxVolume)
	if err != nil {
		d.logger.Warn("sound effect failed", "err", err)
		return
	}
	d.out.Lock()
	d.mixer.Add(s)
	d.out.Unlock()
}

func (d *Director) setSession(active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session = active
	if active {
		d.startMusic()
	} else {
		d.stopMusic()
	}
}

// startMusic fades the background music in. The first chord follows after
// a short delay.
func (d *Director) startMusic() {
	if d.out == nil || d.closed || !d.enabled {
		return
	}
	d.cancelPending()
	d.musicOn = true

	target := d.musicVolume * musicMasterGain
	d.out.Lock()
	d.music.fadeTo(target, musicFadeIn)
	d.out.Unlock()

	d.schedule(musicStartDelay, func() {
		d.out.Lock()
		d.music.startProgression(d.musicVolume)
		d.out.Unlock()
	})
	d.logger.Debug("music started", "target", target)
}

// stopMusic fades the music out and silences it once the fade completes.
func (d *Director) stopMusic() {
	if d.out == nil || d.closed || !d.musicOn {
		return
	}
	d.cancelPending()
	d.musicOn = false

	d.out.Lock()
	d.music.fadeTo(0, musicFadeOut)
	d.out.Unlock()

	d.schedule(musicFadeOut, func() {
		d.out.Lock()
		d.music.stop()
		d.out.Unlock()
	})
	d.logger.Debug("music stopping")
}

// schedule replaces the pending action with f. f runs with d.mu held and
// is dropped if superseded before it acquires the lock.
func (d *Director) schedule(after time.Duration, f func()) {
	d.pendingGen++
	gen := d.pendingGen
	d.pending = d.sched.AfterFunc(after, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed || gen != d.pendingGen {
			return
		}
		d.pending = nil
		f()
	})
}

func (d *Director) cancelPending() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.pendingGen++
}

// SetMusicVolume sets the music volume in [0, 1]. Playing music fades to
// the new level without restarting.
func (d *Director) SetMusicVolume(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.musicVolume = config.ClampUnit(v)
	if d.out == nil || d.closed {
		return
	}
	d.out.Lock()
	d.music.setVolume(d.musicVolume)
	if d.musicOn {
		d.music.fadeTo(d.musicVolume*musicMasterGain, musicFadeVolume)
	}
	d.out.Unlock()
}

// SetSfxVolume sets the effects volume in [0, 1] for effects started later.
func (d *Director) SetSfxVolume(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sfxVolume = config.ClampUnit(v)
}

// SetEnabled mutes or unmutes all audio. Unmuting during a session
// restarts the music.
func (d *Director) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.enabled == enabled {
		return
	}
	if !enabled {
		d.stopMusic()
	}
	d.enabled = enabled
	if d.out != nil && !d.closed {
		d.out.Lock()
		d.master.Silent = !enabled
		d.out.Unlock()
	}
	if enabled && d.session {
		d.startMusic()
	}
}

// Close cancels pending work, silences every voice and releases the device.
func (d *Director) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.cancelPending()
	d.closed = true
	d.musicOn = false
	if d.out == nil {
		return
	}
	d.out.Lock()
	d.music.stop()
	d.mixer.Clear()
	d.out.Unlock()
	d.out.Close()
}
