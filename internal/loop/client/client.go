// Package client drives a Game from a terminal: it reads keys, ticks the
// simulation at a fixed cadence and paints frames with half-block graphics.
package client

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/space-defender/internal/draw"
	"github.com/tomz197/space-defender/internal/input"
	"github.com/tomz197/space-defender/internal/loop"
	"github.com/tomz197/space-defender/internal/loop/config"
)

// ErrInputClosed is returned by Run when the input stream ends.
var ErrInputClosed = errors.New("client: input closed")

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	FPS          int
	// Inactivity enables the idle warning and disconnect, used for
	// remote sessions.
	Inactivity bool
	Logger     *log.Logger
	Now        func() time.Time
}

// Client handles rendering and input for a single terminal.
type Client struct {
	game         *loop.Game
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	frameTime    time.Duration
	inactivity   bool
	logger       *log.Logger
	now          func() time.Time

	held        [2]bool // Movement keys last reported to the game
	lastInput   time.Time
	isInactive  bool
	wasInactive bool
	running     bool

	mu     sync.Mutex
	latest loop.Snapshot
	dirty  bool
}

// New creates a client for game reading keys from r and drawing to w.
// The client registers itself as the game's renderer.
func New(game *loop.Game, r io.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = config.ClientTargetFPS
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		game:         game,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		frameTime:    time.Second / time.Duration(fps),
		inactivity:   opts.Inactivity,
		logger:       logger,
		now:          now,
		lastInput:    now(),
		running:      true,
		latest:       game.Snapshot(),
		dirty:        true,
	}
	game.SetRenderer(c)
	return c
}

// Render stores s for the next frame. It implements loop.Renderer.
func (c *Client) Render(s loop.Snapshot) {
	c.mu.Lock()
	c.latest = s
	c.dirty = true
	c.mu.Unlock()
}

// Run starts the frame loop. Blocks until the player quits, the input
// closes, the session idles out or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.EnterScreen(c.writer)
	defer draw.LeaveScreen(c.writer)

	ticker := time.NewTicker(c.frameTime)
	defer ticker.Stop()

	var err error
	for c.running {
		now := c.now()

		// Process input
		if in := input.ReadInput(c.inputStream, now); in.Closed && len(in.Pressed) == 0 {
			err = ErrInputClosed
			c.running = false
		} else {
			c.processInput(in, now)
		}

		c.game.Tick(now)

		// Handle screen resize
		c.updateScreen()

		if ferr := c.drawFrame(now); ferr != nil {
			err = ferr
			break
		}

		select {
		case <-ctx.Done():
			c.running = false
		case <-ticker.C:
		}
	}

	return err
}

// processInput translates keys into control-surface calls.
func (c *Client) processInput(in input.Input, now time.Time) {
	if len(in.Pressed) > 0 {
		c.lastInput = now
		c.isInactive = false
	} else if c.inactivity {
		idle := now.Sub(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.logger.Info("disconnecting idle session", "idle", idle)
			c.running = false
			return
		} else if idle > config.InactivityWarnUser {
			c.isInactive = true
		}
	}

	c.syncMovement(loop.KeyLeft, in.Left)
	c.syncMovement(loop.KeyRight, in.Right)

	state := c.game.State()
	for _, k := range in.Pressed {
		switch k {
		case input.KeyQuit:
			c.running = false
			return
		case input.KeyFire:
			if state == loop.StatePlaying {
				c.game.FireShot()
			} else {
				c.start(now)
			}
		case input.KeyEnter:
			if state != loop.StatePlaying {
				c.start(now)
			}
		case input.KeyEscape, input.KeyMenu:
			if state != loop.StateMenu {
				c.game.ResetToMenu()
			}
		case input.KeyPause:
			c.game.SetPaused(!c.game.Paused(), now)
		case input.KeyAudio:
			c.game.ToggleAudio(!c.game.Snapshot().AudioEnabled)
		case input.KeyMusicDown:
			c.game.SetMusicVolume(c.game.Snapshot().MusicVolume - config.VolumeStep)
		case input.KeyMusicUp:
			c.game.SetMusicVolume(c.game.Snapshot().MusicVolume + config.VolumeStep)
		case input.KeySfxDown:
			c.game.SetSfxVolume(c.game.Snapshot().SfxVolume - config.VolumeStep)
		case input.KeySfxUp:
			c.game.SetSfxVolume(c.game.Snapshot().SfxVolume + config.VolumeStep)
		}
		state = c.game.State()
	}
}

// syncMovement reports held-state transitions for a movement key.
func (c *Client) syncMovement(k loop.Key, held bool) {
	if c.held[k] == held {
		return
	}
	c.held[k] = held
	c.game.SetMovementKey(k, held)
}

// start begins a new session with no keys carried over.
func (c *Client) start(now time.Time) {
	input.ResetKeyInput(c.inputStream)
	for k := range c.held {
		c.syncMovement(loop.Key(k), false)
	}
	c.game.StartSession(now)
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.ClearScreen()
		c.canvas.Resize(renderWidth, renderHeight)
		c.canvas.SetOffset(offsetCol, offsetRow)
		c.canvas.ForceRedraw()
		c.markDirty()
		c.logger.Debug("terminal resized", "cols", termWidth, "rows", termHeight, "render_cols", renderWidth, "render_rows", renderHeight)
	}
}

func (c *Client) markDirty() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	if renderWidth < 1 {
		renderWidth = 1
	}
	if renderHeight < 1 {
		renderHeight = 1
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	if offsetCol < 0 {
		offsetCol = 0
	}
	if offsetRow < 0 {
		offsetRow = 0
	}
	return
}
