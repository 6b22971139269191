package client

import (
	"fmt"
	"time"

	"github.com/tomz197/space-defender/internal/draw"
	"github.com/tomz197/space-defender/internal/loop"
	"github.com/tomz197/space-defender/internal/loop/config"
)

var (
	colorWarn = draw.RGB(0xff, 0xcc, 0x00)
	colorText = draw.RGB(0xff, 0xff, 0xff)
	colorBand = draw.WithAlpha(draw.RGB(0, 0, 0), 0.8)
)

// drawFrame repaints the canvas when the game produced a new snapshot or
// the screen changed, then flushes pending output.
func (c *Client) drawFrame(now time.Time) error {
	// On inactivity transitions, redraw so the warning appears or clears.
	if c.isInactive != c.wasInactive {
		c.wasInactive = c.isInactive
		c.markDirty()
	}

	c.mu.Lock()
	snap, dirty := c.latest, c.dirty
	c.dirty = false
	c.mu.Unlock()

	// The warning countdown changes every second.
	if c.isInactive {
		dirty = true
	}

	if dirty {
		loop.DrawScene(c.canvas, snap)
		if c.isInactive {
			c.drawInactivity(now)
		}
		if err := c.canvas.Render(c.chunkWriter); err != nil {
			return err
		}
	}
	return c.chunkWriter.Flush()
}

// drawInactivity draws the inactivity warning over the scene.
func (c *Client) drawInactivity(now time.Time) {
	cx := float64(config.ViewWidth) / 2
	cy := float64(config.ViewHeight) / 2
	c.canvas.FillRect(0, cy-70, config.ViewWidth, 140, colorBand)

	draw.TextCentered(c.canvas, cx, cy-50, "INACTIVITY WARNING", colorWarn)
	left := int(config.InactivityDisconnectUser - now.Sub(c.lastInput).Seconds())
	if left < 0 {
		left = 0
	}
	msg := fmt.Sprintf("You will be disconnected in %d seconds.", left)
	draw.TextCentered(c.canvas, cx, cy-10, msg, colorText)
	draw.TextCentered(c.canvas, cx, cy+30, "Press any key to continue", colorText)
}
