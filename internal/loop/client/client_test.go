package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/space-defender/internal/input"
	"github.com/tomz197/space-defender/internal/loop"
)

var t0 = time.Unix(1_700_000_000, 0)

func fixedSize() (int, int, error) { return 80, 30, nil }

func newTestClient(t *testing.T, r io.Reader) (*Client, *loop.Game, *bytes.Buffer) {
	t.Helper()
	game := loop.NewGame(loop.Options{Rand: rand.New(rand.NewSource(1)), MusicVolume: 0.3, SfxVolume: 0.5})
	var out bytes.Buffer
	c := New(game, r, &out, Options{TermSizeFunc: fixedSize, FPS: 1000})
	return c, game, &out
}

func press(keys ...input.Key) input.Input {
	return input.Input{Pressed: keys}
}

func TestFireStartsThenShoots(t *testing.T) {
	pr, _ := io.Pipe()
	c, game, _ := newTestClient(t, pr)

	c.processInput(press(input.KeyFire), t0)
	if game.State() != loop.StatePlaying {
		t.Fatalf("state = %v, want playing", game.State())
	}

	c.processInput(press(input.KeyFire), t0)
	game.Tick(t0)
	if n := len(game.Snapshot().Bullets); n != 1 {
		t.Errorf("bullets = %d, want 1", n)
	}
}

func TestMenuAndPauseKeys(t *testing.T) {
	pr, _ := io.Pipe()
	c, game, _ := newTestClient(t, pr)

	c.processInput(press(input.KeyEnter), t0)
	c.processInput(press(input.KeyPause), t0)
	if !game.Paused() {
		t.Error("P did not pause")
	}
	c.processInput(press(input.KeyPause), t0.Add(time.Second))
	if game.Paused() {
		t.Error("P did not resume")
	}

	c.processInput(press(input.KeyEscape), t0)
	if game.State() != loop.StateMenu {
		t.Errorf("state = %v, want menu", game.State())
	}
}

func TestVolumeKeys(t *testing.T) {
	pr, _ := io.Pipe()
	c, game, _ := newTestClient(t, pr)

	c.processInput(press(input.KeyMusicUp, input.KeySfxDown, input.KeyAudio), t0)
	s := game.Snapshot()
	if s.MusicVolume < 0.39 || s.MusicVolume > 0.41 {
		t.Errorf("music volume = %v, want 0.4", s.MusicVolume)
	}
	if s.SfxVolume < 0.39 || s.SfxVolume > 0.41 {
		t.Errorf("sfx volume = %v, want 0.4", s.SfxVolume)
	}
	if s.AudioEnabled {
		t.Error("U did not mute")
	}
}

func TestHeldKeysMoveThePlayer(t *testing.T) {
	pr, _ := io.Pipe()
	c, game, _ := newTestClient(t, pr)
	c.processInput(press(input.KeyEnter), t0)

	c.processInput(input.Input{Left: true}, t0)
	game.Tick(t0)
	game.Tick(t0)
	if x := game.Snapshot().Player.X; x != 365 {
		t.Errorf("x = %v after two held ticks, want 365", x)
	}

	c.processInput(input.Input{}, t0)
	game.Tick(t0)
	if x := game.Snapshot().Player.X; x != 365 {
		t.Errorf("x = %v after release, want 365", x)
	}
}

func TestInactivityDisconnect(t *testing.T) {
	pr, _ := io.Pipe()
	c, _, _ := newTestClient(t, pr)
	c.inactivity = true
	c.lastInput = t0

	c.processInput(input.Input{}, t0.Add(91*time.Second))
	if !c.isInactive || !c.running {
		t.Fatalf("inactive=%v running=%v after 91s", c.isInactive, c.running)
	}
	c.processInput(press(input.KeyLeft), t0.Add(92*time.Second))
	if c.isInactive {
		t.Error("key press did not clear the warning")
	}
	c.processInput(input.Input{}, t0.Add(213*time.Second))
	if c.running {
		t.Error("still running after 120s idle")
	}
}

func TestRunQuits(t *testing.T) {
	pr, pw := io.Pipe()
	c, _, out := newTestClient(t, pr)
	go pw.Write([]byte("q"))

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if !strings.Contains(out.String(), "SPACE DEFENDER") {
		t.Error("menu never drawn")
	}
}

func TestRunInputClosed(t *testing.T) {
	c, _, _ := newTestClient(t, strings.NewReader(""))

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, ErrInputClosed) {
			t.Errorf("Run = %v, want ErrInputClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after EOF")
	}
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{80, 24, 80, 24, 0, 0},
		{300, 100, 200, 75, 50, 12},
		{0, 0, 1, 1, 0, 0},
	}
	for _, tt := range tests {
		rw, rh, oc, or := clampTermSize(tt.w, tt.h)
		if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
			t.Errorf("clampTermSize(%d, %d) = %d, %d, %d, %d; want %d, %d, %d, %d",
				tt.w, tt.h, rw, rh, oc, or, tt.rw, tt.rh, tt.offCol, tt.offRow)
		}
	}
}

func TestSplitArrowKeyKeepsSession(t *testing.T) {
	pr, pw := io.Pipe()
	c, game, _ := newTestClient(t, pr)
	defer pw.Close()

	c.processInput(press(input.KeyEnter), t0)
	sfx := game.Snapshot().SfxVolume

	go pw.Write([]byte{0x1b})
	for i := 0; i < 20; i++ {
		c.processInput(input.ReadInput(c.inputStream, t0), t0)
		time.Sleep(time.Millisecond)
	}
	if game.State() != loop.StatePlaying {
		t.Fatalf("state = %v after a bare ESC byte, want playing", game.State())
	}

	go pw.Write([]byte("[D"))
	var pressed []input.Key
	deadline := time.Now().Add(2 * time.Second)
	for len(pressed) == 0 && time.Now().Before(deadline) {
		in := input.ReadInput(c.inputStream, t0)
		pressed = in.Pressed
		c.processInput(in, t0)
		time.Sleep(time.Millisecond)
	}

	if len(pressed) != 1 || pressed[0] != input.KeyLeft {
		t.Fatalf("pressed = %v, want [KeyLeft]", pressed)
	}
	if game.State() != loop.StatePlaying {
		t.Errorf("state = %v, want playing", game.State())
	}
	if got := game.Snapshot().SfxVolume; got != sfx {
		t.Errorf("sfx volume = %v, want %v", got, sfx)
	}
}
