// Package input decodes raw terminal bytes into game keys.
package input

import (
	"io"
	"time"
)

// keyHoldDuration is how long a movement key counts as held after its last
// press or auto-repeat.
const keyHoldDuration = 120 * time.Millisecond

// escapeTimeout is how long a trailing ESC or ESC [ waits for the rest of
// an arrow key sequence before it is read as a plain Escape.
const escapeTimeout = 50 * time.Millisecond

// Key is a decoded keypress.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyFire
	KeyEnter
	KeyEscape
	KeyMenu
	KeyPause
	KeyAudio
	KeyMusicDown
	KeyMusicUp
	KeySfxDown
	KeySfxUp
	KeyQuit
)

// Input represents one frame's input state.
type Input struct {
	Left    bool  // Movement keys currently held
	Right   bool  //
	Pressed []Key // Every key seen this frame, in order
	Closed  bool  // The underlying reader hit EOF or an error
}

// keyState tracks the last time each movement key was seen.
type keyState struct {
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks held movement keys.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool

	pending      []byte // Incomplete escape sequence carried to the next frame
	pendingSince time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				s.ch <- b
			}
			if err != nil {
				close(s.ch)
				return
			}
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking.
// Movement keys stay held while presses keep arriving within keyHoldDuration;
// pressing one direction releases the other.
func ReadInput(s *Stream, now time.Time) Input {
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	buf = s.holdPartialEscape(buf, now)

	pressed := Parse(buf)
	for _, k := range pressed {
		switch k {
		case KeyLeft:
			s.state.left = now
			s.state.right = time.Time{}
		case KeyRight:
			s.state.right = now
			s.state.left = time.Time{}
		}
	}

	return Input{
		Left:    now.Sub(s.state.left) < keyHoldDuration,
		Right:   now.Sub(s.state.right) < keyHoldDuration,
		Pressed: pressed,
		Closed:  s.closed,
	}
}

// holdPartialEscape keeps a trailing ESC or ESC [ back for the next frame,
// so an arrow key split across reads is not decoded as Escape and '['.
// After escapeTimeout with nothing following, the bytes are released.
func (s *Stream) holdPartialEscape(buf []byte, now time.Time) []byte {
	n := partialEscapeLen(buf)
	if n == 0 || s.closed {
		s.pendingSince = time.Time{}
		return buf
	}
	if s.pendingSince.IsZero() {
		s.pendingSince = now
	}
	if now.Sub(s.pendingSince) >= escapeTimeout {
		s.pendingSince = time.Time{}
		// A stale ESC [ is still one Escape press.
		return buf[:len(buf)-n+1]
	}
	s.pending = append([]byte(nil), buf[len(buf)-n:]...)
	return buf[:len(buf)-n]
}

// partialEscapeLen returns the length of an unfinished CSI prefix at the
// end of buf.
func partialEscapeLen(buf []byte) int {
	switch {
	case len(buf) >= 1 && buf[len(buf)-1] == '\x1b':
		return 1
	case len(buf) >= 2 && buf[len(buf)-2] == '\x1b' && buf[len(buf)-1] == '[':
		return 2
	}
	return 0
}

// ResetKeyInput forgets held keys so that a key held across a screen
// change does not carry over.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// Parse decodes a byte buffer into keys, handling arrow key escape sequences.
func Parse(buf []byte) []Key {
	var keys []Key
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				keys = append(keys, KeyRight)
				i += 2
				continue
			case 'D':
				keys = append(keys, KeyLeft)
				i += 2
				continue
			default:
				// Other CSI keys are not bound.
				i += 2
				continue
			}
		}

		if k := keyForByte(b); k != KeyNone {
			keys = append(keys, k)
		}
	}
	return keys
}

func keyForByte(b byte) Key {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		return KeyQuit
	case 'a', 'A', 'h', 'H':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case ' ':
		return KeyFire
	case '\n', '\r':
		return KeyEnter
	case '\x1b':
		return KeyEscape
	case 'm', 'M':
		return KeyMenu
	case 'p', 'P':
		return KeyPause
	case 'u', 'U':
		return KeyAudio
	case '-', '_':
		return KeyMusicDown
	case '=', '+':
		return KeyMusicUp
	case '[':
		return KeySfxDown
	case ']':
		return KeySfxUp
	}
	return KeyNone
}
