package draw

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"golang.org/x/term"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Escape sequences used around a game session.
const (
	seqReset       = "\033[0m"
	seqClear       = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqEnterAltBuf = "\033[?1049h"
	seqLeaveAltBuf = "\033[?1049l"
)

// ChunkWriter collects one frame of terminal output and sends it to the
// underlying writer in MTU sized chunks on Flush. It implements io.Writer
// so Canvas.Render can target it.
type ChunkWriter struct {
	frame   bytes.Buffer
	out     *bufio.Writer
	flushed int // Bytes sent by the last Flush
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{out: bufio.NewWriterSize(w, 8192)}
}

var _ io.Writer = (*ChunkWriter)(nil)

// Write appends p to the pending frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.frame.Write(p)
}

// WriteString appends s to the pending frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame.WriteString(s)
}

// Pending reports how many bytes are waiting for Flush.
func (cw *ChunkWriter) Pending() int { return cw.frame.Len() }

// Flushed reports how many bytes the last Flush sent.
func (cw *ChunkWriter) Flushed() int { return cw.flushed }

// Flush sends the pending frame and empties it.
func (cw *ChunkWriter) Flush() error {
	cw.flushed = 0
	for cw.frame.Len() > 0 {
		n, err := cw.out.Write(cw.frame.Next(maxChunkSize))
		cw.flushed += n
		if err != nil {
			cw.frame.Reset()
			return err
		}
	}
	cw.frame.Reset()
	return cw.out.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterScreen switches to the alternate screen, hides the cursor and
// clears it, so the game does not scroll the user's shell history.
func EnterScreen(w io.Writer) {
	io.WriteString(w, seqEnterAltBuf+seqHideCursor+seqReset+seqClear)
}

// LeaveScreen undoes EnterScreen.
func LeaveScreen(w io.Writer) {
	io.WriteString(w, seqReset+seqClear+seqShowCursor+seqLeaveAltBuf)
}

// ClearScreen queues a color reset and full clear on the frame, used when
// the canvas moves or shrinks.
func (cw *ChunkWriter) ClearScreen() {
	cw.frame.WriteString(seqReset + seqClear)
}
