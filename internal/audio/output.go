// Package audio synthesizes the game's sound effects and background music
// and mixes them onto a single output device.
package audio

import (
	"errors"
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// DefaultSampleRate is used when opening the speaker.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNoOutput is returned when no audio device could be opened.
var ErrNoOutput = errors.New("audio: no output device")

// Output is an audio device. Play hands a streamer to the device's
// realtime goroutine; Lock and Unlock guard state shared with it.
type Output interface {
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// speakerOutput plays through the process-wide beep speaker.
type speakerOutput struct {
	rate beep.SampleRate
}

// OpenSpeaker initializes the system speaker with the given buffer latency.
func OpenSpeaker(rate beep.SampleRate, buffer time.Duration) (Output, error) {
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	return &speakerOutput{rate: rate}, nil
}

func (o *speakerOutput) SampleRate() beep.SampleRate { return o.rate }
func (o *speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (o *speakerOutput) Lock() { speaker.Lock() }
func (o *speakerOutput) Unlock() { speaker.Unlock() }

func (o *speakerOutput) Close() {
	speaker.Clear()
	speaker.Close()
}
