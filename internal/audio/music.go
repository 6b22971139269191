package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Music tuning.
const (
	chordDuration   = 4 * time.Second
	chordAttack     = 500 * time.Millisecond
	chordRelease    = 500 * time.Millisecond
	vibratoRate     = 4.0 // Hz
	vibratoDepth    = 2.0 // Hz
	musicCutoff     = 800.0
	rootVoiceGain   = 0.08
	upperVoiceGain  = 0.04
	musicMasterGain = 0.6

	musicFadeIn     = 3 * time.Second
	musicFadeOut    = 1500 * time.Millisecond
	musicFadeVolume = 500 * time.Millisecond
	musicStartDelay = 500 * time.Millisecond
)

// progression is F, C, G, Am; each chord is a root-position triad in Hz.
var progression = [...][3]float64{
	{174.61, 220.00, 261.63},
	{261.63, 329.63, 392.00},
	{196.00, 246.94, 293.66},
	{220.00, 261.63, 329.63},
}

// chordVoice is one sustained note of a chord.
type chordVoice struct {
	wave     Wave
	freq     float64
	base     float64 // Peak gain
	start    int64
	attack   int64
	release  int64
	end      int64
	phase    float64
	vibPhase float64
	filter   *lowpass
}

// envelope returns the voice gain at pos: rise, hold, fall.
func (v *chordVoice) envelope(pos int64) float64 {
	switch {
	case pos < v.start || pos >= v.end:
		return 0
	case pos < v.start+v.attack:
		return v.base * float64(pos-v.start) / float64(v.attack)
	case pos >= v.end-v.release:
		return v.base * float64(v.end-pos) / float64(v.release)
	default:
		return v.base
	}
}

// next renders one sample and advances the oscillators.
func (v *chordVoice) next(pos int64, rate float64) float64 {
	if pos < v.start {
		return 0
	}
	s := v.filter.process(v.wave.sample(v.phase)) * v.envelope(pos)
	freq := v.freq + vibratoDepth*math.Sin(2*math.Pi*v.vibPhase)
	v.phase = advance(v.phase, freq, rate)
	v.vibPhase = advance(v.vibPhase, vibratoRate, rate)
	return s
}

// musicBus is an endless streamer that plays the chord progression under a
// master gain. All methods other than Stream must be called with the output
// locked.
type musicBus struct {
	rate   beep.SampleRate
	pos    int64 // Sample clock
	gain   linearParam
	voices []*chordVoice

	playing   bool
	chord     int
	nextChord int64
	volume    float64 // Music volume captured for new chords
}

func newMusicBus(rate beep.SampleRate) *musicBus {
	return &musicBus{rate: rate}
}

func (m *musicBus) Stream(samples [][2]float64) (n int, ok bool) {
	rate := float64(m.rate)
	for i := range samples {
		if m.playing && m.pos >= m.nextChord {
			m.playChord(m.pos)
		}

		var sum float64
		live := m.voices[:0]
		for _, v := range m.voices {
			if m.pos >= v.end {
				continue
			}
			sum += v.next(m.pos, rate)
			live = append(live, v)
		}
		m.voices = live

		sum *= m.gain.at(m.pos)
		samples[i][0] = sum
		samples[i][1] = sum
		m.pos++
	}
	return len(samples), true
}

func (m *musicBus) Err() error { return nil }

// playChord starts the current chord at pos and schedules the next one.
func (m *musicBus) playChord(pos int64) {
	length := int64(m.rate.N(chordDuration))
	for i, freq := range progression[m.chord] {
		wave, base := WaveTriangle, m.volume*upperVoiceGain
		if i == 0 {
			wave, base = WaveSine, m.volume*rootVoiceGain
		}
		m.voices = append(m.voices, &chordVoice{
			wave:    wave,
			freq:    freq,
			base:    base,
			start:   pos,
			attack:  int64(m.rate.N(chordAttack)),
			release: int64(m.rate.N(chordRelease)),
			end:     pos + length,
			filter:  newLowpass(float64(m.rate), musicCutoff),
		})
	}
	m.chord = (m.chord + 1) % len(progression)
	m.nextChord = pos + length
}

// fadeTo ramps the master gain to target over d.
func (m *musicBus) fadeTo(target float64, d time.Duration) {
	m.gain.rampTo(target, m.pos, m.rate.N(d))
}

// startProgression drops any sounding voices and restarts from the first
// chord at the current position.
func (m *musicBus) startProgression(volume float64) {
	m.voices = nil
	m.volume = volume
	m.chord = 0
	m.nextChord = m.pos
	m.playing = true
}

// stop silences every voice and halts the progression.
func (m *musicBus) stop() {
	m.voices = nil
	m.playing = false
}

// setVolume changes the gain used for chords started from now on.
func (m *musicBus) setVolume(volume float64) {
	m.volume = volume
}

// level returns the master gain at the current position.
func (m *musicBus) level() float64 {
	return m.gain.at(m.pos)
}
