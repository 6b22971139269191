package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// Effect tuning. Gains are multiplied by the effects volume.
const (
	shootDuration  = 100 * time.Millisecond
	shootFreqStart = 800.0
	shootFreqEnd   = 200.0
	shootGain      = 0.3

	explosionDuration    = 300 * time.Millisecond
	explosionFreqStart   = 150.0
	explosionFreqEnd     = 50.0
	explosionCutoffStart = 1000.0
	explosionCutoffEnd   = 100.0
	explosionGain        = 0.4

	engineDuration = 500 * time.Millisecond
	engineFreqBase = 120.0
	engineFreqJit  = 20.0
	engineGain     = 0.1

	// Every effect decays to this gain by the time it stops.
	effectGainEnd = 0.01
)

// sweep is a one-shot voice whose pitch, gain and optional filter cutoff
// follow exponential ramps. It ends after a fixed number of samples.
type sweep struct {
	wave             Wave
	rate             float64
	freqFrom, freqTo float64
	gainFrom, gainTo float64
	cutFrom, cutTo   float64
	filter           *lowpass
	phase            float64
	pos, length      int
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.length {
			return i, i > 0
		}
		t := float64(s.pos) / float64(s.length)

		v := s.wave.sample(s.phase)
		if s.filter != nil {
			s.filter.setCutoff(expRamp(s.cutFrom, s.cutTo, t))
			v = s.filter.process(v)
		}
		v *= expRamp(s.gainFrom, s.gainTo, t)

		samples[i][0] = v
		samples[i][1] = v
		s.phase = advance(s.phase, expRamp(s.freqFrom, s.freqTo, t), s.rate)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// shootSound is a short descending square blip.
func shootSound(rate beep.SampleRate, volume float64) beep.Streamer {
	return &sweep{
		wave:     WaveSquare,
		rate:     float64(rate),
		freqFrom: shootFreqStart,
		freqTo:   shootFreqEnd,
		gainFrom: volume * shootGain,
		gainTo:   effectGainEnd,
		length:   rate.N(shootDuration),
	}
}

// explosionSound is a descending sawtooth through a closing lowpass.
func explosionSound(rate beep.SampleRate, volume float64) beep.Streamer {
	return &sweep{
		wave:     WaveSawtooth,
		rate:     float64(rate),
		freqFrom: explosionFreqStart,
		freqTo:   explosionFreqEnd,
		gainFrom: volume * explosionGain,
		gainTo:   effectGainEnd,
		cutFrom:  explosionCutoffStart,
		cutTo:    explosionCutoffEnd,
		filter:   newLowpass(float64(rate), explosionCutoffStart),
		length:   rate.N(explosionDuration),
	}
}

// engineSound is a short sawtooth hum; jitter in [0, 1) detunes it.
func engineSound(rate beep.SampleRate, volume, jitter float64) (beep.Streamer, error) {
	tone, err := generators.SawtoothTone(rate, engineFreqBase+jitter*engineFreqJit)
	if err != nil {
		return nil, err
	}
	n := rate.N(engineDuration)
	return beep.Take(n, &decay{
		Streamer: tone,
		from:     volume * engineGain,
		to:       effectGainEnd,
		length:   n,
	}), nil
}

// decay scales a streamer by an exponential gain ramp.
type decay struct {
	beep.Streamer
	from, to float64
	pos      int
	length   int
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := expRamp(d.from, d.to, float64(d.pos)/float64(d.length))
		samples[i][0] *= g
		samples[i][1] *= g
		d.pos++
	}
	return n, ok
}
