package audio

import (
	"math"
	"testing"
	"time"
)

func TestExpRamp(t *testing.T) {
	tests := []struct {
		a, b, t, want float64
	}{
		{800, 200, 0, 800},
		{800, 200, 1, 200},
		{800, 200, 0.5, 400},
		{0, 1, 0.5, 0.5}, // linear fallback
	}
	for _, tt := range tests {
		if got := expRamp(tt.a, tt.b, tt.t); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("expRamp(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.t, got, tt.want)
		}
	}
}

func TestLinearParam(t *testing.T) {
	var p linearParam
	p.rampTo(1, 100, 100)

	if got := p.at(100); got != 0 {
		t.Errorf("at start = %v, want 0", got)
	}
	if got := p.at(150); got != 0.5 {
		t.Errorf("halfway = %v, want 0.5", got)
	}
	if got := p.at(500); got != 1 {
		t.Errorf("after end = %v, want 1", got)
	}

	// Retargeting mid-ramp starts from the current value.
	p.rampTo(0, 150, 50)
	if got := p.at(150); got != 0.5 {
		t.Errorf("retarget start = %v, want 0.5", got)
	}
}

func TestWaveRange(t *testing.T) {
	for _, w := range []Wave{WaveSine, WaveSquare, WaveSawtooth, WaveTriangle} {
		for i := 0; i < 100; i++ {
			v := w.sample(float64(i) / 100)
			if v < -1 || v > 1 {
				t.Fatalf("wave %d at %d = %v out of range", w, i, v)
			}
		}
	}
}

func TestLowpassAttenuatesHighFrequencies(t *testing.T) {
	rate := float64(testRate)
	measure := func(freq float64) float64 {
		f := newLowpass(rate, 200)
		phase, peak := 0.0, 0.0
		for i := 0; i < int(rate); i++ {
			v := f.process(WaveSine.sample(phase))
			phase = advance(phase, freq, rate)
			if i > int(rate)/2 && math.Abs(v) > peak {
				peak = math.Abs(v)
			}
		}
		return peak
	}

	low, high := measure(50), measure(2000)
	if low < 0.8 {
		t.Errorf("50Hz peak = %v, want near unity", low)
	}
	if high > 0.1 {
		t.Errorf("2000Hz peak = %v, want strongly attenuated", high)
	}
}

func TestEffectLengths(t *testing.T) {
	count := func(s interface {
		Stream([][2]float64) (int, bool)
	}) int {
		buf := make([][2]float64, 256)
		total := 0
		for {
			n, ok := s.Stream(buf)
			total += n
			if !ok {
				return total
			}
		}
	}

	if got, want := count(shootSound(testRate, 1)), testRate.N(100*time.Millisecond); got != want {
		t.Errorf("shoot length = %d, want %d", got, want)
	}
	if got, want := count(explosionSound(testRate, 1)), testRate.N(300*time.Millisecond); got != want {
		t.Errorf("explosion length = %d, want %d", got, want)
	}
	engine, err := engineSound(testRate, 1, 0.5)
	if err != nil {
		t.Fatalf("engineSound: %v", err)
	}
	if got, want := count(engine), testRate.N(500*time.Millisecond); got != want {
		t.Errorf("engine length = %d, want %d", got, want)
	}
}

func TestShootStartsAtEffectsVolume(t *testing.T) {
	s := shootSound(testRate, 0.5)
	buf := make([][2]float64, 1)
	s.Stream(buf)
	if got, want := buf[0][0], 0.5*shootGain; math.Abs(got-want) > 1e-9 {
		t.Errorf("first sample = %v, want %v", got, want)
	}
}

func TestChordVoiceEnvelope(t *testing.T) {
	v := &chordVoice{base: 0.08, start: 0, attack: 100, release: 100, end: 1000}
	tests := []struct {
		pos  int64
		want float64
	}{
		{0, 0},
		{50, 0.04},
		{100, 0.08},
		{500, 0.08},
		{950, 0.04},
		{1000, 0},
	}
	for _, tt := range tests {
		if got := v.envelope(tt.pos); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("envelope(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}
