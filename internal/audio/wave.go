package audio

import "math"

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

// sample returns the waveform value in [-1, 1] at phase in [0, 1).
func (w Wave) sample(phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSawtooth:
		return 2*phase - 1
	case WaveTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// advance moves phase forward by freq Hz over one sample.
func advance(phase, freq, rate float64) float64 {
	phase += freq / rate
	return phase - math.Floor(phase)
}

// expRamp interpolates exponentially from a to b at progress t in [0, 1].
// Non-positive endpoints fall back to a linear ramp.
func expRamp(a, b, t float64) float64 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	if a <= 0 || b <= 0 {
		return a + (b-a)*t
	}
	return a * math.Pow(b/a, t)
}

// linearParam is a value that ramps linearly between two points on the
// sample clock.
type linearParam struct {
	from, to   float64
	start, end int64
}

// at returns the value at sample position pos.
func (p *linearParam) at(pos int64) float64 {
	if pos >= p.end || p.end <= p.start {
		return p.to
	}
	if pos <= p.start {
		return p.from
	}
	return p.from + (p.to-p.from)*float64(pos-p.start)/float64(p.end-p.start)
}

// rampTo starts a ramp from the current value at pos to target over n samples.
func (p *linearParam) rampTo(target float64, pos int64, n int) {
	p.from = p.at(pos)
	p.to = target
	p.start = pos
	p.end = pos + int64(n)
}

// lowpass is a second-order lowpass filter whose cutoff may change per sample.
type lowpass struct {
	rate   float64
	q      float64
	cutoff float64

	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newLowpass(rate, cutoff float64) *lowpass {
	f := &lowpass{rate: rate, q: 1}
	f.setCutoff(cutoff)
	return f
}

// setCutoff recomputes the coefficients for a new cutoff frequency.
func (f *lowpass) setCutoff(hz float64) {
	if hz == f.cutoff {
		return
	}
	f.cutoff = hz
	nyquist := f.rate / 2
	if hz > nyquist*0.99 {
		hz = nyquist * 0.99
	}
	w0 := 2 * math.Pi * hz / f.rate
	cos, sin := math.Cos(w0), math.Sin(w0)
	alpha := sin / (2 * f.q)
	a0 := 1 + alpha

	f.b0 = (1 - cos) / 2 / a0
	f.b1 = (1 - cos) / a0
	f.b2 = f.b0
	f.a1 = -2 * cos / a0
	f.a2 = (1 - alpha) / a0
}

// process filters one sample.
func (f *lowpass) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}
