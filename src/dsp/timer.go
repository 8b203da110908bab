package dsp

import "math"

// ----- Timer ----- //

// Timer counts elapsed time while playing. CheckTime advances the counter by
// one sample and reports whether the set time has been reached; once it has,
// it keeps reporting true until ResetTimer.
type Timer struct {
	inc     float64
	counter float64
	time    float64
	playing bool
}

// NewTimer creates a paused timer.
func NewTimer(sampleRate int, time float64) *Timer {
	return &Timer{
		inc:  1 / float64(maxInt(sampleRate, 1)),
		time: math.Max(time, 0),
	}
}

// SetTime takes seconds.
func (t *Timer) SetTime(time float64) { t.time = math.Max(time, 0) }
func (t *Timer) Time() float64        { return t.time }
func (t *Timer) ResetTimer()          { t.counter = 0 }
func (t *Timer) PauseTimer()          { t.playing = false }
func (t *Timer) ResumeTimer()         { t.playing = true }
func (t *Timer) Playing() bool        { return t.playing }

// CheckTime ...
func (t *Timer) CheckTime() bool {
	if !t.playing {
		return false
	}
	if t.counter >= t.time {
		return true
	}
	t.counter += t.inc
	return false
}

// ----- RMS ----- //

// RMS reports the root mean square of the last complete window and holds it
// until the next window completes.
type RMS struct {
	window int
	count  int
	sum    float64
	out    float64
}

// DefaultRMSWindow ...
const DefaultRMSWindow = 256

// NewRMS ...
func NewRMS(window int) *RMS {
	return &RMS{window: maxInt(window, 1)}
}

// SetWindowLength ...
func (r *RMS) SetWindowLength(window int) {
	r.window = maxInt(window, 1)
}

// Value returns the last computed RMS.
func (r *RMS) Value() float64 {
	return r.out
}

// ProcessSample ...
func (r *RMS) ProcessSample(in float64) float64 {
	r.sum += in * in
	r.count++
	if r.count >= r.window {
		r.out = math.Sqrt(r.sum / float64(r.window))
		r.sum = 0
		r.count = 0
	}
	return r.out
}

// ----- Pulse ----- //

const pulseCheckInterval = 256

// Pulse watches its input every 256 samples. When the input sits just above
// 0.5 it fires a squared-decay pulse of random length up to 30 ms.
type Pulse struct {
	src        Source
	sampleRate int
	counter    int
	pos        int
	decay      float64 // samples
	filter     *Biquad
}

// NewPulse ...
func NewPulse(src Source, sampleRate int) *Pulse {
	return &Pulse{src: src, sampleRate: maxInt(sampleRate, 1)}
}

// Retune makes each new pulse retune f to 1500 Hz + 500 Hz per ms of decay.
func (p *Pulse) Retune(f *Biquad) {
	p.filter = f
}

// ProcessSample ...
func (p *Pulse) ProcessSample(in float64) float64 {
	out := 0.0
	if p.counter == pulseCheckInterval-1 {
		if in > 0.49 && in < 0.52 {
			p.decay = p.src.Float64() * 30 * float64(p.sampleRate) / 1000
			if p.filter != nil {
				p.filter.SetFrequency(1500 + 500*p.decay*1000/float64(p.sampleRate))
			}
		} else {
			p.decay = 0
		}
		p.counter = 0
	}
	if p.decay > 0 {
		if float64(p.pos) < p.decay {
			x := 1 - float64(p.pos)/p.decay
			out = x * x
		} else if p.pos > pulseCheckInterval {
			p.pos = -1
		}
		p.pos++
	}
	p.counter++
	return out
}
