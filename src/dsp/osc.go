package dsp

import "math"

// ----- Wave Kind ----- //

// WaveKind selects the waveform an Osc produces.
type WaveKind int

// WaveKind values
const (
	WaveSine WaveKind = iota
	WaveSquare
	WaveSaw
	WaveTriangle
	WavePWM
	WavePhasor
)

var waveKindNames = []string{"sine", "square", "saw", "triangle", "pwm", "phasor"}

func (k WaveKind) String() string {
	if k < 0 || int(k) >= len(waveKindNames) {
		return "sine"
	}
	return waveKindNames[k]
}

// WaveKindFromString falls back to WaveSine for unknown names.
func WaveKindFromString(s string) WaveKind {
	for i, name := range waveKindNames {
		if name == s {
			return WaveKind(i)
		}
	}
	return WaveSine
}

// ----- OSC ----- //

// Osc is a naive (non band-limited) phase-accumulator oscillator.
// Phase is kept in [0, 1).
type Osc struct {
	kind       WaveKind
	sampleRate int
	freq       float64
	phase      float64
	phaseInc   float64
	duty       float64
}

// NewOsc ...
func NewOsc(kind WaveKind, sampleRate int, freq float64) *Osc {
	o := &Osc{
		kind:       kind,
		sampleRate: maxInt(sampleRate, 1),
		duty:       0.5,
	}
	if kind == WavePhasor {
		o.duty = 1
	}
	o.SetFrequency(freq)
	return o
}

// NewSineOsc ...
func NewSineOsc(sampleRate int, freq float64) *Osc {
	return NewOsc(WaveSine, sampleRate, freq)
}

// NewPWMOsc ...
func NewPWMOsc(sampleRate int, freq, duty float64) *Osc {
	o := NewOsc(WavePWM, sampleRate, freq)
	o.SetDuty(duty)
	return o
}

// NewPhasor ...
func NewPhasor(sampleRate int, freq, phase, duty float64) *Osc {
	o := NewOsc(WavePhasor, sampleRate, freq)
	o.SetPhase(phase)
	o.SetDuty(duty)
	return o
}

// SetFrequency clamps freq to at least 1 Hz.
func (o *Osc) SetFrequency(freq float64) {
	o.freq = math.Max(freq, 1)
	o.phaseInc = o.freq / float64(o.sampleRate)
}

// Frequency ...
func (o *Osc) Frequency() float64 {
	return o.freq
}

// SetPhase wraps phase into [0, 1).
func (o *Osc) SetPhase(phase float64) {
	o.phase = wrapPhase(phase)
}

func wrapPhase(p float64) float64 {
	return p - math.Floor(p)
}

// SetDuty sets the pulse width of WavePWM ([0, 1]) or the active
// fraction of WavePhasor ([0.001, 1]).
func (o *Osc) SetDuty(duty float64) {
	if o.kind == WavePhasor {
		o.duty = Clamp(duty, 0.001, 1)
	} else {
		o.duty = Clamp(duty, 0, 1)
	}
}

// NextSample ...
func (o *Osc) NextSample() float64 {
	if o.kind == WavePhasor {
		out := 0.0
		if o.phase <= o.duty {
			out = o.phase / o.duty
		}
		o.phase = wrapPhase(o.phase + o.phaseInc)
		return out
	}
	o.phase = wrapPhase(o.phase)
	p := o.phase
	var out float64
	switch o.kind {
	case WaveSquare:
		if p <= 0.5 {
			out = -1
		} else {
			out = 1
		}
	case WaveSaw:
		out = 2*p - 1
	case WaveTriangle:
		if p <= 0.5 {
			out = 4*p - 1
		} else {
			out = -4*p + 3
		}
	case WavePWM:
		if p < o.duty {
			out = 1
		} else {
			out = -1
		}
	default:
		out = math.Sin(-(2*math.Pi*p - math.Pi))
	}
	o.phase += o.phaseInc
	return out
}

// ----- Random Ramps ----- //

// RandRamps ramps linearly from its last output to a new random target in
// [-1, 1] once per interval.
type RandRamps struct {
	src        Source
	sampleRate int
	interval   float64 // sec
	phase      float64 // sec
	start      float64
	target     float64
	out        float64
}

// NewRandRamps takes the interval in milliseconds.
func NewRandRamps(src Source, sampleRate int, intervalMillis float64) *RandRamps {
	r := &RandRamps{
		src:        src,
		sampleRate: maxInt(sampleRate, 1),
	}
	r.SetInterval(intervalMillis)
	r.target = 2*src.Float64() - 1
	return r
}

// SetInterval takes milliseconds.
func (r *RandRamps) SetInterval(millis float64) {
	r.interval = math.Max(millis, 0.001) / 1000
}

// NextSample ...
func (r *RandRamps) NextSample() float64 {
	if r.phase >= r.interval {
		r.target = 2*r.src.Float64() - 1
		r.phase = 0
		r.start = r.out
	}
	r.out = Clamp(r.start+r.phase*(r.target-r.start)/r.interval, -1, 1)
	r.phase += secPerSample(r.sampleRate)
	return r.out
}

// ----- Noise ----- //

// WhiteNoise is uniform in [-1, 1).
type WhiteNoise struct {
	src Source
}

// NewWhiteNoise ...
func NewWhiteNoise(src Source) *WhiteNoise {
	return &WhiteNoise{src: src}
}

// NextSample ...
func (n *WhiteNoise) NextSample() float64 {
	return 2*n.src.Float64() - 1
}

// PinkNoise filters white noise with Paul Kellet's refined method.
type PinkNoise struct {
	src                        Source
	b0, b1, b2, b3, b4, b5, b6 float64
}

// NewPinkNoise ...
func NewPinkNoise(src Source) *PinkNoise {
	return &PinkNoise{src: src}
}

// NextSample ...
func (n *PinkNoise) NextSample() float64 {
	w := 2*n.src.Float64() - 1
	n.b0 = 0.99886*n.b0 + w*0.0555179
	n.b1 = 0.99332*n.b1 + w*0.0750759
	n.b2 = 0.96900*n.b2 + w*0.1538520
	n.b3 = 0.86650*n.b3 + w*0.3104856
	n.b4 = 0.55000*n.b4 + w*0.5329522
	n.b5 = -0.7616*n.b5 - w*0.0168980
	out := n.b0 + n.b1 + n.b2 + n.b3 + n.b4 + n.b5 + n.b6 + w*0.5362
	n.b6 = w * 0.115926
	return out * 0.11
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
