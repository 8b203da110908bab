package dsp

import "math"

// ----- Panner ----- //

// Panner places a mono or stereo signal with pan in [-1, 1].
type Panner struct {
	pan float64
}

// NewPanner ...
func NewPanner(pan float64) *Panner {
	p := &Panner{}
	p.SetPan(pan)
	return p
}

// SetPan ...
func (p *Panner) SetPan(pan float64) {
	p.pan = Clamp(pan, -1, 1)
}

// ProcessSample pans a mono sample with equal power.
func (p *Panner) ProcessSample(in float64) [2]float64 {
	a := (p.pan + 1) * math.Pi / 4
	return [2]float64{in * math.Cos(a), in * math.Sin(a)}
}

// ProcessStereo folds one side into the other as pan moves away from center.
func (p *Panner) ProcessStereo(left, right float64) [2]float64 {
	x := p.pan
	if p.pan <= 0 {
		x = p.pan + 1
	}
	gainL := math.Cos(x * math.Pi / 2)
	gainR := math.Sin(x * math.Pi / 2)
	if p.pan <= 0 {
		return [2]float64{left + right*gainL, right * gainR}
	}
	return [2]float64{left * gainL, right + left*gainR}
}

// ----- Haas ----- //

// Haas widens a mono signal by mixing in a short delayed copy.
type Haas struct {
	wet        *Delay
	separation float64
}

// NewHaas takes the depth in milliseconds (at least 1).
func NewHaas(sampleRate int, depthMillis, separation float64) *Haas {
	h := &Haas{wet: NewDelay(sampleRate, 0)}
	h.SetDepth(depthMillis)
	h.SetSeparation(separation)
	return h
}

// NewDefaultHaas uses a 25 ms depth and 0.5 separation.
func NewDefaultHaas(sampleRate int) *Haas {
	return NewHaas(sampleRate, 25, 0.5)
}

// SetDepth takes milliseconds.
func (h *Haas) SetDepth(depthMillis float64) {
	h.wet.SetDelay(math.Max(depthMillis, 1) / 1000)
}

// SetSeparation ...
func (h *Haas) SetSeparation(separation float64) {
	h.separation = Clamp(separation, -1, 1)
}

// ProcessSample ...
func (h *Haas) ProcessSample(in float64) [2]float64 {
	d := h.wet.ProcessSample(in)
	s := h.separation
	return [2]float64{
		d*(s+1)/2 + in*(1-s)/2,
		d*(1-s)/2 + in*(s+1)/2,
	}
}
