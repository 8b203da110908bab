package dsp

import "math"

// MaxModes is the capacity of a FilterBank.
const MaxModes = 9

// Mode describes the resonances of a surface: one biquad per band.
type Mode struct {
	Count int
	Types []FilterType
	Freqs []float64
	Qs    []float64
	Gains []float64
}

// ----- Filter Bank ----- //

// FilterBank sums parallel biquads, each with its own gain. After
// InitialiseFilterBank or Unmute the output fades in over 10 ms.
type FilterBank struct {
	src        Source
	sampleRate int
	filters    []*Biquad
	gains      []float64
	muteGain   float64
	outputMult float64
	fadeInc    float64
}

// NewFilterBank creates n band-passes at 200 Hz (n is capped at MaxModes).
func NewFilterBank(src Source, sampleRate int, n int) *FilterBank {
	sampleRate = maxInt(sampleRate, 1)
	if n > MaxModes {
		n = MaxModes
	}
	if n < 0 {
		n = 0
	}
	b := &FilterBank{
		src:        src,
		sampleRate: sampleRate,
		filters:    make([]*Biquad, n),
		gains:      make([]float64, n),
		muteGain:   1,
		fadeInc:    1 / (0.01 * float64(sampleRate)),
	}
	for i := range b.filters {
		b.filters[i] = NewBiquad(sampleRate, 200, 1, 0, Bandpass)
		b.gains[i] = 1
	}
	return b
}

func (b *FilterBank) bands(m Mode) int {
	n := m.Count
	for _, l := range []int{len(b.filters), len(m.Types), len(m.Freqs), len(m.Qs), len(m.Gains)} {
		if l < n {
			n = l
		}
	}
	return n
}

// InitialiseFilterBank loads m into the first m.Count bands and silences the
// rest.
func (b *FilterBank) InitialiseFilterBank(m Mode) {
	n := b.bands(m)
	for i := 0; i < n; i++ {
		f := b.filters[i]
		f.ResetFilter()
		f.SetType(m.Types[i])
		f.SetFrequency(m.Freqs[i])
		f.SetQFactor(m.Qs[i])
		b.gains[i] = m.Gains[i]
	}
	for i := n; i < len(b.gains); i++ {
		b.gains[i] = 0
	}
	b.outputMult = 0
}

// VaryParameters randomizes frequency (±20%), Q and gain (±30%) of the
// first m.Count bands around m.
func (b *FilterBank) VaryParameters(m Mode) {
	n := b.bands(m)
	for i := 0; i < n; i++ {
		b.filters[i].SetFrequency(Vary(b.src, m.Freqs[i], 0.2))
		b.filters[i].SetQFactor(Vary(b.src, m.Qs[i], 0.3))
		b.gains[i] = Vary(b.src, m.Gains[i], 0.3)
	}
}

// ClearGains silences every band.
func (b *FilterBank) ClearGains() {
	for i := range b.gains {
		b.gains[i] = 0
	}
}

// Gain returns the gain of band i.
func (b *FilterBank) Gain(i int) float64 {
	return b.gains[i]
}

// Mute ...
func (b *FilterBank) Mute() {
	b.muteGain = 0
}

// Unmute restores full gain and restarts the fade-in.
func (b *FilterBank) Unmute() {
	b.UnmuteWithGain(1)
}

// UnmuteWithGain ...
func (b *FilterBank) UnmuteWithGain(gain float64) {
	b.muteGain = gain
	b.outputMult = 0
}

// ProcessSample ...
func (b *FilterBank) ProcessSample(in float64) float64 {
	if b.outputMult < 1 {
		b.outputMult = math.Min(b.outputMult+b.fadeInc, 1)
	}
	out := 0.0
	for i, f := range b.filters {
		out += f.ProcessSample(in) * b.gains[i]
	}
	return out * b.muteGain * b.outputMult * b.outputMult
}
