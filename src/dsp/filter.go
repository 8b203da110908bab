package dsp

import "math"

// ----- Filter Type ----- //

// FilterType selects the biquad response.
type FilterType int

// FilterType values. Anything out of range behaves as Lowpass.
const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
	Notch
	Peak
	LowShelf
	HighShelf
	Allpass
)

var filterTypeNames = []string{"lowpass", "highpass", "bandpass", "notch", "peak", "lowshelf", "highshelf", "allpass"}

func (t FilterType) String() string {
	if t < 0 || int(t) >= len(filterTypeNames) {
		return filterTypeNames[Lowpass]
	}
	return filterTypeNames[t]
}

// ----- Biquad ----- //

// Biquad is a direct form I filter with RBJ cookbook style coefficients.
//
// Q is read as a linear quality factor for band-type responses and as a
// resonance in dB for Lowpass and Highpass.
type Biquad struct {
	sampleRate int
	kind       FilterType
	w          float64
	q          float64
	v          float64
	aq         float64
	aqdB       float64
	as         float64

	b0, b1, b2 float64
	a0, a1, a2 float64
	x1, x2     float64
	y1, y2     float64
}

// NewBiquad ...
func NewBiquad(sampleRate int, freq, q, gainDB float64, kind FilterType) *Biquad {
	f := &Biquad{
		sampleRate: maxInt(sampleRate, 1),
		kind:       kind,
		q:          math.Abs(q),
		v:          math.Pow(10, gainDB/40),
	}
	f.SetFrequency(freq)
	return f
}

// SetFrequency clamps freq to [1 Hz, 0.499 * sample rate].
func (f *Biquad) SetFrequency(freq float64) {
	f.w = 2 * math.Pi * math.Min(math.Max(freq, 1)/float64(f.sampleRate), 0.499)
	f.as = math.Sin(f.w) / math.Sqrt2
	f.updateQ()
}

// SetQFactor ...
func (f *Biquad) SetQFactor(q float64) {
	f.q = math.Abs(q)
	f.updateQ()
}

// SetPeakGain takes dB.
func (f *Biquad) SetPeakGain(gainDB float64) {
	f.v = math.Pow(10, gainDB/40)
	f.computeCoeff()
}

// SetType ...
func (f *Biquad) SetType(kind FilterType) {
	f.kind = kind
	f.computeCoeff()
}

// Type ...
func (f *Biquad) Type() FilterType {
	return f.kind
}

// Frequency returns the clamped center or cutoff frequency.
func (f *Biquad) Frequency() float64 {
	return f.w * float64(f.sampleRate) / (2 * math.Pi)
}

// QFactor ...
func (f *Biquad) QFactor() float64 {
	return f.q
}

func (f *Biquad) updateQ() {
	sinW := math.Sin(f.w)
	f.aq = sinW / (2 * math.Max(f.q, 0.001))
	f.aqdB = sinW / (2 * math.Pow(10, f.q/20))
	f.computeCoeff()
}

func (f *Biquad) computeCoeff() {
	c := math.Cos(f.w)
	v := f.v
	sqrtV := math.Sqrt(v)
	switch f.kind {
	case Highpass:
		f.b0, f.b1, f.b2 = (1+c)/2, -1-c, (1+c)/2
		f.a0, f.a1, f.a2 = 1+f.aqdB, -2*c, 1-f.aqdB
	case Bandpass:
		f.b0, f.b1, f.b2 = f.aq, 0, -f.aq
		f.a0, f.a1, f.a2 = 1+f.aq, -2*c, 1-f.aq
	case Notch:
		f.b0, f.b1, f.b2 = 1, -2*c, 1
		f.a0, f.a1, f.a2 = 1+f.aq, -2*c, 1-f.aq
	case Peak:
		f.b0, f.b1, f.b2 = 1+f.aq*v, -2*c, 1-f.aq*v
		f.a0, f.a1, f.a2 = 1+f.aq/v, -2*c, 1-f.aq/v
	case LowShelf:
		f.b0 = v * (v + 1 + 2*sqrtV*f.as - (v-1)*c)
		f.b1 = 2 * v * (v - 1 - (v+1)*c)
		f.b2 = v * (v + 1 - 2*sqrtV*f.as - (v-1)*c)
		f.a0 = v + 1 + 2*sqrtV*f.as + (v-1)*c
		f.a1 = -2 * (v - 1 + (v+1)*c)
		f.a2 = v + 1 - 2*sqrtV*f.as + (v-1)*c
	case HighShelf:
		f.b0 = v * (v + 1 + 2*sqrtV*f.as + (v-1)*c)
		f.b1 = -2 * v * (v - 1 + (v+1)*c)
		f.b2 = v * (v + 1 - 2*sqrtV*f.as + (v-1)*c)
		f.a0 = v + 1 + 2*sqrtV*f.as - (v-1)*c
		f.a1 = -2 * (v - 1 - (v+1)*c)
		f.a2 = v + 1 - 2*sqrtV*f.as - (v-1)*c
	case Allpass:
		f.b0, f.b1, f.b2 = 1-f.aq, -2*c, 1+f.aq
		f.a0, f.a1, f.a2 = 1+f.aq, -2*c, 1-f.aq
	default:
		f.b0, f.b1, f.b2 = (1-c)/2, 1-c, (1-c)/2
		f.a0, f.a1, f.a2 = 1+f.aqdB, -2*c, 1-f.aqdB
	}
}

// ProcessSample ...
func (f *Biquad) ProcessSample(in float64) float64 {
	out := (in*f.b0 + f.x1*f.b1 + f.x2*f.b2 - f.y1*f.a1 - f.y2*f.a2) / f.a0
	f.y2 = f.y1
	f.y1 = out
	f.x2 = f.x1
	f.x1 = in
	return out
}

// ResetFilter clears the delay taps and keeps the coefficients.
func (f *Biquad) ResetFilter() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}

// ----- One Pole ----- //

// OnePoleLPF ...
type OnePoleLPF struct {
	sampleRate int
	coeff      float64
	lastOut    float64
}

// NewOnePoleLPF ...
func NewOnePoleLPF(sampleRate int, freq float64) *OnePoleLPF {
	f := &OnePoleLPF{sampleRate: maxInt(sampleRate, 1)}
	f.SetFrequency(freq)
	return f
}

// SetFrequency clamps freq to just under a quarter of the sample rate.
func (f *OnePoleLPF) SetFrequency(freq float64) {
	sr := float64(f.sampleRate)
	k := 2 * math.Pi * Clamp(freq, 1, sr/4-0.001) / sr
	f.coeff = math.Min(1-1/math.Cos(k)+math.Tan(k), 0.999)
}

// ProcessSample ...
func (f *OnePoleLPF) ProcessSample(in float64) float64 {
	f.lastOut = in*f.coeff + (1-f.coeff)*f.lastOut
	return f.lastOut
}

// OnePoleHPF ...
type OnePoleHPF struct {
	sampleRate int
	coeff      float64
	lastIn     float64
	lastOut    float64
}

// NewOnePoleHPF ...
func NewOnePoleHPF(sampleRate int, freq float64) *OnePoleHPF {
	f := &OnePoleHPF{sampleRate: maxInt(sampleRate, 1)}
	f.SetFrequency(freq)
	return f
}

// SetFrequency ...
func (f *OnePoleHPF) SetFrequency(freq float64) {
	sr := float64(f.sampleRate)
	k := 2 * math.Pi * Clamp(freq, 1, sr/2-0.001) / sr
	if freq == sr/4 {
		// cos(k) would be 0
		k = 0.001 + math.Pi/2
	}
	f.coeff = math.Min(1-1/math.Cos(k)+math.Tan(k), 1.999)
}

// ProcessSample ...
func (f *OnePoleHPF) ProcessSample(in float64) float64 {
	g := (2 - f.coeff) / 2
	f.lastOut = in*g - f.lastIn*g + (1-f.coeff)*f.lastOut
	f.lastIn = in
	return f.lastOut
}

// ----- Band Pass ----- //

// Q for the resonator band-passes is capped at 0.001, which makes both of
// them very wide.
const maxResonatorQ = 0.001

// TwoPoleBPF is a two-pole resonator with gain compensation.
type TwoPoleBPF struct {
	sampleRate int
	freq       float64
	q          float64
	c1, c2     float64
	gain       float64
	z1, z2     float64
}

// NewTwoPoleBPF ...
func NewTwoPoleBPF(sampleRate int, freq, q float64) *TwoPoleBPF {
	f := &TwoPoleBPF{sampleRate: maxInt(sampleRate, 1), q: q}
	f.SetFrequency(freq)
	return f
}

// SetFrequency ...
func (f *TwoPoleBPF) SetFrequency(freq float64) {
	f.freq = Clamp(freq, 1, nyquist(f.sampleRate))
	f.computeCoeff()
}

// SetQFactor ...
func (f *TwoPoleBPF) SetQFactor(q float64) {
	f.q = q
	f.computeCoeff()
}

func (f *TwoPoleBPF) computeCoeff() {
	f.q = math.Min(maxResonatorQ, f.q)
	k := 2 * math.Pi * f.freq / float64(f.sampleRate)
	oneMinusR := math.Min(1, k/f.q)
	r := 1 - oneMinusR
	f.c1 = 2 * math.Cos(k) * r
	f.c2 = -r * r
	f.gain = 2 * oneMinusR * (oneMinusR + r*k)
}

// ProcessSample ...
func (f *TwoPoleBPF) ProcessSample(in float64) float64 {
	out := in + f.c1*f.z1 + f.c2*f.z2
	f.z2 = f.z1
	f.z1 = out
	return f.gain * out
}

// HighOrderBPF is a fourth-order band-pass built from an allpass prototype.
type HighOrderBPF struct {
	sampleRate     int
	freq           float64
	q              float64
	beta           float64
	gain           float64
	c0, c1, c2     float64
	c3, c4         float64
	x1, x2, x3, x4 float64
	y1, y2, y3, y4 float64
}

// NewHighOrderBPF ...
func NewHighOrderBPF(sampleRate int, freq, q float64) *HighOrderBPF {
	f := &HighOrderBPF{sampleRate: maxInt(sampleRate, 1), q: q}
	f.SetFrequency(freq)
	return f
}

// SetFrequency ...
func (f *HighOrderBPF) SetFrequency(freq float64) {
	f.freq = Clamp(freq, 1, nyquist(f.sampleRate))
	f.computeCoeff()
}

// SetQFactor ...
func (f *HighOrderBPF) SetQFactor(q float64) {
	f.q = q
	f.computeCoeff()
}

func (f *HighOrderBPF) computeCoeff() {
	f.q = math.Min(maxResonatorQ, f.q)
	k := 2 * math.Pi * f.freq / float64(f.sampleRate)
	t := math.Tan(k / f.q / 2)
	if d := 1 + t; d != 0 && !math.IsNaN(d) && !math.IsInf(d, 0) {
		f.beta = (1 - t) / d
	}
	tan2G := math.Tan(math.Pi/8) * math.Tan(math.Pi/8)
	norm := (1 - f.beta) / (2 * math.Cos(math.Pi/8))
	// squared normalization; a zero gain here would silence the filter
	f.gain = norm * norm
	cosK := math.Cos(k)
	b := f.beta
	f.c0 = 1 + b*b*tan2G
	f.c1 = -2 * (1 + b) * cosK * (b*tan2G + 1)
	f.c2 = (tan2G + 1) * (2*b + (1+b)*(1+b)*cosK*cosK)
	f.c3 = -2 * (1 + b) * cosK * (b + tan2G)
	f.c4 = b*b + tan2G
}

// ProcessSample ...
func (f *HighOrderBPF) ProcessSample(in float64) float64 {
	out := (f.gain*(in-2*f.x2+f.x4) - f.c1*f.y1 - f.c2*f.y2 - f.c3*f.y3 - f.c4*f.y4) / f.c0
	f.x4, f.x3, f.x2, f.x1 = f.x3, f.x2, f.x1, in
	f.y4, f.y3, f.y2, f.y1 = f.y3, f.y2, f.y1, out
	return out
}
