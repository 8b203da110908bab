package dsp

import "math"

// MaxDelayTime is the capacity of a Delay in seconds.
const MaxDelayTime = 5

// ----- Delay ----- //

// Delay is a fixed-capacity circular buffer. The output at sample n is the
// input at sample n - round(delay * sampleRate); a delay of zero passes the
// input through.
type Delay struct {
	sampleRate int
	delay      float64 // sec
	offset     int
	cursor     int
	past       []float64
}

// NewDelay ...
func NewDelay(sampleRate int, delay float64) *Delay {
	sampleRate = maxInt(sampleRate, 1)
	d := &Delay{
		sampleRate: sampleRate,
		past:       make([]float64, MaxDelayTime*sampleRate),
	}
	d.SetDelay(delay)
	return d
}

// SetDelay clamps to [0, MaxDelayTime - 1 sample].
func (d *Delay) SetDelay(delay float64) {
	d.delay = Clamp(delay, 0, MaxDelayTime-secPerSample(d.sampleRate))
	d.offset = int(math.Round(d.delay * float64(d.sampleRate)))
	if d.offset >= len(d.past) {
		d.offset = len(d.past) - 1
	}
}

// DelayTime ...
func (d *Delay) DelayTime() float64 {
	return d.delay
}

// ProcessSample ...
func (d *Delay) ProcessSample(in float64) float64 {
	d.past[d.cursor] = in
	read := d.cursor - d.offset
	if read < 0 {
		read += len(d.past)
	}
	d.cursor++
	if d.cursor >= len(d.past) {
		d.cursor = 0
	}
	return d.past[read]
}

// ----- Feedback Delay ----- //

// FeedbackDelay ...
type FeedbackDelay struct {
	delay    *Delay
	Feedback float64
	Dry      float64
	Wet      float64
	prev     float64
}

// NewFeedbackDelay ...
func NewFeedbackDelay(sampleRate int, delay, feedback, dry, wet float64) *FeedbackDelay {
	return &FeedbackDelay{
		delay:    NewDelay(sampleRate, delay),
		Feedback: feedback,
		Dry:      dry,
		Wet:      wet,
	}
}

// NewDefaultFeedbackDelay is a half-second, fully wet echo.
func NewDefaultFeedbackDelay(sampleRate int) *FeedbackDelay {
	return NewFeedbackDelay(sampleRate, 0.5, 0.5, 0, 1)
}

// SetDelay ...
func (f *FeedbackDelay) SetDelay(delay float64) {
	f.delay.SetDelay(delay)
}

// ProcessSample ...
func (f *FeedbackDelay) ProcessSample(in float64) float64 {
	delayed := f.delay.ProcessSample(in + f.prev)
	f.prev = delayed * f.Feedback
	return f.Dry*in + f.Wet*delayed
}
