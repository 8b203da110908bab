package dsp

import "math"

// ----- Curve Envelope ----- //

// CurveEnvelope is a piecewise-linear envelope through a list of breakpoint
// values. Segment durations are either explicit (one per segment) or an equal
// split of a total time. Past the last breakpoint it holds the last value.
//
// SetValues and SetTimes only take effect on the running position after the
// next Reset.
type CurveEnvelope struct {
	values   []float64
	times    []float64 // empty: equal segments of time/(len(values)-1)
	time     float64
	pos      float64
	posInc   float64
	counter  int
	boundary float64
	started  bool
}

var defaultCurveValues = []float64{0, 1, 0}

const defaultCurveTime = 0.5

// NewCurveEnvelope splits time equally between the segments.
func NewCurveEnvelope(sampleRate int, values []float64, time float64) *CurveEnvelope {
	e := &CurveEnvelope{posInc: 1 / float64(maxInt(sampleRate, 1))}
	e.SetValues(values)
	e.SetTime(time)
	e.rewind()
	return e
}

// NewCurveEnvelopeWithTimes takes one duration per segment.
func NewCurveEnvelopeWithTimes(sampleRate int, values []float64, times []float64) *CurveEnvelope {
	e := &CurveEnvelope{posInc: 1 / float64(maxInt(sampleRate, 1))}
	e.SetValues(values)
	e.SetTimes(times)
	e.rewind()
	return e
}

// SetValues falls back to {0, 1, 0} when fewer than two values are given.
func (e *CurveEnvelope) SetValues(values []float64) {
	if len(values) < 2 {
		values = defaultCurveValues
	}
	e.values = append(e.values[:0], values...)
	if len(e.times) > 0 && len(e.times) != len(e.values)-1 {
		e.times = e.times[:0]
		e.time = defaultCurveTime
	}
}

// SetTime switches to equal segments spanning the given total time.
func (e *CurveEnvelope) SetTime(time float64) {
	e.times = e.times[:0]
	e.time = math.Max(time, float64(len(e.values)-1)*e.posInc)
}

// SetTimes needs exactly len(values)-1 durations. Anything else falls back
// to equal segments over 0.5 s.
func (e *CurveEnvelope) SetTimes(times []float64) {
	if len(times) != len(e.values)-1 {
		e.times = e.times[:0]
		e.time = defaultCurveTime
		return
	}
	e.times = e.times[:0]
	e.time = 0
	for _, t := range times {
		t = math.Max(t, 0)
		e.times = append(e.times, t)
		e.time += t
	}
}

// Time returns the total duration in seconds.
func (e *CurveEnvelope) Time() float64 {
	return e.time
}

func (e *CurveEnvelope) segmentTime(i int) float64 {
	if len(e.times) == 0 {
		return e.time / float64(len(e.values)-1)
	}
	return e.times[i]
}

func (e *CurveEnvelope) rewind() {
	e.pos = 0
	e.counter = 1
	e.boundary = e.segmentTime(0)
}

// Reset ...
func (e *CurveEnvelope) Reset() {
	e.rewind()
	e.started = true
}

// Next ...
func (e *CurveEnvelope) Next() float64 {
	if !e.started {
		return e.values[0]
	}
	last := len(e.values) - 1
	for e.counter <= last && e.pos > e.boundary {
		e.counter++
		if e.counter <= last {
			e.boundary += e.segmentTime(e.counter - 1)
		}
	}
	if e.counter > last {
		return e.values[last]
	}
	to := e.values[e.counter]
	from := e.values[e.counter-1]
	value := to
	if t := e.segmentTime(e.counter - 1); t > 0 {
		value = to + (e.pos-e.boundary)*(to-from)/t
	}
	if e.pos <= e.time {
		e.pos += e.posInc
	}
	return value
}
