package dsp

import "math"

// ----- Sigma Delta ----- //

// SigmaDelta outputs the scaled first difference of its input.
type SigmaDelta struct {
	Gain   float64
	lastIn float64
}

// ProcessSample ...
func (s *SigmaDelta) ProcessSample(in float64) float64 {
	out := s.Gain * (in - s.lastIn)
	s.lastIn = in
	return out
}

// ----- Clip ----- //

// Clip hard-limits to [low, high]. low is never positive and high is never
// negative.
type Clip struct {
	low  float64
	high float64
}

// NewClip ...
func NewClip(low, high float64) *Clip {
	c := &Clip{}
	c.SetLowThreshold(low)
	c.SetHighThreshold(high)
	return c
}

func (c *Clip) SetLowThreshold(low float64)   { c.low = math.Min(low, 0) }
func (c *Clip) SetHighThreshold(high float64) { c.high = math.Max(high, 0) }

// ProcessSample ...
func (c *Clip) ProcessSample(in float64) float64 {
	if in < c.low {
		return c.low
	}
	if in > c.high {
		return c.high
	}
	return in
}

// ----- Overdrive ----- //

const minKnee = 0.001

// Overdrive is a soft clipper with a quadratic knee and an asymmetric
// negative side controlled by bias. Its output is lightly smoothed.
type Overdrive struct {
	volume     float64
	drive      float64
	bias       float64
	knee       float64
	c0, c1, c2 float64
	alpha      float64
	prev       float64
}

// NewOverdrive takes volume and drive in dB.
func NewOverdrive(volumeDB, driveDB, bias, knee float64) *Overdrive {
	o := &Overdrive{
		volume: math.Pow(10, volumeDB/20),
		drive:  math.Pow(10, driveDB/20),
		bias:   bias,
		knee:   math.Max(knee, minKnee),
		alpha:  0.99,
	}
	o.computeCoeff()
	return o
}

// SetVolume ...
func (o *Overdrive) SetVolume(volumeDB float64) {
	o.volume = math.Pow(10, volumeDB/20)
	o.computeCoeff()
}

// SetDrive ...
func (o *Overdrive) SetDrive(driveDB float64) {
	o.drive = math.Pow(10, driveDB/20)
}

// SetBias ...
func (o *Overdrive) SetBias(bias float64) {
	o.bias = bias
}

// SetKnee ...
func (o *Overdrive) SetKnee(knee float64) {
	o.knee = math.Max(knee, minKnee)
	o.computeCoeff()
}

func (o *Overdrive) computeCoeff() {
	o.c2 = -o.volume / (4 * o.knee)
	o.c1 = o.volume * (1 + o.knee) / (2 * o.knee)
	o.c0 = -o.volume * (1 - o.knee) * (1 - o.knee) / (4 * o.knee)
}

// ProcessSample ...
func (o *Overdrive) ProcessSample(in float64) float64 {
	x := in * o.drive
	neg := 1 - o.bias
	var y float64
	switch {
	case x > 1-o.knee:
		if x >= 1+o.knee {
			y = o.volume
		} else {
			y = o.c2*x*x + o.c1*x + o.c0
		}
	case x < -neg*(1-o.knee):
		if x <= -neg*(1+o.knee) {
			y = -neg * o.volume
		} else {
			y = -o.c2*x*x/neg + o.c1*x - o.c0*neg
		}
	default:
		y = x * o.volume
	}
	out := o.alpha*y + (1-o.alpha)*o.prev
	o.prev = out
	return out
}

// ----- Distortion ----- //

// Distortion is a waveshaper: gain * (3+a)x / (3 + a|x|).
type Distortion struct {
	Amount float64
	Gain   float64
}

// NewDistortion scales its output by 1/3.
func NewDistortion(amount float64) *Distortion {
	return &Distortion{Amount: amount, Gain: 1.0 / 3}
}

// ProcessSample ...
func (d *Distortion) ProcessSample(in float64) float64 {
	return d.Gain * (3 + d.Amount) * in / (3 + d.Amount*math.Abs(in))
}
