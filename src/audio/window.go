package audio

import (
	"math"
)

// ----- Window ----- //

// Window tapers a block before spectrum analysis.
type Window int

// Windows
const (
	WindowHann Window = iota
	WindowHamming
	WindowBlackman
)

// WindowFromString falls back to Hann.
func WindowFromString(s string) Window {
	switch s {
	case "hamming":
		return WindowHamming
	case "blackman":
		return WindowBlackman
	}
	return WindowHann
}

func (w Window) String() string {
	switch w {
	case WindowHamming:
		return "hamming"
	case WindowBlackman:
		return "blackman"
	}
	return "hann"
}

// Apply multiplies data by the window in place.
func (w Window) Apply(data []float64) {
	n := len(data)
	for i := 0; i < n; i++ {
		x := 2.0 * math.Pi * float64(i) / float64(n)
		data[i] *= w.at(x)
	}
}

func (w Window) at(x float64) float64 {
	switch w {
	case WindowHamming:
		return 0.54 - 0.46*math.Cos(x)
	case WindowBlackman:
		return 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
	}
	return 0.5 - 0.5*math.Cos(x)
}
