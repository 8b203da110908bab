// Package dsp is a small library of per-sample audio units: oscillators,
// noise, envelopes, filters, nonlinear processors, delays and timers.
//
// Every unit is constructed with the sample rate it runs at and produces one
// sample per call. Parameters are clamped silently instead of returning errors.
package dsp

import (
	"math"
	"math/rand"
	"time"
)

// Source is a uniform random source in [0, 1).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a Source seeded from the clock.
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// ----- Utility ----- //

// Clamp ...
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Vary returns value scaled by a random factor in [1-amount, 1+amount].
func Vary(src Source, value, amount float64) float64 {
	return value * (1 + amount*(2*src.Float64()-1))
}

// Rescale maps value from [oldMin, oldMax] onto [newMin, newMax].
// Values outside the old range are clamped first.
func Rescale(value, newMin, newMax, oldMin, oldMax float64) float64 {
	if oldMax == oldMin {
		oldMin -= 0.01
	}
	if oldMin > oldMax {
		oldMin, oldMax = oldMax, oldMin
	}
	value = Clamp(value, oldMin, oldMax)
	return newMin + (value-oldMin)*(newMax-newMin)/(oldMax-oldMin)
}

// PureDataFreq converts a frequency the way Pure Data's one-pole filters do.
func PureDataFreq(sampleRate int, freq float64) float64 {
	sr := float64(sampleRate)
	x := 1 - 2*math.Pi*freq/sr
	return sr / (2 * math.Pi) * math.Acos(2*x/(1+x*x))
}

// CustomMapping maps [-1, 1] exponentially onto (0.0001, 900).
func CustomMapping(x float64) float64 {
	return 0.3 * math.Pow(3000.7, x)
}

func secPerSample(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return 1 / float64(sampleRate)
}

func nyquist(sampleRate int) float64 {
	return float64(sampleRate) / 2
}
