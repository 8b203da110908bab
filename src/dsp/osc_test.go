package dsp

import (
	"math"
	"testing"
)

func TestOscRange(t *testing.T) {
	cases := []struct {
		sampleRate int
		freq       float64
		phase      float64
	}{
		{48000, 440, 0},
		{48000, 1, -0.5},
		{48000, 23999, 0},
		{44100, 300, -2.25},
		{1, 1, 0},
		{1, 1, -0.75},
		{8000, 0.5, 3.6},
	}
	for _, c := range cases {
		kinds := []WaveKind{WaveSine, WaveSquare, WaveSaw, WaveTriangle, WavePWM}
		for _, kind := range kinds {
			o := NewOsc(kind, c.sampleRate, c.freq)
			o.SetDuty(0.3)
			o.SetPhase(c.phase)
			for i := 0; i < 10000; i++ {
				v := o.NextSample()
				if v < -1 || v > 1 {
					t.Fatalf("%v at %v Hz / %d from phase %v: sample %d out of range: %v", kind, c.freq, c.sampleRate, c.phase, i, v)
				}
			}
		}
		phasor := NewPhasor(c.sampleRate, c.freq, c.phase, 0.5)
		for i := 0; i < 10000; i++ {
			if v := phasor.NextSample(); v < 0 || v > 1 {
				t.Fatalf("phasor at %v Hz / %d from phase %v: sample %d out of range: %v", c.freq, c.sampleRate, c.phase, i, v)
			}
		}
	}
	ramps := NewRandRamps(seeded(), 48000, 5)
	for i := 0; i < 10000; i++ {
		if v := ramps.NextSample(); v < -1 || v > 1 {
			t.Fatalf("random ramp sample %d out of range: %v", i, v)
		}
	}
}

func TestOscNegativePhase(t *testing.T) {
	// -0.25 is the same point of the cycle as 0.75
	saw := NewOsc(WaveSaw, 4, 1)
	saw.SetPhase(-0.25)
	expectNearlyEqual(t, saw.NextSample(), 0.5)
	expectNearlyEqual(t, saw.NextSample(), -1)
	tri := NewOsc(WaveTriangle, 4, 1)
	tri.SetPhase(-1.5)
	expectNearlyEqual(t, tri.NextSample(), 1)
	phasor := NewPhasor(4, 1, -0.5, 1)
	expectNearlyEqual(t, phasor.NextSample(), 0.5)
	expectNearlyEqual(t, phasor.NextSample(), 0.75)
}

func TestSine(t *testing.T) {
	const rate = 48000
	const freq = 1000.0
	o := NewSineOsc(rate, freq)
	for n := 0; n < 2000; n++ {
		expected := math.Sin(2 * math.Pi * float64(n) * freq / rate)
		expectWithin(t, o.NextSample(), expected, 1e-6)
	}
}

func TestNaiveWaves(t *testing.T) {
	// a quarter of the sample rate visits phases 0, 0.25, 0.5, 0.75
	square := NewOsc(WaveSquare, 4, 1)
	saw := NewOsc(WaveSaw, 4, 1)
	tri := NewOsc(WaveTriangle, 4, 1)
	pwm := NewPWMOsc(4, 1, 0.3)
	expectedSquare := []float64{-1, -1, -1, 1}
	expectedSaw := []float64{-1, -0.5, 0, 0.5}
	expectedTri := []float64{-1, 0, 1, 0}
	expectedPWM := []float64{1, 1, -1, -1}
	for cycle := 0; cycle < 3; cycle++ {
		for i := 0; i < 4; i++ {
			expectNearlyEqual(t, square.NextSample(), expectedSquare[i])
			expectNearlyEqual(t, saw.NextSample(), expectedSaw[i])
			expectNearlyEqual(t, tri.NextSample(), expectedTri[i])
			expectNearlyEqual(t, pwm.NextSample(), expectedPWM[i])
		}
	}
}

func TestOscFrequencyClamp(t *testing.T) {
	o := NewSineOsc(48000, -10)
	expectNearlyEqual(t, o.Frequency(), 1)
	expectEqual(t, WaveKindFromString("triangle"), WaveTriangle)
	expectEqual(t, WaveKindFromString("???"), WaveSine)
}

func TestNoise(t *testing.T) {
	white := NewWhiteNoise(seeded())
	pink := NewPinkNoise(seeded())
	nonZero := false
	for i := 0; i < 10000; i++ {
		w := white.NextSample()
		if w < -1 || w > 1 {
			t.Fatalf("white noise out of range: %v", w)
		}
		p := pink.NextSample()
		if math.IsNaN(p) || math.Abs(p) > 2 {
			t.Fatalf("pink noise out of range: %v", p)
		}
		if p != 0 {
			nonZero = true
		}
	}
	expectEqual(t, nonZero, true)
	expectNearlyEqual(t, NewPinkNoise(constSource(0.5)).NextSample(), 0)
}
