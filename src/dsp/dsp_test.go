package dsp

import (
	"math"
	"math/rand"
	"testing"
)

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNearlyEqual(t *testing.T, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > 0.0001 {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectWithin(t *testing.T, actual, expected, tolerance float64) {
	t.Helper()
	if math.Abs(actual-expected) > tolerance {
		t.Errorf("expected %v (±%v), but got: %v", expected, tolerance, actual)
	}
}

// constSource always returns the same "random" value.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func seeded() Source {
	return rand.New(rand.NewSource(1))
}

func TestVary(t *testing.T) {
	expectNearlyEqual(t, Vary(constSource(0.5), 10, 0.2), 10)
	expectNearlyEqual(t, Vary(constSource(0), 10, 0.2), 8)
	expectNearlyEqual(t, Vary(constSource(1), 10, 0.2), 12)
	src := seeded()
	for i := 0; i < 1000; i++ {
		v := Vary(src, 60, 0.1)
		if v < 54 || v > 66 {
			t.Fatalf("Vary out of range: %v", v)
		}
	}
}

func TestRescale(t *testing.T) {
	expectNearlyEqual(t, Rescale(5, 0, 1, 0, 10), 0.5)
	expectNearlyEqual(t, Rescale(-3, 0, 1, 0, 10), 0)
	expectNearlyEqual(t, Rescale(64, 30, 200, 0, 127), 30+64*170.0/127)
	v := Rescale(1, 0, 1, 1, 1)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		t.Errorf("collapsed range should not produce %v", v)
	}
}

func TestMappings(t *testing.T) {
	expectNearlyEqual(t, CustomMapping(0), 0.3)
	expectNearlyEqual(t, CustomMapping(1), 0.3*3000.7)
	f := PureDataFreq(48000, 100)
	if math.Abs(f-100) > 1 {
		t.Errorf("expected about 100Hz, but got: %v", f)
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer(1000, 0.0105)
	for i := 0; i < 20; i++ {
		expectEqual(t, timer.CheckTime(), false)
	}
	timer.ResumeTimer()
	for i := 0; i < 11; i++ {
		expectEqual(t, timer.CheckTime(), false)
	}
	expectEqual(t, timer.CheckTime(), true)
	expectEqual(t, timer.CheckTime(), true)
	timer.ResetTimer()
	expectEqual(t, timer.CheckTime(), false)
	timer.PauseTimer()
	timer.SetTime(-1)
	expectNearlyEqual(t, timer.Time(), 0)
	expectEqual(t, timer.CheckTime(), false)
}

func TestRMS(t *testing.T) {
	r := NewRMS(4)
	expectNearlyEqual(t, r.ProcessSample(0.5), 0)
	expectNearlyEqual(t, r.ProcessSample(-0.5), 0)
	expectNearlyEqual(t, r.ProcessSample(0.5), 0)
	expectNearlyEqual(t, r.ProcessSample(-0.5), 0.5)
	expectNearlyEqual(t, r.ProcessSample(0), 0.5)
	expectNearlyEqual(t, NewRMS(0).ProcessSample(-2), 2)
}

func TestPulse(t *testing.T) {
	p := NewPulse(constSource(0.5), 48000)
	for i := 0; i < pulseCheckInterval-1; i++ {
		expectNearlyEqual(t, p.ProcessSample(0.5), 0)
	}
	expectNearlyEqual(t, p.ProcessSample(0.5), 1)
	prev := 1.0
	for i := 0; i < 100; i++ {
		v := p.ProcessSample(0)
		if v >= prev {
			t.Fatalf("pulse should decay, but got %v after %v", v, prev)
		}
		prev = v
	}
}
