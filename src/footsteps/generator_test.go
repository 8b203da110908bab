package footsteps

import (
	"math"
	"math/rand"
	"testing"
	"time"
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

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func rms(buf []float64) float64 {
	sum := 0.0
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func maxWindowRMS(buf []float64, window int) float64 {
	max := 0.0
	for i := 0; i+window <= len(buf); i += window {
		max = math.Max(max, rms(buf[i:i+window]))
	}
	return max
}

func expectInRange(t *testing.T, buf []float64) {
	t.Helper()
	for i, v := range buf {
		if v < -0.5 || v > 0.5 || math.IsNaN(v) {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

func expectNotSilent(t *testing.T, buf []float64) {
	t.Helper()
	for _, v := range buf {
		if math.Abs(v) > 1e-4 {
			return
		}
	}
	t.Fatalf("output is silent")
}

func TestGeneratorRendersSteps(t *testing.T) {
	g := NewGenerator(seeded(1))
	g.SetPace(600)
	g.PrepareModel(48000)
	buf := make([]float64, 4800)
	g.ExecuteModel(buf)
	expectInRange(t, buf)
	expectNotSilent(t, buf)
	first := rms(buf[:48])
	if peak := maxWindowRMS(buf, 48); peak <= 2*first {
		t.Errorf("no step onset: first window %v, loudest %v", first, peak)
	}
}

func TestGeneratorEverySurfaceAndShoe(t *testing.T) {
	for shoe := 0; shoe < NumShoes; shoe++ {
		for surface := 0; surface < NumSurfaces; surface++ {
			g := NewGenerator(seeded(int64(shoe*10 + surface)))
			g.SetShoeType(shoe)
			g.SetSurfaceType(surface)
			g.SetPace(300)
			g.PrepareModel(44100)
			buf := make([]float64, 8820)
			g.ExecuteModel(buf)
			expectInRange(t, buf)
			expectNotSilent(t, buf)
		}
	}
}

func TestGeneratorStairs(t *testing.T) {
	g := NewGenerator(seeded(2))
	g.SetTerrain(Stairs)
	g.SetPace(600)
	g.PrepareModel(48000)
	buf := make([]float64, 4800)
	g.ExecuteModel(buf)
	expectInRange(t, buf)
	expectNotSilent(t, buf)
}

func TestGeneratorSettersAreIdempotent(t *testing.T) {
	setup := func() *Generator {
		g := NewGenerator(seeded(7))
		g.SetShoeType(Oxford)
		g.SetSurfaceType(Concrete)
		g.SetPace(200)
		g.SetFirmness(0.4)
		g.SetSteadiness(0.3)
		g.PrepareModel(48000)
		return g
	}
	a := setup()
	b := setup()
	bufA := make([]float64, 1000)
	bufB := make([]float64, 1000)
	for block := 0; block < 10; block++ {
		b.SetShoeType(Oxford)
		b.SetSurfaceType(Concrete)
		b.SetTerrain(Flat)
		b.SetPace(200)
		b.SetFirmness(0.4)
		b.SetSteadiness(0.3)
		b.SetAutomated(true)
		a.ExecuteModel(bufA)
		b.ExecuteModel(bufB)
		for i := range bufA {
			if bufA[i] != bufB[i] {
				t.Fatalf("block %d sample %d differs: %v != %v", block, i, bufA[i], bufB[i])
			}
		}
	}
	for i := 0; i < 100; i++ {
		b.SetPace(200)
		expectEqual(t, a.NextOutputSample(), b.NextOutputSample())
	}
}

func TestGeneratorManualStep(t *testing.T) {
	g := NewGenerator(seeded(3))
	g.SetAutomated(false)
	g.PrepareModel(48000)

	buf := make([]float64, 12000)
	g.ExecuteModel(buf)
	quiet := rms(buf[len(buf)-480:])

	g.TriggerStep()
	expectNearlyEqual(t, g.stepTimer.Time(), 0.25)
	expectNearlyEqual(t, g.rollSpeed, 1.5)
	expectNearlyEqual(t, g.heelToBall[1], 0.63)
	expectEqual(t, g.stepCounter, 0.0)

	after := make([]float64, 2400)
	g.ExecuteModel(after)
	expectInRange(t, after)
	if loud := maxWindowRMS(after, 480); loud <= 10*quiet || loud < 1e-4 {
		t.Errorf("manual step not heard: quiet %v, loud %v", quiet, loud)
	}
}

func TestGeneratorAutomatedToggle(t *testing.T) {
	g := NewGenerator(seeded(4))
	g.PrepareModel(1000)
	expectEqual(t, g.stepTimer.Playing(), true)
	g.SetAutomated(false)
	expectEqual(t, g.stepTimer.Playing(), false)
	expectEqual(t, g.Automated(), false)
	for i := 0; i < 500; i++ {
		g.NextOutputSample()
	}
	expectNearlyEqual(t, g.stepCounter, 0.5)
	g.SetAutomated(true)
	expectEqual(t, g.stepTimer.Playing(), true)
	expectNearlyEqual(t, g.stepTimer.Time(), 60/defaultPace)
}

func TestGeneratorSurfaceChangeWaitsForStep(t *testing.T) {
	g := NewGenerator(seeded(5))
	g.SetAutomated(false)
	g.PrepareModel(48000)
	expectEqual(t, g.crunch.enabled, false)
	expectNearlyEqual(t, g.filtersOut, 1.6)

	g.SetSurfaceType(Dirt)
	expectEqual(t, g.SurfaceType(), Dirt)
	expectEqual(t, g.crunch.enabled, false)

	g.TriggerStep()
	expectEqual(t, g.crunch.enabled, true)
	expectNearlyEqual(t, g.filtersOut, 0.1)
	expectNearlyEqual(t, g.crunch.out, 0.25)
	expectEqual(t, g.surface, surfaces[Dirt].envelope)
}

func TestGeneratorUnknownSurface(t *testing.T) {
	g := NewGenerator(seeded(5))
	g.SetSurfaceType(Concrete)
	g.PrepareModel(48000)
	expectEqual(t, g.crunch.enabled, true)
	expectNearlyEqual(t, g.filtersOut, 0.8)

	gain := g.filters.Gain(0)
	g.SetSurfaceType(99)
	g.TriggerStep()
	expectEqual(t, g.crunch.enabled, false)
	expectEqual(t, g.crunch.out, 0.0)
	expectNearlyEqual(t, g.filtersOut, 0.8)
	expectEqual(t, g.surface, SurfaceEnvelope{})
	expectEqual(t, g.filters.Gain(0), gain)

	buf := make([]float64, 4800)
	g.ExecuteModel(buf)
	expectInRange(t, buf)
}

func TestGeneratorShoeChange(t *testing.T) {
	g := NewGenerator(seeded(6))
	g.SetShoeType(WorkBoot)
	expectEqual(t, g.shoe, shoes[Trainer])
	g.PrepareModel(48000)
	expectEqual(t, g.shoe, shoes[WorkBoot])
	g.SetShoeType(42)
	expectEqual(t, g.shoe, shoes[Trainer])
}

func TestGeneratorParameterClamps(t *testing.T) {
	g := NewGenerator(seeded(8))
	g.SetPace(-10)
	expectNearlyEqual(t, g.Pace(), 1)
	g.SetFirmness(2)
	expectNearlyEqual(t, g.Firmness(), 1)
	expectNearlyEqual(t, g.firmness.target, 0)
	g.SetFirmness(0.25)
	expectNearlyEqual(t, g.Firmness(), 0.25)
	expectNearlyEqual(t, g.firmness.target, 0.75)
	g.SetSteadiness(-1)
	expectNearlyEqual(t, g.Steadiness(), 0)
}

func TestGeneratorBeforePrepare(t *testing.T) {
	g := NewGenerator(seeded(9))
	g.TriggerStep()
	g.SetAutomated(false)
	expectEqual(t, g.NextOutputSample(), 0.0)
	buf := []float64{1, 1, 1}
	g.ExecuteModel(buf)
	expectEqual(t, buf[0], 0.0)
	expectEqual(t, g.SampleRate(), 0)
	expectEqual(t, g.Duration(), 100*time.Millisecond)
}

func TestGeneratorPaceRampsAcrossBlock(t *testing.T) {
	g := NewGenerator(seeded(10))
	g.SetPace(100)
	g.PrepareModel(1000)
	g.SetPace(200)
	expectNearlyEqual(t, g.pace.value, 100)
	buf := make([]float64, 10)
	g.ExecuteModel(buf)
	expectNearlyEqual(t, g.pace.value, 200)
	expectEqual(t, g.pace.remaining, 0)
}

func TestGeneratorNoAllocs(t *testing.T) {
	g := NewGenerator(seeded(11))
	g.SetSurfaceType(Grass)
	g.SetPace(900)
	g.PrepareModel(48000)
	buf := make([]float64, 512)
	g.ExecuteModel(buf)
	allocs := testing.AllocsPerRun(50, func() {
		g.ExecuteModel(buf)
	})
	expectEqual(t, allocs, 0.0)
}

func TestRamp(t *testing.T) {
	r := newRamp(0)
	expectEqual(t, r.set(0), false)
	expectEqual(t, r.set(10), true)
	r.begin(4)
	for _, expected := range []float64{0, 2.5, 5, 7.5} {
		expectNearlyEqual(t, r.value, expected)
		r.advance()
	}
	expectEqual(t, r.value, 10.0)
	expectEqual(t, r.remaining, 0)

	r.set(20)
	r.settle()
	expectEqual(t, r.value, 20.0)

	r.set(0)
	r.begin(0)
	expectEqual(t, r.value, 0.0)
}

func TestPaceModifiers(t *testing.T) {
	roll, ratio := paceModifiers(60)
	expectNearlyEqual(t, roll, 22-(4.0/15)*60)
	expectEqual(t, ratio, [2]float64{0.5, 0.4})
	roll, ratio = paceModifiers(90)
	expectNearlyEqual(t, roll, 165.0/90)
	expectEqual(t, ratio, [2]float64{1, 0.8})
	roll, ratio = paceModifiers(120)
	expectNearlyEqual(t, roll, 1.5)
	expectEqual(t, ratio, [2]float64{1, 0.63})
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestAddVariation(t *testing.T) {
	base := shoes[WorkBoot]
	expectEqual(t, addVariation(fixedSource(0.5), base), base)
	low := addVariation(fixedSource(0), base)
	expectNearlyEqual(t, low.HeelGain, base.HeelGain*0.98)
	expectNearlyEqual(t, low.BallGain, base.BallGain*0.85)
	expectNearlyEqual(t, low.HeelDecay, base.HeelDecay*0.9)
	expectNearlyEqual(t, low.StepSeparation, base.StepSeparation*0.95)
}

func TestTableFallbacks(t *testing.T) {
	expectEqual(t, shoeFor(-1), shoes[Trainer])
	_, ok := surfaceFor(6)
	expectEqual(t, ok, false)
	expectEqual(t, Mode(99).Count, 9)
	expectEqual(t, Mode(Grass).Count, 3)
	expectEqual(t, ShoeName(HighHeel), "highheel")
	expectEqual(t, ShoeName(12), "trainer")
	expectEqual(t, SurfaceName(HollowWood), "hollowwood")
	expectEqual(t, TerrainName(Stairs), "stairs")
	i, ok := SurfaceFromName("metal")
	expectEqual(t, i, Metal)
	expectEqual(t, ok, true)
	_, ok = TerrainFromName("hill")
	expectEqual(t, ok, false)
}

func expectClose(t *testing.T, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > 1e-9*math.Max(1, math.Abs(expected)) {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectAllClose(t *testing.T, name string, actual, expected []float64) {
	t.Helper()
	for i := range expected {
		if math.Abs(actual[i]-expected[i]) > 1e-9*math.Max(1, math.Abs(expected[i])) {
			t.Errorf("%s[%d]: expected %v, but got: %v", name, i, expected[i], actual[i])
		}
	}
}

func TestStepEnvelopeLowestDraws(t *testing.T) {
	// trainer on wood at 82 steps per minute, firmness 0.3
	g := NewGenerator(fixedSource(0))
	g.PrepareModel(48000)
	expectClose(t, g.rollSpeed, (255-82)/90.0)
	expectAllClose(t, "heelValues", g.heelValues[:], []float64{0, 0.98, 0.0105, 0})
	expectAllClose(t, "ballValues", g.ballValues[:], []float64{0, 0.34, 0, 0})
	expectAllClose(t, "heelTimes", g.heelTimes[:], []float64{0.00095, 0.009, 0.005695})
	expectAllClose(t, "ballTimes", g.ballTimes[:], []float64{0.0009, 0.018, 0.000095})
	expectClose(t, g.separationDelay.DelayTime(), 38*(1+g.rollSpeed/10)*1.15/1000)
}

func TestStepEnvelopeHighestDraws(t *testing.T) {
	// oxford on metal, running with a firm step
	g := NewGenerator(fixedSource(1))
	g.SetShoeType(Oxford)
	g.SetSurfaceType(Metal)
	g.SetPace(140)
	g.SetFirmness(0.8)
	g.PrepareModel(48000)
	expectClose(t, g.rollSpeed, 1.5)
	expectAllClose(t, "heelValues", g.heelValues[:], []float64{0, 1.02, 0.112, 0})
	expectAllClose(t, "ballValues", g.ballValues[:], []float64{0, 0.7245, 0.302, 0})
	expectAllClose(t, "heelTimes", g.heelTimes[:], []float64{0.000105, 0.0033, 0.012505})
	expectAllClose(t, "ballTimes", g.ballTimes[:], []float64{0.0011, 0.0055, 0.031})
	expectClose(t, g.separationDelay.DelayTime(), 0.06762)
}

func TestStepEnvelopeStairs(t *testing.T) {
	g := NewGenerator(fixedSource(0))
	g.SetShoeType(Oxford)
	g.SetSurfaceType(Dirt)
	g.SetTerrain(Stairs)
	g.PrepareModel(48000)
	// ball values drive the heel envelope, sustain is scaled down and
	// the attack comes from the shoe alone
	expectAllClose(t, "heelValues", g.heelValues[:], []float64{0, 0.68, 0.000348, 0})
	expectAllClose(t, "heelTimes", g.heelTimes[:], []float64{0.0009, 0.0075, 0.039})
	expectEqual(t, g.ballValues, [4]float64{})
	expectEqual(t, g.ballTimes, [3]float64{})
	expectClose(t, g.separationDelay.DelayTime(), 0.02)
}

func TestCrunchGrainRanges(t *testing.T) {
	cases := []struct {
		surface int
		src     fixedSource
		freq    float64
		q       float64
		values  []float64
		times   []float64
		next    float64
	}{
		// freq1, Q 3 and delay1 at the bottom of each range
		{Concrete, 0, 1000, 3, []float64{0, 0.7, 0}, []float64{0.0001, 0.0102}, 0.02},
		{Dirt, 0, 200, 3, []float64{0, 0.7, 0}, []float64{0.0001, 0.0102}, 0.02},
		// 2*freq1-freq2, Q 10 and 2*delay1-delay2 at the top
		{Concrete, 1, 1800, 10, []float64{0, 1.7, 0}, []float64{0.0002, 0.0444}, 0.036},
		{Grass, 1, 2200, 10, []float64{0, 1.7, 0}, []float64{0.0002, 0.0444}, 0.036},
	}
	for _, c := range cases {
		g := NewGenerator(c.src)
		g.SetSurfaceType(c.surface)
		g.PrepareModel(48000)
		expectClose(t, g.crunchBP.Frequency(), c.freq)
		expectClose(t, g.crunchBP.QFactor(), c.q)
		expectAllClose(t, SurfaceName(c.surface)+" values", g.crunchValues[:], c.values)
		expectAllClose(t, SurfaceName(c.surface)+" times", g.crunchTimes[:], c.times)
		expectClose(t, g.crunchTimer.Time(), c.next)
	}
}
