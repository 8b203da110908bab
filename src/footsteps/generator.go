// Package footsteps synthesizes footstep sounds from a handful of high-level
// parameters. A Generator mixes heel and ball strikes shaped by curve
// envelopes over surface-tuned filtered noise and an optional crunch layer.
package footsteps

import (
	"math"
	"time"

	"github.com/jinjor/footsteps/src/dsp"
)

// nominalDuration is the length of one footstep clip as reported to hosts.
const nominalDuration = 100 * time.Millisecond

const (
	defaultPace       = 82.0
	defaultFirmness   = 0.3
	defaultSteadiness = 0.1

	outputGain = 40.0
	outputTrim = 0.8
	outputMax  = 0.5
)

// ----- Generator ----- //

// Generator is the footstep model. It is not safe for concurrent use: the
// caller must serialize setters with ExecuteModel and NextOutputSample.
type Generator struct {
	src        dsp.Source
	sampleRate int
	prepared   bool

	shoeType    int
	surfaceType int
	terrain     int
	automated   bool
	pace        *ramp
	firmness    *ramp // stored inverted
	steadiness  *ramp

	surfaceChanged bool

	heelEnv         *dsp.CurveEnvelope
	ballEnv         *dsp.CurveEnvelope
	noise           *dsp.WhiteNoise
	highpass        *dsp.Biquad
	filters         *dsp.FilterBank
	distortion      *dsp.Distortion
	crunchBP        *dsp.Biquad
	crunchEnv       *dsp.CurveEnvelope
	separationDelay *dsp.Delay
	stepTimer       *dsp.Timer
	crunchTimer     *dsp.Timer
	outHP           *dsp.Biquad
	outLP           *dsp.Biquad

	shoe         ShoeEnvelope
	surface      SurfaceEnvelope
	crunch       crunch
	filtersOut   float64
	rollSpeed    float64
	heelToBall   [2]float64
	stepCounter  float64
	lastOut      float64
	heelValues   [4]float64
	ballValues   [4]float64
	heelTimes    [3]float64
	ballTimes    [3]float64
	crunchValues [3]float64
	crunchTimes  [2]float64
}

// NewGenerator creates a generator drawing all of its randomness from src.
// A nil src is replaced by a clock-seeded one.
func NewGenerator(src dsp.Source) *Generator {
	if src == nil {
		src = dsp.NewSource()
	}
	return &Generator{
		src:        src,
		automated:  true,
		pace:       newRamp(defaultPace),
		firmness:   newRamp(1 - defaultFirmness),
		steadiness: newRamp(defaultSteadiness),
		shoe:       shoeFor(Trainer),
		filtersOut: 1,
		rollSpeed:  1.92,
		heelToBall: [2]float64{0.8, 0.5},
	}
}

// PrepareModel builds every unit for sampleRate and schedules the first step.
// It must be called before any sample is produced and may be called again to
// change the sample rate.
func (g *Generator) PrepareModel(sampleRate int) {
	if sampleRate < 1 {
		sampleRate = 1
	}
	g.sampleRate = sampleRate
	g.pace.init(g.pace.target)
	g.firmness.init(g.firmness.target)
	g.steadiness.init(g.steadiness.target)

	g.heelEnv = dsp.NewCurveEnvelopeWithTimes(sampleRate, nil, nil)
	g.ballEnv = dsp.NewCurveEnvelopeWithTimes(sampleRate, nil, nil)
	g.noise = dsp.NewWhiteNoise(g.src)
	g.highpass = dsp.NewBiquad(sampleRate, 1000, 1, 0, dsp.Highpass)
	g.outHP = dsp.NewBiquad(sampleRate, 100, 1, 0, dsp.Highpass)
	g.outLP = dsp.NewBiquad(sampleRate, 10000, 1, 0, dsp.Lowpass)
	g.filters = dsp.NewFilterBank(g.src, sampleRate, dsp.MaxModes)
	g.filters.InitialiseFilterBank(Mode(Wood))
	g.filters.UnmuteWithGain(0.6)
	g.distortion = dsp.NewDistortion(200)
	g.crunchBP = dsp.NewBiquad(sampleRate, 500, 3, 0, dsp.Bandpass)
	g.crunchEnv = dsp.NewCurveEnvelopeWithTimes(sampleRate, nil, nil)
	g.separationDelay = dsp.NewDelay(sampleRate, 0.02)
	g.crunchTimer = dsp.NewTimer(sampleRate, 0.1)
	g.crunchTimer.ResumeTimer()
	g.stepTimer = dsp.NewTimer(sampleRate, 60/g.pace.value)
	g.lastOut = 0

	g.prepared = true
	g.updatePaceModifiers(g.pace.value)
	g.updateShoeModifiers(g.shoeType)
	g.updateSurfaceModifiers(g.surfaceType)
	g.surfaceChanged = false
	g.updateStepEnvelope()

	if g.automated {
		g.stepTimer.ResetTimer()
		g.stepTimer.ResumeTimer()
	}
	g.stepCounter = 0
}

// Duration returns the nominal clip length. It does not depend on the
// parameters.
func (g *Generator) Duration() time.Duration {
	return nominalDuration
}

// SampleRate returns the rate given to PrepareModel, or 0 before it.
func (g *Generator) SampleRate() int {
	return g.sampleRate
}

// ExecuteModel fills buf, ramping pace, firmness and steadiness linearly from
// their previous values to the latest targets across the block.
func (g *Generator) ExecuteModel(buf []float64) {
	if !g.prepared {
		for i := range buf {
			buf[i] = 0
		}
		return
	}
	frames := len(buf)
	g.pace.begin(frames)
	g.firmness.begin(frames)
	g.steadiness.begin(frames)
	for i := range buf {
		buf[i] = g.next()
		g.pace.advance()
		g.firmness.advance()
		g.steadiness.advance()
	}
}

// NextOutputSample produces one sample. Parameters set since the last call
// apply immediately unless a block ramp is still running.
func (g *Generator) NextOutputSample() float64 {
	if !g.prepared {
		return 0
	}
	g.pace.settle()
	g.firmness.settle()
	g.steadiness.settle()
	return g.next()
}

// TriggerStep starts a step now. In manual mode the time since the previous
// step sets the pace modifiers and the step interval.
func (g *Generator) TriggerStep() {
	if !g.prepared {
		return
	}
	g.updateStepEnvelope()
	if g.automated {
		g.scheduleStep()
	}
}

func (g *Generator) next() float64 {
	if g.automated {
		if g.stepTimer.CheckTime() {
			g.updateStepEnvelope()
			g.scheduleStep()
		}
	} else {
		g.stepCounter += 1 / float64(g.sampleRate)
	}

	if g.crunch.enabled && g.crunchTimer.CheckTime() {
		g.crunchLoop()
	}

	noise := g.noise.NextSample()
	filtered := g.filtersOut * g.filters.ProcessSample(noise)
	crunch := g.crunch.out * g.crunchEnv.Next() * g.crunchBP.ProcessSample(g.distortion.ProcessSample(noise))
	heel := g.heelEnv.Next() * (filtered + crunch)
	ball := g.separationDelay.ProcessSample(g.highpass.ProcessSample(g.ballEnv.Next() * (filtered + crunch)))

	g.lastOut = g.outLP.ProcessSample(g.outHP.ProcessSample(outputGain * (heel + ball)))
	return dsp.Clamp(outputTrim*g.lastOut, -outputMax, outputMax)
}

func (g *Generator) scheduleStep() {
	g.stepTimer.SetTime(dsp.Vary(g.src, 60/g.pace.value, g.steadiness.value))
	g.stepTimer.ResetTimer()
	g.stepTimer.ResumeTimer()
}

// ----- Parameters ----- //

// SetShoeType selects the shoe archetype. Unknown values behave as Trainer.
func (g *Generator) SetShoeType(shoe int) {
	if g.shoeType == shoe {
		return
	}
	g.shoeType = shoe
	if g.prepared {
		g.updateShoeModifiers(shoe)
	}
}

// SetSurfaceType selects the surface. The change is heard from the next step.
// An unknown surface keeps the current resonances and filter level but has no
// surface envelope and no crunch layer.
func (g *Generator) SetSurfaceType(surface int) {
	if g.surfaceType == surface {
		return
	}
	g.surfaceType = surface
	g.surfaceChanged = true
}

// SetTerrain selects Flat or Stairs. Unknown values behave as Flat.
func (g *Generator) SetTerrain(terrain int) {
	g.terrain = terrain
}

// SetPace sets the walking pace in steps per minute (at least 1).
func (g *Generator) SetPace(pace float64) {
	g.pace.set(math.Max(pace, 1))
}

// SetFirmness takes 0 (soft) to 1 (firm).
func (g *Generator) SetFirmness(firmness float64) {
	g.firmness.set(1 - dsp.Clamp(firmness, 0, 1))
}

// SetSteadiness takes 0 (metronomic) to 1 (irregular).
func (g *Generator) SetSteadiness(steadiness float64) {
	g.steadiness.set(dsp.Clamp(steadiness, 0, 1))
}

// SetAutomated switches between self-timed steps and TriggerStep.
func (g *Generator) SetAutomated(automated bool) {
	if g.automated == automated {
		return
	}
	g.automated = automated
	if !g.prepared {
		return
	}
	if automated {
		g.stepTimer.SetTime(60 / g.pace.target)
		g.stepTimer.ResetTimer()
		g.stepTimer.ResumeTimer()
	} else {
		g.stepTimer.PauseTimer()
		g.stepCounter = 0
	}
}

// ShoeType ...
func (g *Generator) ShoeType() int { return g.shoeType }

// SurfaceType ...
func (g *Generator) SurfaceType() int { return g.surfaceType }

// Terrain ...
func (g *Generator) Terrain() int { return g.terrain }

// Pace returns the target pace.
func (g *Generator) Pace() float64 { return g.pace.target }

// Firmness returns the target firmness in the same sense as SetFirmness.
func (g *Generator) Firmness() float64 { return 1 - g.firmness.target }

// Steadiness returns the target steadiness.
func (g *Generator) Steadiness() float64 { return g.steadiness.target }

// Automated ...
func (g *Generator) Automated() bool { return g.automated }

// ----- Modifiers ----- //

func (g *Generator) updatePaceModifiers(pace float64) {
	g.rollSpeed, g.heelToBall = paceModifiers(pace)
}

func (g *Generator) updateShoeModifiers(shoe int) {
	g.shoe = shoeFor(shoe)
}

func (g *Generator) updateSurfaceModifiers(surface int) {
	s, ok := surfaceFor(surface)
	if ok {
		g.filters.InitialiseFilterBank(s.mode)
		g.filtersOut = s.filtersOut
	}
	g.surface = s.envelope
	g.crunch = s.crunch
	if g.crunch.enabled {
		g.crunchLoop()
	}
}

func (g *Generator) varyFilterBank() {
	if s, ok := surfaceFor(g.surfaceType); ok {
		g.filters.VaryParameters(s.mode)
	}
}

// crunchLoop schedules one grain of the crunch layer.
func (g *Generator) crunchLoop() {
	c := g.crunch
	g.crunchBP.SetFrequency(g.src.Float64()*(c.freq1-c.freq2) + c.freq1)
	g.crunchBP.SetQFactor(g.src.Float64()*7 + 3)
	g.crunchEnv.Reset()
	g.crunchValues = [3]float64{0, g.src.Float64() + 0.7, 0}
	g.crunchEnv.SetValues(g.crunchValues[:])
	g.crunchTimes[0] = g.src.Float64()*0.0001 + 0.0001
	g.crunchTimes[1] = g.src.Float64()*0.0342 + 0.0102
	g.crunchEnv.SetTimes(g.crunchTimes[:])
	g.crunchTimer.SetTime((c.delay1 + g.src.Float64()*(c.delay1-c.delay2)) / 1000)
	g.crunchTimer.ResetTimer()
}

// updateStepEnvelope is the per-step cycle.
func (g *Generator) updateStepEnvelope() {
	if g.surfaceChanged {
		g.surfaceChanged = false
		g.updateSurfaceModifiers(g.surfaceType)
	}
	g.varyFilterBank()

	if g.automated {
		g.updatePaceModifiers(g.pace.value)
	} else {
		if g.stepCounter > 0 {
			g.updatePaceModifiers(60 / g.stepCounter)
			g.stepTimer.SetTime(g.stepCounter)
		}
		g.stepCounter = 0
	}

	shoe := addVariation(g.src, g.shoe)
	surface := g.surface
	firmness := g.firmness.value

	if g.terrain != Stairs {
		heelSustain := shoe.HeelSustain + surface.HeelSustain + 0.05*dsp.Vary(g.src, firmness, firmness)
		heelRelease := shoe.HeelRelease + surface.HeelRelease + 10*dsp.Vary(g.src, firmness, 0.2)
		g.heelValues = [4]float64{0, shoe.HeelGain * g.heelToBall[0], heelSustain, 0}
		g.ballValues = [4]float64{0, shoe.BallGain * g.heelToBall[1], shoe.BallSustain + surface.BallSustain, 0}
		g.heelTimes = [3]float64{
			(shoe.HeelAttack + surface.HeelAttack) / 1000,
			(shoe.HeelDecay + surface.HeelDecay) / 1000,
			heelRelease / 1000,
		}
		g.ballTimes = [3]float64{
			(shoe.BallAttack + surface.BallAttack) / 1000,
			(shoe.BallDecay + surface.BallDecay) / 1000,
			(shoe.BallRelease + surface.BallRelease) / 1000,
		}
		separation := shoe.StepSeparation * (1 + g.rollSpeed/10) * (1.5 - 0.5*firmness) / 1000

		g.heelEnv.SetValues(g.heelValues[:])
		g.ballEnv.SetValues(g.ballValues[:])
		g.heelEnv.SetTimes(g.heelTimes[:])
		g.ballEnv.SetTimes(g.ballTimes[:])
		g.heelEnv.Reset()
		g.ballEnv.Reset()
		g.separationDelay.SetDelay(separation)
		return
	}

	// stairs: the ball lands alone
	g.heelValues = [4]float64{0, shoe.BallGain * g.heelToBall[1], (shoe.BallSustain + surface.BallSustain) / 1000, 0}
	g.heelTimes = [3]float64{
		shoe.BallAttack / 1000,
		(shoe.BallDecay + surface.BallDecay) / 1000,
		(shoe.BallRelease + surface.BallRelease) / 1000,
	}
	g.heelEnv.SetValues(g.heelValues[:])
	g.heelEnv.SetTimes(g.heelTimes[:])
	g.heelEnv.Reset()
}
