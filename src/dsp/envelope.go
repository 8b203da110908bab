package dsp

import "math"

const minEnvelopeTime = 0.0001 // sec
const snapThreshold = 0.005

// Envelope is a triggered control signal. Before the first Reset it holds
// its resting value.
type Envelope interface {
	Reset()
	Next() float64
}

var (
	_ Envelope = (*ADSR)(nil)
	_ Envelope = (*ASR)(nil)
	_ Envelope = (*ExpEnvelope)(nil)
	_ Envelope = (*ExpEnvelope2)(nil)
	_ Envelope = (*ExpTarget)(nil)
	_ Envelope = (*LinRamp)(nil)
	_ Envelope = (*CurveEnvelope)(nil)
)

// ----- Linear ADSR ----- //

// ADSR is a linear attack-hold-decay-sustain-release envelope. All times are
// in seconds; sustain is a level.
type ADSR struct {
	attack  float64
	hold    float64
	decay   float64
	sustain float64
	release float64
	min     float64
	max     float64
	pos     float64
	posInc  float64
	started bool
}

// NewADSR ...
func NewADSR(sampleRate int, attack, hold, decay, sustain, release float64) *ADSR {
	return NewADSRWithRange(sampleRate, attack, hold, decay, sustain, release, 0, 1)
}

// NewADSRWithRange ...
func NewADSRWithRange(sampleRate int, attack, hold, decay, sustain, release, min, max float64) *ADSR {
	e := &ADSR{
		min:    min,
		max:    max,
		posInc: 1 / float64(maxInt(sampleRate, 1)),
	}
	e.SetAttack(attack)
	e.SetHold(hold)
	e.SetDecay(decay)
	e.SetSustain(sustain)
	e.SetRelease(release)
	return e
}

func (e *ADSR) SetAttack(attack float64)   { e.attack = math.Max(attack, minEnvelopeTime) }
func (e *ADSR) SetHold(hold float64)       { e.hold = math.Max(hold, 0) }
func (e *ADSR) SetDecay(decay float64)     { e.decay = math.Max(decay, minEnvelopeTime) }
func (e *ADSR) SetSustain(sustain float64) { e.sustain = Clamp(sustain, e.min, e.max) }
func (e *ADSR) SetRelease(release float64) { e.release = math.Max(release, minEnvelopeTime) }
func (e *ADSR) SetMin(min float64)         { e.min = min }
func (e *ADSR) SetMax(max float64)         { e.max = max }

// Reset ...
func (e *ADSR) Reset() {
	e.pos = 0
	e.started = true
}

// Next ...
func (e *ADSR) Next() float64 {
	if !e.started {
		return e.min
	}
	holdEnd := e.attack + e.hold
	decayEnd := holdEnd + e.decay
	end := decayEnd + e.release
	var value float64
	switch {
	case e.pos <= e.attack:
		value = e.min + (e.max-e.min)*e.pos/e.attack
	case e.pos <= holdEnd:
		value = e.max
	case e.pos <= decayEnd:
		value = e.max + (e.sustain-e.max)*(e.pos-holdEnd)/e.decay
	case e.pos <= end:
		value = e.sustain + (e.min-e.sustain)*(e.pos-decayEnd)/e.release
	default:
		value = e.min
	}
	if e.pos <= end {
		e.pos += e.posInc
	}
	return value
}

// ----- Linear ASR ----- //

// ASR ramps start -> attack level, holds the sustain level, then ramps to
// the end level.
type ASR struct {
	attackTime   float64
	sustainTime  float64
	releaseTime  float64
	attackLevel  float64
	sustainLevel float64
	startLevel   float64
	endLevel     float64
	pos          float64
	posInc       float64
	started      bool
}

// NewASR ...
func NewASR(sampleRate int, attack, sustain, release float64) *ASR {
	return NewASRWithLevels(sampleRate, attack, sustain, release, 1, 0.2, 0, 0)
}

// NewASRWithLevels ...
func NewASRWithLevels(sampleRate int, attack, sustain, release, attackLevel, sustainLevel, startLevel, endLevel float64) *ASR {
	e := &ASR{
		attackLevel:  attackLevel,
		sustainLevel: sustainLevel,
		startLevel:   startLevel,
		endLevel:     endLevel,
		posInc:       1 / float64(maxInt(sampleRate, 1)),
	}
	e.SetAttack(attack)
	e.SetSustain(sustain)
	e.SetRelease(release)
	return e
}

func (e *ASR) SetAttack(t float64)  { e.attackTime = math.Max(t, minEnvelopeTime) }
func (e *ASR) SetSustain(t float64) { e.sustainTime = math.Max(t, minEnvelopeTime) }
func (e *ASR) SetRelease(t float64) { e.releaseTime = math.Max(t, minEnvelopeTime) }

// Level setters keep levels strictly positive.
func (e *ASR) SetAttackLevel(v float64)  { e.attackLevel = math.Max(v, minEnvelopeTime) }
func (e *ASR) SetSustainLevel(v float64) { e.sustainLevel = math.Max(v, minEnvelopeTime) }
func (e *ASR) SetStartLevel(v float64)   { e.startLevel = math.Max(v, minEnvelopeTime) }
func (e *ASR) SetEndLevel(v float64)     { e.endLevel = math.Max(v, minEnvelopeTime) }

// Reset ...
func (e *ASR) Reset() {
	e.pos = 0
	e.started = true
}

// Next ...
func (e *ASR) Next() float64 {
	if !e.started {
		return e.startLevel
	}
	sustainEnd := e.attackTime + e.sustainTime
	end := sustainEnd + e.releaseTime
	var value float64
	switch {
	case e.pos <= e.attackTime:
		value = e.startLevel + e.pos*(e.attackLevel-e.startLevel)/e.attackTime
	case e.pos <= sustainEnd:
		value = e.sustainLevel
	case e.pos <= end:
		value = e.sustainLevel + (e.pos-sustainEnd)*(e.endLevel-e.sustainLevel)/e.releaseTime
	default:
		value = e.endLevel
	}
	if e.pos <= end {
		e.pos += e.posInc
	}
	return value
}

// ----- Exponential Envelope ----- //

// ExpEnvelope approaches each stage's target with a one-pole smoother.
// Attack and decay times are divided by 4 and release by 14 so that the
// curve is close to its target when the stage ends.
type ExpEnvelope struct {
	sampleRate   int
	attack       float64
	attackConst  float64
	hold         float64
	decay        float64
	decayConst   float64
	sustain      float64
	release      float64
	releaseConst float64
	min          float64
	max          float64
	pos          float64
	posInc       float64
	prev         float64
	started      bool
}

// NewExpEnvelope ...
func NewExpEnvelope(sampleRate int, attack, hold, decay, sustain, release float64) *ExpEnvelope {
	return NewExpEnvelopeWithRange(sampleRate, attack, hold, decay, sustain, release, 0, 1)
}

// NewExpEnvelopeWithRange ...
func NewExpEnvelopeWithRange(sampleRate int, attack, hold, decay, sustain, release, min, max float64) *ExpEnvelope {
	sampleRate = maxInt(sampleRate, 1)
	e := &ExpEnvelope{
		sampleRate: sampleRate,
		min:        min,
		max:        max,
		prev:       min,
		posInc:     1 / float64(sampleRate),
	}
	e.SetAttack(attack)
	e.SetHold(hold)
	e.SetDecay(decay)
	e.SetSustain(sustain)
	e.SetRelease(release)
	return e
}

func (e *ExpEnvelope) timeConst(t float64) float64 {
	return math.Exp(-1 / (t * float64(e.sampleRate)))
}

// SetAttack ...
func (e *ExpEnvelope) SetAttack(attack float64) {
	e.attack = math.Max(attack/4, minEnvelopeTime)
	e.attackConst = e.timeConst(e.attack)
}

// SetHold ...
func (e *ExpEnvelope) SetHold(hold float64) {
	e.hold = math.Max(hold, 0)
}

// SetDecay ...
func (e *ExpEnvelope) SetDecay(decay float64) {
	e.decay = math.Max(decay/4, minEnvelopeTime)
	e.decayConst = e.timeConst(e.decay)
}

// SetSustain ...
func (e *ExpEnvelope) SetSustain(sustain float64) {
	e.sustain = Clamp(sustain, e.min, e.max)
}

// SetRelease ...
func (e *ExpEnvelope) SetRelease(release float64) {
	e.release = math.Max(release/14, minEnvelopeTime)
	e.releaseConst = e.timeConst(e.release)
}

func (e *ExpEnvelope) SetMin(min float64) { e.min = min }
func (e *ExpEnvelope) SetMax(max float64) { e.max = max }

// Reset ...
func (e *ExpEnvelope) Reset() {
	e.pos = 0
	e.prev = e.min
	e.started = true
}

// Next ...
func (e *ExpEnvelope) Next() float64 {
	if !e.started {
		return e.min
	}
	var value float64
	switch {
	case e.pos <= e.attack+e.hold:
		value = math.Min(e.max+(e.prev-e.max)*e.attackConst, e.max)
	case e.pos <= e.attack+e.hold+e.decay:
		value = math.Max(e.sustain+(e.prev-e.sustain)*e.decayConst, e.sustain)
	default:
		value = math.Max(e.min+(e.prev-e.min)*e.releaseConst, e.min)
	}
	if e.pos <= e.attack+e.hold+e.decay+e.release {
		e.pos += e.posInc
	}
	e.prev = value
	return value
}

// ----- Exponential Envelope 2 ----- //

// ExpEnvelope2 follows geometric curves between breakpoints and snaps to a
// stage's target once within 0.005 of it. Output never leaves [min, max].
type ExpEnvelope2 struct {
	attack  float64
	hold    float64
	decay   float64
	sustain float64
	release float64
	min     float64
	max     float64
	pos     float64
	posInc  float64
	started bool
}

// NewExpEnvelope2 ...
func NewExpEnvelope2(sampleRate int, attack, hold, decay, sustain, release float64) *ExpEnvelope2 {
	return NewExpEnvelope2WithRange(sampleRate, attack, hold, decay, sustain, release, 0, 1)
}

// NewExpEnvelope2WithRange ...
func NewExpEnvelope2WithRange(sampleRate int, attack, hold, decay, sustain, release, min, max float64) *ExpEnvelope2 {
	e := &ExpEnvelope2{
		min:    min,
		max:    math.Max(max, min),
		posInc: 1 / float64(maxInt(sampleRate, 1)),
	}
	e.SetAttack(attack)
	e.SetHold(hold)
	e.SetDecay(decay)
	e.SetSustain(sustain)
	e.SetRelease(release)
	return e
}

func (e *ExpEnvelope2) SetAttack(t float64)  { e.attack = math.Max(t, minEnvelopeTime) }
func (e *ExpEnvelope2) SetHold(t float64)    { e.hold = math.Max(t, 0) }
func (e *ExpEnvelope2) SetDecay(t float64)   { e.decay = math.Max(t, minEnvelopeTime) }
func (e *ExpEnvelope2) SetSustain(v float64) { e.sustain = Clamp(v, e.min, e.max) }
func (e *ExpEnvelope2) SetRelease(t float64) { e.release = math.Max(t, minEnvelopeTime) }
func (e *ExpEnvelope2) SetMin(min float64)   { e.min = min }
func (e *ExpEnvelope2) SetMax(max float64)   { e.max = math.Max(max, e.min) }

// Reset ...
func (e *ExpEnvelope2) Reset() {
	e.pos = 0
	e.started = true
}

// Next ...
func (e *ExpEnvelope2) Next() float64 {
	if !e.started {
		return e.min
	}
	mockMin := math.Max(e.min, minEnvelopeTime)
	holdEnd := e.attack + e.hold
	decayEnd := holdEnd + e.decay
	var value float64
	switch {
	case e.pos <= holdEnd:
		value = math.Min(mockMin*math.Pow(e.max/mockMin, e.pos/e.attack), e.max)
		if math.Abs(value-e.max) < snapThreshold || value >= e.max {
			value = e.max
		}
	case e.pos <= decayEnd:
		value = e.max
		if e.max > 0 {
			value = math.Max(e.max*math.Pow(e.sustain/e.max, (e.pos-holdEnd)/e.decay), e.sustain)
		}
		if math.Abs(value-e.sustain) < snapThreshold || value <= e.sustain {
			value = e.sustain
		}
	default:
		value = e.min
		if e.sustain > 0 {
			value = math.Max(e.sustain*math.Pow(mockMin/e.sustain, (e.pos-decayEnd)/e.release), e.min)
		}
		if math.Abs(value-e.min) < snapThreshold || value <= e.min {
			value = e.min
		}
	}
	if e.pos <= decayEnd+e.release {
		e.pos += e.posInc
	}
	return Clamp(value, e.min, e.max)
}

// ----- Exponential Target ----- //

// ExpTarget moves from its initial value towards its final value with a
// one-pole smoother. A non-positive time constant jumps immediately.
type ExpTarget struct {
	sampleRate int
	timeConst  float64
	init       float64
	final      float64
	prev       float64
	started    bool
}

// NewExpTarget ...
func NewExpTarget(sampleRate int, init, final, timeConst float64) *ExpTarget {
	e := &ExpTarget{
		sampleRate: maxInt(sampleRate, 1),
		init:       init,
		final:      final,
		prev:       init,
	}
	e.SetTimeConst(timeConst)
	return e
}

// SetInitValue takes effect on the next Reset.
func (e *ExpTarget) SetInitValue(v float64) { e.init = v }

// SetFinalValue ...
func (e *ExpTarget) SetFinalValue(v float64) { e.final = v }

// SetTimeConst takes seconds.
func (e *ExpTarget) SetTimeConst(t float64) {
	if t > 0 {
		e.timeConst = math.Exp(-1 / (t * float64(e.sampleRate)))
	} else {
		e.timeConst = 0
	}
}

// Reset ...
func (e *ExpTarget) Reset() {
	e.prev = e.init
	e.started = true
}

// Next ...
func (e *ExpTarget) Next() float64 {
	if !e.started {
		return e.init
	}
	value := e.final + (e.prev-e.final)*e.timeConst
	if math.Abs(value-e.final) < snapThreshold {
		value = e.final
	}
	e.prev = value
	return value
}

// ----- Linear Ramp ----- //

// LinRamp goes linearly from its initial to its final value and holds it.
type LinRamp struct {
	attack  float64
	init    float64
	final   float64
	pos     float64
	posInc  float64
	started bool
}

// NewLinRamp ...
func NewLinRamp(sampleRate int, attack, init, final float64) *LinRamp {
	return &LinRamp{
		attack: math.Max(attack, minEnvelopeTime),
		init:   init,
		final:  final,
		posInc: 1 / float64(maxInt(sampleRate, 1)),
	}
}

// SetInitValue takes effect on the next Reset.
func (e *LinRamp) SetInitValue(v float64) { e.init = v }

// SetFinalValue ...
func (e *LinRamp) SetFinalValue(v float64) { e.final = v }

// SetAttackTime ...
func (e *LinRamp) SetAttackTime(t float64) { e.attack = math.Max(t, minEnvelopeTime) }

// Reset ...
func (e *LinRamp) Reset() {
	e.pos = 0
	e.started = true
}

// Next ...
func (e *LinRamp) Next() float64 {
	if !e.started {
		return e.init
	}
	if e.pos > e.attack {
		return e.final
	}
	value := e.init + e.pos*(e.final-e.init)/e.attack
	e.pos += e.posInc
	return value
}
