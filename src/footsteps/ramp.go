package footsteps

// ----- Ramp ----- //

// ramp moves a continuously-variable parameter linearly to its target over
// one output block. A new target set mid-block is picked up by the next
// block.
type ramp struct {
	value     float64
	target    float64
	step      float64
	remaining int
}

func newRamp(value float64) *ramp {
	return &ramp{
		value:  value,
		target: value,
	}
}

// init jumps to value without ramping.
func (r *ramp) init(value float64) {
	r.value = value
	r.target = value
	r.step = 0
	r.remaining = 0
}

// set reports whether the target changed.
func (r *ramp) set(target float64) bool {
	if r.target == target {
		return false
	}
	r.target = target
	return true
}

// begin starts a ramp of frames samples toward the current target.
func (r *ramp) begin(frames int) {
	if r.value == r.target || frames <= 0 {
		r.step = 0
		r.remaining = 0
		r.value = r.target
		return
	}
	r.step = (r.target - r.value) / float64(frames)
	r.remaining = frames
}

func (r *ramp) advance() {
	if r.remaining <= 0 {
		return
	}
	r.remaining--
	if r.remaining == 0 {
		r.value = r.target
		r.step = 0
	} else {
		r.value += r.step
	}
}

// settle applies a pending target when no ramp is running.
func (r *ramp) settle() {
	if r.remaining == 0 {
		r.value = r.target
	}
}
