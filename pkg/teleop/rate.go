// Package teleop runs the fixed-precedence teleoperation loop that turns
// processed joystick frames into locobot actuator commands.
package teleop

import (
	"sync"
	"time"
)

// Profile selects between the two control modes an operator toggles
// while driving: coarse for large motions, fine for precise ones.
type Profile int

const (
	ProfileCoarse Profile = iota
	ProfileFine
)

func (p Profile) String() string {
	if p == ProfileFine {
		return "fine"
	}
	return "coarse"
}

// Loop rate bounds in Hz. Joint jogs apply a fixed step per tick, so the
// loop rate doubles as the operator's speed control.
const (
	MinRateHz     = 10.0
	MaxRateHz     = 40.0
	DefaultRateHz = 25.0
)

// RateController tracks the control loop frequency and remembers one
// rate per profile, so switching to fine and back restores the coarse
// rate the operator had dialed in.
type RateController struct {
	mu      sync.Mutex
	hz      float64
	minHz   float64
	maxHz   float64
	profile Profile
	saved   [2]float64 // indexed by Profile
}

// NewRateController starts at startHz in the coarse profile. Both
// profile memories begin at startHz.
func NewRateController(startHz, minHz, maxHz float64) *RateController {
	return &RateController{
		hz:      startHz,
		minHz:   minHz,
		maxHz:   maxHz,
		profile: ProfileCoarse,
		saved:   [2]float64{startHz, startHz},
	}
}

// Hz returns the current loop rate.
func (r *RateController) Hz() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hz
}

// Period returns the current tick period.
func (r *RateController) Period() time.Duration {
	return time.Duration(float64(time.Second) / r.Hz())
}

// Profile returns the active control profile.
func (r *RateController) Profile() Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile
}

// Increase raises the rate by 1 Hz and reports whether it changed.
// The rate saturates at the upper bound.
func (r *RateController) Increase() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hz >= r.maxHz {
		return false
	}
	r.hz++
	return true
}

// Decrease lowers the rate by 1 Hz and reports whether it changed.
// The rate saturates at the lower bound.
func (r *RateController) Decrease() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hz <= r.minHz {
		return false
	}
	r.hz--
	return true
}

// SwitchTo activates profile p: the current rate is remembered under the
// other profile and p's remembered rate becomes active. Reports whether
// the rate or profile actually changed, so a held toggle button logs
// once instead of every tick.
func (r *RateController) SwitchTo(p Profile) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	other := ProfileFine
	if p == ProfileFine {
		other = ProfileCoarse
	}
	changed := r.profile != p || r.hz != r.saved[p]
	r.saved[other] = r.hz
	r.hz = r.saved[p]
	r.profile = p
	return changed
}
