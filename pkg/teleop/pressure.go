package teleop

// Gripper pressure stepping. Pressure is a fraction of the gripper's
// usable PWM band; the facade maps it onto actual duty cycles.
const (
	PressureStep    = 0.125
	DefaultPressure = 0.5
)

// PressureController steps the grasp pressure target between 0 and 1.
// Steps from a boundary are refused rather than wrapped, and results are
// clamped so an off-grid starting value can never push past the range.
type PressureController struct {
	pressure float64
}

// NewPressureController starts at DefaultPressure.
func NewPressureController() *PressureController {
	return &PressureController{pressure: DefaultPressure}
}

// Pressure returns the current pressure target.
func (p *PressureController) Pressure() float64 {
	return p.pressure
}

// Increase raises the pressure by one step, clamped to 1. Returns the
// new value and whether it changed; at the top of the range nothing
// happens.
func (p *PressureController) Increase() (float64, bool) {
	if p.pressure >= 1 {
		return p.pressure, false
	}
	p.pressure += PressureStep
	if p.pressure > 1 {
		p.pressure = 1
	}
	return p.pressure, true
}

// Decrease lowers the pressure by one step, clamped to 0.
func (p *PressureController) Decrease() (float64, bool) {
	if p.pressure <= 0 {
		return p.pressure, false
	}
	p.pressure -= PressureStep
	if p.pressure < 0 {
		p.pressure = 0
	}
	return p.pressure, true
}
