package xsarm

import (
	"fmt"
	"sync"

	"github.com/stephenadhi/go-locobot/internal/log"
	"github.com/stephenadhi/go-locobot/pkg/dxl"
)

// Gripper PWM band. Pressure 0 maps to the lightest grip that still
// holds the fingers in place; pressure 1 to the servo's safe maximum.
const (
	gripperPWMMin = 150
	gripperPWMMax = 350
)

// Gripper drives the parallel gripper servo in PWM mode: the sign of
// the goal PWM picks the direction, its magnitude the grip effort.
type Gripper struct {
	mu       sync.Mutex
	bus      Bus
	id       uint8
	pressure float64
}

// NewGripper configures the gripper servo after the arm chain, so its
// ID is the next one on the bus.
func NewGripper(bus Bus, numJoints int) (*Gripper, error) {
	g := &Gripper{
		bus:      bus,
		id:       FirstJointID + uint8(numJoints) + gripperIDOffset - 1,
		pressure: 0.5,
	}
	if err := bus.Ping(g.id); err != nil {
		return nil, fmt.Errorf("gripper servo %d: %w", g.id, err)
	}
	steps := []struct {
		addr uint16
		v    uint8
	}{
		{dxl.AddrTorqueEnable, 0},
		{dxl.AddrOperatingMode, dxl.ModePWM},
		{dxl.AddrTorqueEnable, 1},
	}
	for _, s := range steps {
		if err := bus.WriteU8(g.id, s.addr, s.v); err != nil {
			return nil, fmt.Errorf("configure gripper servo %d: %w", g.id, err)
		}
	}
	log.Info("Gripper servo configured", "id", g.id)
	return g, nil
}

// pwm maps the stored pressure onto the usable band. Caller holds the
// lock.
func (g *Gripper) pwm() int16 {
	return int16(gripperPWMMin + g.pressure*(gripperPWMMax-gripperPWMMin))
}

// Release opens the gripper: positive PWM drives the fingers apart.
func (g *Gripper) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bus.WriteU16(g.id, dxl.AddrGoalPWM, uint16(g.pwm()))
}

// Grasp closes the gripper with the current pressure target.
func (g *Gripper) Grasp() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bus.WriteU16(g.id, dxl.AddrGoalPWM, uint16(-g.pwm()))
}

// SetPressure stores the grasp effort fraction. It takes effect on the
// next Grasp or Release; rewriting goal PWM mid-grip would jerk a held
// object.
func (g *Gripper) SetPressure(pressure float64) error {
	if pressure < 0 || pressure > 1 {
		return fmt.Errorf("gripper pressure %.3f outside [0, 1]", pressure)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pressure = pressure
	return nil
}
