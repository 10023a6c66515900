package sim

import (
	"fmt"
	"sync"

	"github.com/stephenadhi/go-locobot/internal/log"
)

// Gripper is a simulated parallel gripper.
type Gripper struct {
	mu       sync.Mutex
	grasping bool
	pressure float64
}

// NewGripper builds a simulated gripper, open, at half pressure.
func NewGripper() *Gripper {
	return &Gripper{pressure: 0.5}
}

// Release opens the gripper.
func (g *Gripper) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.grasping = false
	log.Debug("Simulated gripper released")
	return nil
}

// Grasp closes the gripper.
func (g *Gripper) Grasp() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.grasping = true
	log.Debug("Simulated gripper grasping")
	return nil
}

// SetPressure sets the grasp effort fraction.
func (g *Gripper) SetPressure(pressure float64) error {
	if pressure < 0 || pressure > 1 {
		return fmt.Errorf("gripper pressure %.3f outside [0, 1]", pressure)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pressure = pressure
	return nil
}

// Grasping reports whether the gripper is commanded closed.
func (g *Gripper) Grasping() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grasping
}

// Pressure returns the commanded grasp effort fraction.
func (g *Gripper) Pressure() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pressure
}
