package sim

import (
	"sync"

	"github.com/stephenadhi/go-locobot/pkg/robot"
)

// Camera is a simulated pan-and-tilt mount. Commands past the travel
// limits clamp to the limit, the way the servo goal registers do.
type Camera struct {
	mu   sync.Mutex
	info robot.CameraInfo
	pan  float64
	tilt float64
}

// NewCamera builds a simulated mount centered at pan = 0, tilt = 0.
func NewCamera(info robot.CameraInfo) *Camera {
	return &Camera{info: info}
}

// PanTiltCommands returns the commanded pan and tilt.
func (c *Camera) PanTiltCommands() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pan, c.tilt
}

// Move commands the mount, clamping each axis to its travel.
func (c *Camera) Move(pan, tilt float64, prof robot.MotionProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pan = clampRange(pan, c.info.PanMin, c.info.PanMax)
	c.tilt = clampRange(tilt, c.info.TiltMin, c.info.TiltMax)
	return nil
}

// Home recenters both axes.
func (c *Camera) Home(prof robot.MotionProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pan, c.tilt = 0, 0
	return nil
}

func clampRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
