package sim

import (
	"math"
	"sync"
	"time"

	"github.com/stephenadhi/go-locobot/internal/log"
)

// Base is a simulated Kobuki base. It integrates commanded velocities
// into a planar odometry estimate so clients can watch the robot move.
type Base struct {
	mu      sync.Mutex
	x, y    float64
	yaw     float64
	vx      float64
	vyaw    float64
	lastSet time.Time
	clock   func() time.Time
}

// NewBase builds a simulated base parked at the odometry origin.
func NewBase() *Base {
	return &Base{clock: time.Now}
}

// SetVelocity stores a new velocity setpoint, first integrating the
// previous one over the elapsed time.
func (b *Base) SetVelocity(x, yaw float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.integrate()
	b.vx, b.vyaw = x, yaw
	return nil
}

// ResetOdom zeroes the odometry estimate.
func (b *Base) ResetOdom() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.integrate()
	b.x, b.y, b.yaw = 0, 0, 0
	log.Debug("Simulated base odometry reset")
	return nil
}

// Odometry returns the integrated pose estimate: x and y in meters, yaw
// in radians.
func (b *Base) Odometry() (x, y, yaw float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.integrate()
	return b.x, b.y, b.yaw
}

// integrate advances the unicycle model to the current time. Caller
// holds the lock.
func (b *Base) integrate() {
	now := b.clock()
	if !b.lastSet.IsZero() {
		dt := now.Sub(b.lastSet).Seconds()
		b.x += b.vx * math.Cos(b.yaw) * dt
		b.y += b.vx * math.Sin(b.yaw) * dt
		b.yaw = normalizeAngle(b.yaw + b.vyaw*dt)
	}
	b.lastSet = now
}
