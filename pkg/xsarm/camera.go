package xsarm

import (
	"fmt"
	"sync"

	"github.com/stephenadhi/go-locobot/internal/log"
	"github.com/stephenadhi/go-locobot/pkg/dxl"
	"github.com/stephenadhi/go-locobot/pkg/robot"
)

// Camera drives the pan-and-tilt turret servos. Targets past the
// mount's travel clamp to the limit rather than fail, matching how the
// servo itself treats an out-of-range goal.
type Camera struct {
	mu     sync.Mutex
	bus    Bus
	info   robot.CameraInfo
	panID  uint8
	tiltID uint8
	pan    float64
	tilt   float64
}

// NewCamera configures the turret servos and seeds the commanded
// angles from their present positions.
func NewCamera(bus Bus, info robot.CameraInfo, panID, tiltID uint8) (*Camera, error) {
	c := &Camera{bus: bus, info: info, panID: panID, tiltID: tiltID}
	for _, id := range []uint8{panID, tiltID} {
		if err := bus.Ping(id); err != nil {
			return nil, fmt.Errorf("camera servo %d: %w", id, err)
		}
		steps := []struct {
			addr uint16
			v    uint8
		}{
			{dxl.AddrTorqueEnable, 0},
			{dxl.AddrDriveMode, dxl.DriveModeTimeProfile},
			{dxl.AddrOperatingMode, dxl.ModePosition},
			{dxl.AddrTorqueEnable, 1},
		}
		for _, s := range steps {
			if err := bus.WriteU8(id, s.addr, s.v); err != nil {
				return nil, fmt.Errorf("configure camera servo %d: %w", id, err)
			}
		}
	}
	panTicks, err := bus.ReadU32(panID, dxl.AddrPresentPosition)
	if err != nil {
		return nil, fmt.Errorf("read pan position: %w", err)
	}
	tiltTicks, err := bus.ReadU32(tiltID, dxl.AddrPresentPosition)
	if err != nil {
		return nil, fmt.Errorf("read tilt position: %w", err)
	}
	c.pan = dxl.TicksToRadians(panTicks)
	c.tilt = dxl.TicksToRadians(tiltTicks)
	log.Info("Camera servos configured", "pan_id", panID, "tilt_id", tiltID)
	return c, nil
}

// PanTiltCommands returns the commanded pan and tilt.
func (c *Camera) PanTiltCommands() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pan, c.tilt
}

// Move commands the turret, clamping each axis to its travel.
func (c *Camera) Move(pan, tilt float64, prof robot.MotionProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pan = clamp(pan, c.info.PanMin, c.info.PanMax)
	tilt = clamp(tilt, c.info.TiltMin, c.info.TiltMax)
	if err := c.command(pan, tilt, prof); err != nil {
		return err
	}
	c.pan, c.tilt = pan, tilt
	return nil
}

// Home recenters both axes.
func (c *Camera) Home(prof robot.MotionProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.command(0, 0, prof); err != nil {
		return err
	}
	c.pan, c.tilt = 0, 0
	return nil
}

// command writes the motion profile and both goals. Caller holds the
// lock.
func (c *Camera) command(pan, tilt float64, prof robot.MotionProfile) error {
	ids := []uint8{c.panID, c.tiltID}
	moving := uint32(prof.Moving.Milliseconds())
	accel := uint32(prof.Accel.Milliseconds())
	if err := c.bus.SyncWriteU32(dxl.AddrProfileVelocity, ids, []uint32{moving, moving}); err != nil {
		return err
	}
	if err := c.bus.SyncWriteU32(dxl.AddrProfileAcceleration, ids, []uint32{accel, accel}); err != nil {
		return err
	}
	return c.bus.SyncWriteU32(dxl.AddrGoalPosition, ids, []uint32{
		dxl.RadiansToTicks(pan), dxl.RadiansToTicks(tilt),
	})
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
