// Package dxl speaks Dynamixel Protocol 2.0 over a half-duplex serial
// bus, covering the registers the locobot's X-Series servos need:
// operating mode, torque, time-based motion profiles, goal position and
// goal PWM.
package dxl

import "math"

// Control table addresses shared by the X-Series (Protocol 2.0).
const (
	AddrDriveMode           uint16 = 10
	AddrOperatingMode       uint16 = 11
	AddrTorqueEnable        uint16 = 64
	AddrGoalPWM             uint16 = 100
	AddrProfileAcceleration uint16 = 108
	AddrProfileVelocity     uint16 = 112
	AddrGoalPosition        uint16 = 116
	AddrMoving              uint16 = 122
	AddrPresentPosition     uint16 = 132
)

// Operating modes.
const (
	ModePosition uint8 = 3
	ModePWM      uint8 = 16
)

// DriveModeTimeProfile selects time-based profiles: the profile
// velocity and acceleration registers then hold durations in
// milliseconds instead of speed units.
const DriveModeTimeProfile uint8 = 0x04

// Position resolution: 4096 ticks per revolution, zero radians at the
// 2048 center tick.
const (
	TicksPerRevolution = 4096
	CenterTick         = 2048
)

// RadiansToTicks converts a joint angle to the servo's goal position
// register value.
func RadiansToTicks(radians float64) uint32 {
	offset := radians * (TicksPerRevolution / (2 * math.Pi))
	return uint32(int32(math.Round(offset)) + CenterTick)
}

// TicksToRadians converts a position register value to a joint angle.
func TicksToRadians(ticks uint32) float64 {
	return float64(int32(ticks)-CenterTick) * (2 * math.Pi / TicksPerRevolution)
}
