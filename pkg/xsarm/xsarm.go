// Package xsarm drives a real X-Series locobot over a Dynamixel bus:
// the arm chain, its gripper and the pan-and-tilt camera mount. Inverse
// kinematics stays outside the package behind robot.Solver; xsarm only
// turns accepted solutions into goal-position writes.
package xsarm

import "github.com/stephenadhi/go-locobot/pkg/dxl"

// Bus is the slice of dxl.Bus the facades use. Tests substitute a
// recording fake.
type Bus interface {
	Ping(id uint8) error
	WriteU8(id uint8, addr uint16, v uint8) error
	WriteU16(id uint8, addr uint16, v uint16) error
	WriteU32(id uint8, addr uint16, v uint32) error
	ReadU32(id uint8, addr uint16) (uint32, error)
	SyncReadU32(addr uint16, ids []uint8) ([]uint32, error)
	SyncWriteU32(addr uint16, ids []uint8, values []uint32) error
}

var _ Bus = (*dxl.Bus)(nil)

// Default servo IDs for a locobot chain: arm joints count up from 1,
// then gripper, then the camera turret.
const (
	FirstJointID    uint8 = 1
	DefaultPanID    uint8 = 8
	DefaultTiltID   uint8 = 9
	gripperIDOffset uint8 = 1 // gripper follows the last arm joint
)
