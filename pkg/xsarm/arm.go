package xsarm

import (
	"fmt"
	"sync"

	"github.com/stephenadhi/go-locobot/internal/log"
	"github.com/stephenadhi/go-locobot/pkg/dxl"
	"github.com/stephenadhi/go-locobot/pkg/robot"
	"github.com/stephenadhi/go-locobot/pkg/spatial"
)

// Arm drives the manipulator chain. It tracks the commanded joint
// vector and end-effector pose itself: goal registers are write-only
// from the loop's perspective, and reading present positions every tick
// would show the servo mid-travel, not the commanded target.
type Arm struct {
	mu     sync.Mutex
	bus    Bus
	info   robot.ArmInfo
	solver robot.Solver
	ids    []uint8
	joints []float64
	pose   spatial.Transform
}

// NewArm configures the arm servos (time-based profiles, position mode,
// torque on) and seeds the commanded state from their present
// positions, so a freshly attached loop starts from wherever the arm
// actually is.
func NewArm(bus Bus, info robot.ArmInfo, solver robot.Solver) (*Arm, error) {
	ids := make([]uint8, info.NumJoints())
	for i := range ids {
		ids[i] = FirstJointID + uint8(i)
	}
	a := &Arm{
		bus:    bus,
		info:   info,
		solver: solver,
		ids:    ids,
		joints: make([]float64, info.NumJoints()),
	}

	for i, id := range ids {
		if err := bus.Ping(id); err != nil {
			return nil, fmt.Errorf("%s joint %s (servo %d): %w", info.Model, info.Joints[i].Name, id, err)
		}
		if err := a.setupServo(id, dxl.ModePosition); err != nil {
			return nil, err
		}
	}
	ticks, err := bus.SyncReadU32(dxl.AddrPresentPosition, ids)
	if err != nil {
		return nil, fmt.Errorf("read %s joint positions: %w", info.Model, err)
	}
	for i, t := range ticks {
		a.joints[i] = dxl.TicksToRadians(t)
	}
	a.pose = solver.Forward(a.joints)
	log.Info("Arm servos configured", "model", info.Model, "joints", info.NumJoints())
	return a, nil
}

// setupServo puts one servo in the given mode with time-based profiles.
// Mode changes require torque off.
func (a *Arm) setupServo(id uint8, mode uint8) error {
	steps := []struct {
		addr uint16
		v    uint8
	}{
		{dxl.AddrTorqueEnable, 0},
		{dxl.AddrDriveMode, dxl.DriveModeTimeProfile},
		{dxl.AddrOperatingMode, mode},
		{dxl.AddrTorqueEnable, 1},
	}
	for _, s := range steps {
		if err := a.bus.WriteU8(id, s.addr, s.v); err != nil {
			return fmt.Errorf("configure servo %d: %w", id, err)
		}
	}
	return nil
}

// applyProfile writes the motion timing to every listed servo. In
// time-based drive mode these registers hold milliseconds.
func (a *Arm) applyProfile(ids []uint8, prof robot.MotionProfile) error {
	moving := make([]uint32, len(ids))
	accel := make([]uint32, len(ids))
	for i := range ids {
		moving[i] = uint32(prof.Moving.Milliseconds())
		accel[i] = uint32(prof.Accel.Milliseconds())
	}
	if err := a.bus.SyncWriteU32(dxl.AddrProfileVelocity, ids, moving); err != nil {
		return err
	}
	return a.bus.SyncWriteU32(dxl.AddrProfileAcceleration, ids, accel)
}

// Info returns the arm's joint layout and limits.
func (a *Arm) Info() robot.ArmInfo {
	return a.info
}

// JointCommands returns the commanded joint positions.
func (a *Arm) JointCommands() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float64, len(a.joints))
	copy(out, a.joints)
	return out
}

// SingleJointCommand returns the commanded position of the named joint.
func (a *Arm) SingleJointCommand(joint string) (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.info.JointIndex(joint)
	if i < 0 {
		return 0, false
	}
	return a.joints[i], true
}

// SetSingleJointPosition commands one joint, rejecting positions
// outside its limits. Bus errors also report as rejection: a command
// that never reached the servo moved nothing.
func (a *Arm) SetSingleJointPosition(joint string, position float64, prof robot.MotionProfile) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.info.JointIndex(joint)
	if i < 0 || !a.info.WithinLimits(i, position) {
		return false
	}
	id := a.ids[i]
	if err := a.applyProfile([]uint8{id}, prof); err != nil {
		log.Warn("Joint profile write failed", "joint", joint, "err", err)
		return false
	}
	if err := a.bus.WriteU32(id, dxl.AddrGoalPosition, dxl.RadiansToTicks(position)); err != nil {
		log.Warn("Joint goal write failed", "joint", joint, "err", err)
		return false
	}
	a.joints[i] = position
	a.pose = a.solver.Forward(a.joints)
	return true
}

// EndEffectorPose returns the commanded end-effector pose.
func (a *Arm) EndEffectorPose() spatial.Transform {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pose
}

// SetEndEffectorPose solves for target and sync-writes the solution so
// all joints start moving together.
func (a *Arm) SetEndEffectorPose(target spatial.Transform, guess []float64, prof robot.MotionProfile) ([]float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sol, ok := a.solver.Solve(target, guess)
	if !ok {
		return nil, false
	}
	if !a.commandAll(sol, prof) {
		return nil, false
	}
	a.pose = target
	out := make([]float64, len(sol))
	copy(out, sol)
	return out, true
}

// GoToHomePose moves every joint to zero.
func (a *Arm) GoToHomePose(prof robot.MotionProfile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.commandAll(a.info.HomePositions(), prof) {
		a.pose = a.solver.Forward(a.joints)
	}
}

// GoToSleepPose folds the arm onto its cradle.
func (a *Arm) GoToSleepPose(prof robot.MotionProfile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.commandAll(a.info.SleepPositions, prof) {
		a.pose = a.solver.Forward(a.joints)
	}
}

// commandAll writes a full joint vector. Caller holds the lock.
func (a *Arm) commandAll(positions []float64, prof robot.MotionProfile) bool {
	if err := a.applyProfile(a.ids, prof); err != nil {
		log.Warn("Arm profile write failed", "err", err)
		return false
	}
	ticks := make([]uint32, len(positions))
	for i, p := range positions {
		ticks[i] = dxl.RadiansToTicks(p)
	}
	if err := a.bus.SyncWriteU32(dxl.AddrGoalPosition, a.ids, ticks); err != nil {
		log.Warn("Arm goal write failed", "err", err)
		return false
	}
	copy(a.joints, positions)
	return true
}
