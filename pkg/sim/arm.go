// Package sim provides in-process stand-ins for every locobot actuator
// so the full control stack runs without hardware attached. Motions
// complete instantly and honor the same joint limits and workspace
// bounds the real robot enforces.
package sim

import (
	"sync"

	"github.com/stephenadhi/go-locobot/internal/log"
	"github.com/stephenadhi/go-locobot/pkg/robot"
	"github.com/stephenadhi/go-locobot/pkg/spatial"
)

// Arm is a simulated X-Series manipulator. It tracks commanded joint
// positions and answers Cartesian commands through the analytic solver.
type Arm struct {
	mu     sync.Mutex
	info   robot.ArmInfo
	solver robot.Solver
	joints []float64
	pose   spatial.Transform
}

// NewArm builds a simulated arm resting in its sleep pose, the position
// a real arm boots from on the cradle.
func NewArm(info robot.ArmInfo) (*Arm, error) {
	solver, err := NewSolver(info)
	if err != nil {
		return nil, err
	}
	a := &Arm{
		info:   info,
		solver: solver,
		joints: make([]float64, info.NumJoints()),
	}
	copy(a.joints, info.SleepPositions)
	a.pose = solver.Forward(a.joints)
	log.Debug("Simulated arm ready", "model", info.Model, "joints", info.NumJoints())
	return a, nil
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

// SetSingleJointPosition commands one joint, rejecting positions outside
// its limits.
func (a *Arm) SetSingleJointPosition(joint string, position float64, prof robot.MotionProfile) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.info.JointIndex(joint)
	if i < 0 || !a.info.WithinLimits(i, position) {
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

// SetEndEffectorPose solves for target and commands the solution. On
// success the commanded pose is the target itself, exactly as given.
func (a *Arm) SetEndEffectorPose(target spatial.Transform, guess []float64, prof robot.MotionProfile) ([]float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sol, ok := a.solver.Solve(target, guess)
	if !ok {
		log.Debug("Simulated arm rejected pose", "model", a.info.Model,
			"x", target.P.X, "y", target.P.Y, "z", target.P.Z)
		return nil, false
	}
	copy(a.joints, sol)
	a.pose = target
	out := make([]float64, len(sol))
	copy(out, sol)
	return out, true
}

// GoToHomePose moves every joint to zero.
func (a *Arm) GoToHomePose(prof robot.MotionProfile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.joints = a.info.HomePositions()
	a.pose = a.solver.Forward(a.joints)
}

// GoToSleepPose folds the arm onto its cradle.
func (a *Arm) GoToSleepPose(prof robot.MotionProfile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	copy(a.joints, a.info.SleepPositions)
	a.pose = a.solver.Forward(a.joints)
}
