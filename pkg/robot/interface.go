// Package robot defines the actuator facades and model descriptions for
// Interbotix X-Series locobots.
//
// This package follows the Interface Segregation Principle (ISP) by defining
// small, focused interfaces that can be composed as needed. Consumers should
// depend only on the interfaces they actually use. All motion commands are
// non-blocking: they start a motion and return immediately so a fixed-rate
// control loop is never held up by a moving actuator.
package robot

import "github.com/stephenadhi/go-locobot/pkg/spatial"

// Arm provides joint-space and Cartesian control of the manipulator.
// Commands that can be rejected (joint limits, unreachable poses) report
// acceptance with a bool; rejected commands start no motion.
type Arm interface {
	// Info returns the arm's joint layout and limits.
	Info() ArmInfo

	// JointCommands returns the latest commanded joint positions in
	// radians, one per joint in Info order.
	JointCommands() []float64

	// SingleJointCommand returns the latest commanded position of the
	// named joint. ok is false for an unknown joint name.
	SingleJointCommand(joint string) (position float64, ok bool)

	// SetSingleJointPosition commands one joint to position. ok is
	// false when the target violates the joint's limits.
	SetSingleJointPosition(joint string, position float64, prof MotionProfile) bool

	// EndEffectorPose returns the pose of the end effector with respect
	// to the arm base frame, derived from the commanded joint positions.
	EndEffectorPose() spatial.Transform

	// SetEndEffectorPose solves for joint positions reaching target,
	// seeding the solver with guess, and commands them on success.
	// Returns the joint positions that were commanded.
	SetEndEffectorPose(target spatial.Transform, guess []float64, prof MotionProfile) ([]float64, bool)

	// GoToHomePose moves every joint to zero.
	GoToHomePose(prof MotionProfile)

	// GoToSleepPose folds the arm onto its cradle.
	GoToSleepPose(prof MotionProfile)
}

// Base provides planar velocity control of the mobile base.
type Base interface {
	// SetVelocity streams one velocity setpoint: x forward in m/s, yaw
	// counterclockwise in rad/s. Setpoints expire on the base firmware
	// side, so the loop republishes every tick.
	SetVelocity(x, yaw float64) error

	// ResetOdom zeroes the base odometry estimate.
	ResetOdom() error
}

// Camera provides control of the pan-and-tilt camera mount.
type Camera interface {
	// PanTiltCommands returns the latest commanded pan and tilt in
	// radians.
	PanTiltCommands() (pan, tilt float64)

	// Move commands the mount to the given pan and tilt.
	Move(pan, tilt float64, prof MotionProfile) error

	// Home returns the mount to pan = 0, tilt = 0.
	Home(prof MotionProfile) error
}

// Gripper provides control of the arm's parallel gripper.
type Gripper interface {
	// Release opens the gripper.
	Release() error

	// Grasp closes the gripper until the pressure target holds.
	Grasp() error

	// SetPressure sets the grasp effort as a fraction in [0, 1].
	SetPressure(pressure float64) error
}
