package teleop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stephenadhi/go-locobot/internal/log"
	"github.com/stephenadhi/go-locobot/pkg/joy"
	"github.com/stephenadhi/go-locobot/pkg/robot"
	"github.com/stephenadhi/go-locobot/pkg/spatial"
)

// Jog step sizes applied once per tick. The waist step doubles as the
// camera pan/tilt step.
const (
	WaistStep     = 0.06 // rad
	RotateStep    = 0.04 // rad
	TranslateStep = 0.01 // m
)

// LateralGuard is the forward offset (m) the end effector must exceed,
// in the yaw-aligned frame, before lateral jogs are allowed. Closer in,
// a sideways step would twist the wrist through the arm's own column.
const LateralGuard = 0.3

// errorLogInterval limits actuator error logging so a dead transport
// does not flood the log at loop rate.
const errorLogInterval = 5 * time.Second

// Status is a point-in-time snapshot of the loop for the API surface.
type Status struct {
	Model    string    `json:"model"`
	RateHz   float64   `json:"rate_hz"`
	Profile  string    `json:"profile"`
	Ticks    uint64    `json:"ticks"`
	Errors   uint64    `json:"errors"`
	HasArm   bool      `json:"has_arm"`
	HasBase  bool      `json:"has_base"`
	Pressure float64   `json:"gripper_pressure,omitempty"`
	Joints   []float64 `json:"joints,omitempty"`
}

// armRig bundles the manipulator-side state: the arm and gripper facades
// plus the frame and pressure trackers that only exist when an arm does.
type armRig struct {
	arm      robot.Arm
	gripper  robot.Gripper
	frames   *FrameTracker
	pressure *PressureController
	info     robot.ArmInfo
	waistLL  float64
	waistUL  float64
}

func newArmRig(arm robot.Arm, gripper robot.Gripper) (*armRig, error) {
	info := arm.Info()
	wi := info.JointIndex("waist")
	if wi < 0 {
		return nil, fmt.Errorf("arm %s has no waist joint", info.Model)
	}
	r := &armRig{
		arm:      arm,
		gripper:  gripper,
		frames:   NewFrameTracker(),
		pressure: NewPressureController(),
		info:     info,
		waistLL:  info.Joints[wi].MinRadians,
		waistUL:  info.Joints[wi].MaxRadians,
	}
	r.frames.Recompute(arm.EndEffectorPose())
	return r, nil
}

// Controller runs the teleoperation loop: each tick it snapshots the
// command buffer and dispatches every requested action in a fixed order.
// All actuator calls are non-blocking, so one tick never waits on a
// moving joint.
type Controller struct {
	model  robot.Model
	buf    *joy.Buffer
	rate   *RateController
	camera robot.Camera
	base   robot.Base // nil when driving without a base
	arm    *armRig    // nil on the camera-only base model

	tickCount     uint64
	errorCount    uint64
	lastErrorTime time.Time

	statusMu sync.RWMutex
	status   Status
}

// NewArmController builds the loop for an arm-equipped locobot. base may
// be nil to drive the arm and camera alone.
func NewArmController(model robot.Model, buf *joy.Buffer, rate *RateController, camera robot.Camera, arm robot.Arm, gripper robot.Gripper, base robot.Base) (*Controller, error) {
	if !model.HasArm() {
		return nil, fmt.Errorf("model %s carries no arm", model.Name)
	}
	if buf == nil || rate == nil || camera == nil || arm == nil || gripper == nil {
		return nil, fmt.Errorf("arm controller needs buffer, rate, camera, arm and gripper")
	}
	rig, err := newArmRig(arm, gripper)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		model:  model,
		buf:    buf,
		rate:   rate,
		camera: camera,
		base:   base,
		arm:    rig,
	}
	c.publishStatus()
	return c, nil
}

// NewBaseController builds the loop for the armless locobot_base: camera
// and mobile base only.
func NewBaseController(model robot.Model, buf *joy.Buffer, rate *RateController, camera robot.Camera, base robot.Base) (*Controller, error) {
	if model.HasArm() {
		return nil, fmt.Errorf("model %s carries an arm, use NewArmController", model.Name)
	}
	if buf == nil || rate == nil || camera == nil || base == nil {
		return nil, fmt.Errorf("base controller needs buffer, rate, camera and base")
	}
	c := &Controller{
		model:  model,
		buf:    buf,
		rate:   rate,
		camera: camera,
		base:   base,
	}
	c.publishStatus()
	return c, nil
}

// Status returns the latest loop snapshot.
func (c *Controller) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

// Run drives the loop until ctx is cancelled. The tick period follows
// the rate controller, so speed commands take effect on the next tick.
func (c *Controller) Run(ctx context.Context) error {
	log.Info("Teleop loop started",
		"model", c.model.Name,
		"hz", c.rate.Hz(),
		"arm", c.arm != nil,
		"base", c.base != nil,
	)

	period := c.rate.Period()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.tick()
			if p := c.rate.Period(); p != period {
				period = p
				ticker.Reset(p)
			}
		}
	}
}

// shutdown stops the base before the loop exits. Arm and camera servos
// hold position on their own; a rolling base does not.
func (c *Controller) shutdown() {
	if c.base != nil {
		if err := c.base.SetVelocity(0, 0); err != nil {
			log.Warn("Failed to stop base on shutdown", "err", err)
		}
	}
	log.Info("Teleop loop stopped", "ticks", c.tickCount, "errors", c.errorCount)
}

// tick runs one control cycle. Steps run in fixed precedence so a frame
// carrying several requests always resolves the same way.
func (c *Controller) tick() {
	cmd := c.buf.Snapshot()

	c.stepSpeed(cmd)
	c.stepSpeedToggle(cmd)
	c.stepOdom(cmd)
	c.stepCamera(cmd)
	c.stepBase(cmd)
	if c.arm != nil {
		c.stepGripper(cmd)
		c.stepPressure(cmd)
		c.stepPose(cmd)
		c.stepWaist(cmd)
		c.stepEndEffector(cmd)
	}

	c.tickCount++
	if c.tickCount%100 == 0 {
		log.Debug("Loop heartbeat", "ticks", c.tickCount, "errors", c.errorCount, "hz", c.rate.Hz())
	}
	c.publishStatus()
}

func (c *Controller) stepSpeed(cmd joy.Command) {
	switch cmd.Speed {
	case joy.SpeedInc:
		if c.rate.Increase() {
			log.Info("Loop rate changed", "hz", c.rate.Hz())
		}
	case joy.SpeedDec:
		if c.rate.Decrease() {
			log.Info("Loop rate changed", "hz", c.rate.Hz())
		}
	}
}

func (c *Controller) stepSpeedToggle(cmd joy.Command) {
	switch cmd.SpeedToggle {
	case joy.SpeedCoarse:
		if c.rate.SwitchTo(ProfileCoarse) {
			log.Info("Switched to coarse control", "hz", c.rate.Hz())
		}
	case joy.SpeedFine:
		if c.rate.SwitchTo(ProfileFine) {
			log.Info("Switched to fine control", "hz", c.rate.Hz())
		}
	}
}

func (c *Controller) stepOdom(cmd joy.Command) {
	if cmd.ResetOdom != joy.ResetOdom || c.base == nil {
		return
	}
	c.actuatorError("reset odom", c.base.ResetOdom())
}

func (c *Controller) stepGripper(cmd joy.Command) {
	switch cmd.Gripper {
	case joy.GripperRelease:
		c.actuatorError("gripper release", c.arm.gripper.Release())
	case joy.GripperGrasp:
		c.actuatorError("gripper grasp", c.arm.gripper.Grasp())
	}
}

func (c *Controller) stepPressure(cmd joy.Command) {
	var (
		pressure float64
		changed  bool
	)
	switch cmd.GripperPWM {
	case joy.GripperPWMInc:
		pressure, changed = c.arm.pressure.Increase()
	case joy.GripperPWMDec:
		pressure, changed = c.arm.pressure.Decrease()
	default:
		return
	}
	if !changed {
		return
	}
	c.actuatorError("set gripper pressure", c.arm.gripper.SetPressure(pressure))
	log.Info("Gripper pressure changed", "percent", pressure*100)
}

func (c *Controller) stepCamera(cmd joy.Command) {
	if cmd.Pan == joy.PanTiltHome && cmd.Tilt == joy.PanTiltHome {
		c.actuatorError("camera home", c.camera.Home(robot.ProfileCameraHome))
		return
	}
	if cmd.Pan == joy.CmdNone && cmd.Tilt == joy.CmdNone {
		return
	}

	pan, tilt := c.camera.PanTiltCommands()
	switch cmd.Pan {
	case joy.PanCCW:
		pan += WaistStep
	case joy.PanCW:
		pan -= WaistStep
	}
	switch cmd.Tilt {
	case joy.TiltUp:
		tilt += WaistStep
	case joy.TiltDown:
		tilt -= WaistStep
	}
	c.actuatorError("camera move", c.camera.Move(pan, tilt, robot.ProfileJog))
}

// stepBase streams the velocity setpoint every tick, including zero, so
// the base's command watchdog stays fed and releasing the stick stops
// the robot. Magnitudes are clamped to the base's envelope.
func (c *Controller) stepBase(cmd joy.Command) {
	if c.base == nil {
		return
	}
	x := clamp(cmd.BaseX, -c.model.Base.MaxLinear, c.model.Base.MaxLinear)
	yaw := clamp(cmd.BaseTheta, -c.model.Base.MaxAngular, c.model.Base.MaxAngular)
	c.actuatorError("base velocity", c.base.SetVelocity(x, yaw))
}

func (c *Controller) stepPose(cmd joy.Command) {
	switch cmd.Pose {
	case joy.HomePose:
		c.arm.arm.GoToHomePose(robot.ProfilePreset)
	case joy.SleepPose:
		c.arm.arm.GoToSleepPose(robot.ProfilePreset)
	default:
		return
	}
	// The preset moved the end effector outside the jog path; re-anchor
	// the virtual frame on the new commanded pose.
	c.arm.frames.Recompute(c.arm.arm.EndEffectorPose())
}

func (c *Controller) stepWaist(cmd joy.Command) {
	r := c.arm
	position, _ := r.arm.SingleJointCommand("waist")
	switch cmd.Waist {
	case joy.WaistCCW:
		if !r.arm.SetSingleJointPosition("waist", position+WaistStep, robot.ProfileJog) && position != r.waistUL {
			// The step overshot the limit; park exactly on it instead.
			r.arm.SetSingleJointPosition("waist", r.waistUL, robot.ProfileJog)
		}
	case joy.WaistCW:
		if !r.arm.SetSingleJointPosition("waist", position-WaistStep, robot.ProfileJog) && position != r.waistLL {
			r.arm.SetSingleJointPosition("waist", r.waistLL, robot.ProfileJog)
		}
	default:
		return
	}
	r.frames.Recompute(r.arm.EndEffectorPose())
}

func (c *Controller) stepEndEffector(cmd joy.Command) {
	r := c.arm
	if !cmd.WantsEEMove(r.info.NumJoints()) {
		return
	}

	tyb := r.frames.Working()

	positionChanged := cmd.EEX != joy.CmdNone || cmd.EEZ != joy.CmdNone ||
		(r.info.NumJoints() >= 6 && cmd.EEY != joy.CmdNone)
	if positionChanged {
		switch cmd.EEX {
		case joy.EEXInc:
			tyb.P.X += TranslateStep
		case joy.EEXDec:
			tyb.P.X -= TranslateStep
		}

		// Lateral jogs need a sixth joint and enough forward reach;
		// the guard reads the working offset so an inward x jog in the
		// same frame can veto them.
		if r.info.NumJoints() >= 6 && tyb.P.X > LateralGuard {
			switch cmd.EEY {
			case joy.EEYInc:
				tyb.P.Y += TranslateStep
			case joy.EEYDec:
				tyb.P.Y -= TranslateStep
			}
		}

		switch cmd.EEZ {
		case joy.EEZInc:
			tyb.P.Z += TranslateStep
		case joy.EEZDec:
			tyb.P.Z -= TranslateStep
		}
	}

	if cmd.EERoll != joy.CmdNone || cmd.EEPitch != joy.CmdNone {
		roll, pitch, yaw := tyb.R.EulerZYX()
		switch cmd.EERoll {
		case joy.EERollCCW:
			roll += RotateStep
		case joy.EERollCW:
			roll -= RotateStep
		}
		switch cmd.EEPitch {
		case joy.EEPitchDown:
			pitch += RotateStep
		case joy.EEPitchUp:
			pitch -= RotateStep
		}
		tyb.R = spatial.FromEulerZYX(roll, pitch, yaw)
	}

	target := r.frames.Target(tyb)
	if _, ok := r.arm.SetEndEffectorPose(target, r.arm.JointCommands(), robot.ProfileJog); ok {
		r.frames.Commit(tyb)
	}
}

// actuatorError counts and rate-limits actuator failures; the loop keeps
// ticking regardless.
func (c *Controller) actuatorError(op string, err error) {
	if err == nil {
		return
	}
	c.errorCount++
	if c.lastErrorTime.IsZero() || time.Since(c.lastErrorTime) > errorLogInterval {
		log.Warn("Actuator command failed", "op", op, "err", err, "total", c.errorCount)
		c.lastErrorTime = time.Now()
	}
}

func (c *Controller) publishStatus() {
	s := Status{
		Model:   c.model.Name,
		RateHz:  c.rate.Hz(),
		Profile: c.rate.Profile().String(),
		Ticks:   c.tickCount,
		Errors:  c.errorCount,
		HasArm:  c.arm != nil,
		HasBase: c.base != nil,
	}
	if c.arm != nil {
		s.Pressure = c.arm.pressure.Pressure()
		s.Joints = c.arm.arm.JointCommands()
	}
	c.statusMu.Lock()
	c.status = s
	c.statusMu.Unlock()
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
