// Package joy defines the processed joystick command schema and the
// single-slot buffer that hands commands to the control loop.
package joy

// Cmd is a discrete command code carried by one field of a Command.
// Zero always means "no request" for that field.
type Cmd int8

// CmdNone is the neutral value for every discrete field.
const CmdNone Cmd = 0

// Control loop speed commands.
const (
	SpeedInc Cmd = 1
	SpeedDec Cmd = 2
)

// Control mode toggle commands.
const (
	SpeedCoarse Cmd = 1
	SpeedFine   Cmd = 2
)

// Mobile base odometry commands.
const ResetOdom Cmd = 1

// Gripper open/close commands.
const (
	GripperRelease Cmd = 1
	GripperGrasp   Cmd = 2
)

// Gripper pressure commands.
const (
	GripperPWMInc Cmd = 1
	GripperPWMDec Cmd = 2
)

// Camera pan commands. PanTiltHome is shared by the pan and tilt fields;
// the camera homes only when both fields carry it.
const (
	PanCCW      Cmd = 1
	PanCW       Cmd = 2
	PanTiltHome Cmd = 3
)

// Camera tilt commands.
const (
	TiltUp   Cmd = 1
	TiltDown Cmd = 2
)

// Arm preset pose commands.
const (
	HomePose  Cmd = 1
	SleepPose Cmd = 2
)

// Waist joint jog commands.
const (
	WaistCCW Cmd = 1
	WaistCW  Cmd = 2
)

// End-effector translation commands, expressed in the yaw-aligned frame.
const (
	EEXInc Cmd = 1
	EEXDec Cmd = 2
	EEYInc Cmd = 1
	EEYDec Cmd = 2
	EEZInc Cmd = 1
	EEZDec Cmd = 2
)

// End-effector orientation commands.
const (
	EERollCCW   Cmd = 1
	EERollCW    Cmd = 2
	EEPitchDown Cmd = 1
	EEPitchUp   Cmd = 2
)

// Command is one processed joystick frame. Discrete fields carry command
// codes (zero = no request); BaseX and BaseTheta carry base velocities in
// m/s and rad/s. Producers publish a full frame whenever any input is
// active and a neutral frame when the operator lets go.
type Command struct {
	Speed       Cmd `json:"speed_cmd,omitempty"`
	SpeedToggle Cmd `json:"speed_toggle_cmd,omitempty"`

	ResetOdom Cmd     `json:"base_reset_odom_cmd,omitempty"`
	BaseX     float64 `json:"base_x_cmd"`
	BaseTheta float64 `json:"base_theta_cmd"`

	Gripper    Cmd `json:"gripper_cmd,omitempty"`
	GripperPWM Cmd `json:"gripper_pwm_cmd,omitempty"`

	Pan  Cmd `json:"pan_cmd,omitempty"`
	Tilt Cmd `json:"tilt_cmd,omitempty"`

	Pose  Cmd `json:"pose_cmd,omitempty"`
	Waist Cmd `json:"waist_cmd,omitempty"`

	EEX     Cmd `json:"ee_x_cmd,omitempty"`
	EEY     Cmd `json:"ee_y_cmd,omitempty"`
	EEZ     Cmd `json:"ee_z_cmd,omitempty"`
	EERoll  Cmd `json:"ee_roll_cmd,omitempty"`
	EEPitch Cmd `json:"ee_pitch_cmd,omitempty"`
}

// IsZero reports whether the frame requests nothing: every discrete field
// is neutral and both base velocities are zero.
func (c Command) IsZero() bool {
	return c == Command{}
}

// WantsEEMove reports whether any end-effector jog field is active. The
// lateral axis only counts on arms with six or more joints.
func (c Command) WantsEEMove(numJoints int) bool {
	if c.EEX != CmdNone || c.EEZ != CmdNone {
		return true
	}
	if numJoints >= 6 && c.EEY != CmdNone {
		return true
	}
	return c.EERoll != CmdNone || c.EEPitch != CmdNone
}
