package robot

import (
	"math"
	"sort"
)

// DegreesToRadians converts degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// JointConfig defines a single joint's limits.
type JointConfig struct {
	Name       string
	MinRadians float64
	MaxRadians float64
}

// ArmInfo describes one X-Series arm: its joints in chain order and the
// sleep pose it folds into. The home pose is all zeros.
type ArmInfo struct {
	Model          string
	Joints         []JointConfig
	SleepPositions []float64
}

// NumJoints returns the number of arm joints (excluding the gripper).
func (a ArmInfo) NumJoints() int {
	return len(a.Joints)
}

// JointIndex returns the chain index of the named joint, or -1.
func (a ArmInfo) JointIndex(name string) int {
	for i, j := range a.Joints {
		if j.Name == name {
			return i
		}
	}
	return -1
}

// HomePositions returns the home pose: zero for every joint.
func (a ArmInfo) HomePositions() []float64 {
	return make([]float64, len(a.Joints))
}

// WithinLimits reports whether position is inside joint i's limits.
func (a ArmInfo) WithinLimits(i int, position float64) bool {
	if i < 0 || i >= len(a.Joints) {
		return false
	}
	return position >= a.Joints[i].MinRadians && position <= a.Joints[i].MaxRadians
}

// BaseInfo describes the mobile base's velocity envelope.
type BaseInfo struct {
	MaxLinear  float64 // m/s
	MaxAngular float64 // rad/s
}

// CameraInfo describes the pan-and-tilt mount's travel.
type CameraInfo struct {
	PanMin  float64
	PanMax  float64
	TiltMin float64
	TiltMax float64
}

// Model describes one locobot configuration. Arm is nil on the
// camera-only locobot_base.
type Model struct {
	Name   string
	Arm    *ArmInfo
	Base   BaseInfo
	Camera CameraInfo
}

// HasArm reports whether this model carries a manipulator.
func (m Model) HasArm() bool {
	return m.Arm != nil
}

// kobukiBase is the velocity envelope of the Kobuki base every X-Series
// locobot rolls on.
var kobukiBase = BaseInfo{
	MaxLinear:  0.7,
	MaxAngular: math.Pi,
}

// locobotCamera is the pan-and-tilt turret shared by all models.
var locobotCamera = CameraInfo{
	PanMin:  DegreesToRadians(-90),
	PanMax:  DegreesToRadians(90),
	TiltMin: DegreesToRadians(-90),
	TiltMax: DegreesToRadians(90),
}

// px100Arm is the 4-DOF PincherX-100 in its mobile mounting.
var px100Arm = ArmInfo{
	Model: "mobile_px100",
	Joints: []JointConfig{
		{Name: "waist", MinRadians: DegreesToRadians(-180), MaxRadians: DegreesToRadians(180)},
		{Name: "shoulder", MinRadians: DegreesToRadians(-111), MaxRadians: DegreesToRadians(107)},
		{Name: "elbow", MinRadians: DegreesToRadians(-121), MaxRadians: DegreesToRadians(92)},
		{Name: "wrist_angle", MinRadians: DegreesToRadians(-100), MaxRadians: DegreesToRadians(123)},
	},
	SleepPositions: []float64{0, -1.88, 1.5, 0.8},
}

// wx200Arm is the 5-DOF WidowX-200 in its mobile mounting.
var wx200Arm = ArmInfo{
	Model: "mobile_wx200",
	Joints: []JointConfig{
		{Name: "waist", MinRadians: DegreesToRadians(-180), MaxRadians: DegreesToRadians(180)},
		{Name: "shoulder", MinRadians: DegreesToRadians(-108), MaxRadians: DegreesToRadians(114)},
		{Name: "elbow", MinRadians: DegreesToRadians(-123), MaxRadians: DegreesToRadians(92)},
		{Name: "wrist_angle", MinRadians: DegreesToRadians(-100), MaxRadians: DegreesToRadians(123)},
		{Name: "wrist_rotate", MinRadians: DegreesToRadians(-180), MaxRadians: DegreesToRadians(180)},
	},
	SleepPositions: []float64{0, -1.88, 1.5, 0.8, 0},
}

// wx250sArm is the 6-DOF WidowX-250s in its mobile mounting. The sixth
// joint is what makes lateral end-effector jogs possible.
var wx250sArm = ArmInfo{
	Model: "mobile_wx250s",
	Joints: []JointConfig{
		{Name: "waist", MinRadians: DegreesToRadians(-180), MaxRadians: DegreesToRadians(180)},
		{Name: "shoulder", MinRadians: DegreesToRadians(-108), MaxRadians: DegreesToRadians(114)},
		{Name: "elbow", MinRadians: DegreesToRadians(-123), MaxRadians: DegreesToRadians(92)},
		{Name: "forearm_roll", MinRadians: DegreesToRadians(-180), MaxRadians: DegreesToRadians(180)},
		{Name: "wrist_angle", MinRadians: DegreesToRadians(-100), MaxRadians: DegreesToRadians(123)},
		{Name: "wrist_rotate", MinRadians: DegreesToRadians(-180), MaxRadians: DegreesToRadians(180)},
	},
	SleepPositions: []float64{0, -1.88, 1.5, 0, 0.8, 0},
}

var models = map[string]Model{
	"locobot_base":   {Name: "locobot_base", Base: kobukiBase, Camera: locobotCamera},
	"locobot_px100":  {Name: "locobot_px100", Arm: &px100Arm, Base: kobukiBase, Camera: locobotCamera},
	"locobot_wx200":  {Name: "locobot_wx200", Arm: &wx200Arm, Base: kobukiBase, Camera: locobotCamera},
	"locobot_wx250s": {Name: "locobot_wx250s", Arm: &wx250sArm, Base: kobukiBase, Camera: locobotCamera},
}

// LookupModel returns the named locobot model.
func LookupModel(name string) (Model, bool) {
	m, ok := models[name]
	return m, ok
}

// ModelNames returns the registered model names sorted alphabetically.
func ModelNames() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
