package xsarm

import (
	"fmt"
	"math"
	"testing"

	"github.com/stephenadhi/go-locobot/pkg/dxl"
	"github.com/stephenadhi/go-locobot/pkg/robot"
	"github.com/stephenadhi/go-locobot/pkg/spatial"
)

// fakeBus records register traffic and answers reads from a canned
// register map keyed by servo ID and address.
type fakeBus struct {
	regs      map[string]uint32
	writes    []string
	failWrite bool
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: make(map[string]uint32)}
}

func key(id uint8, addr uint16) string {
	return fmt.Sprintf("%d/%d", id, addr)
}

func (f *fakeBus) Ping(id uint8) error { return nil }

func (f *fakeBus) record(id uint8, addr uint16, v uint32) error {
	if f.failWrite {
		return fmt.Errorf("bus down")
	}
	f.regs[key(id, addr)] = v
	f.writes = append(f.writes, fmt.Sprintf("%s=%d", key(id, addr), v))
	return nil
}

func (f *fakeBus) WriteU8(id uint8, addr uint16, v uint8) error {
	return f.record(id, addr, uint32(v))
}

func (f *fakeBus) WriteU16(id uint8, addr uint16, v uint16) error {
	return f.record(id, addr, uint32(v))
}

func (f *fakeBus) WriteU32(id uint8, addr uint16, v uint32) error {
	return f.record(id, addr, v)
}

func (f *fakeBus) ReadU32(id uint8, addr uint16) (uint32, error) {
	if v, ok := f.regs[key(id, addr)]; ok {
		return v, nil
	}
	return dxl.CenterTick, nil
}

func (f *fakeBus) SyncReadU32(addr uint16, ids []uint8) ([]uint32, error) {
	out := make([]uint32, len(ids))
	for i, id := range ids {
		v, err := f.ReadU32(id, addr)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeBus) SyncWriteU32(addr uint16, ids []uint8, values []uint32) error {
	for i, id := range ids {
		if err := f.record(id, addr, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// fakeSolver reaches any target and reports the pose it last reached.
type fakeSolver struct {
	solution []float64
	reject   bool
}

func (s *fakeSolver) Solve(target spatial.Transform, guess []float64) ([]float64, bool) {
	if s.reject {
		return nil, false
	}
	out := make([]float64, len(s.solution))
	copy(out, s.solution)
	return out, true
}

func (s *fakeSolver) Forward(joints []float64) spatial.Transform {
	t := spatial.Identity()
	if len(joints) > 0 {
		t.R = spatial.RotZ(joints[0])
	}
	return t
}

func testInfo() robot.ArmInfo {
	return robot.ArmInfo{
		Model: "mobile_test",
		Joints: []robot.JointConfig{
			{Name: "waist", MinRadians: -math.Pi, MaxRadians: math.Pi},
			{Name: "shoulder", MinRadians: -1.5, MaxRadians: 1.5},
		},
		SleepPositions: []float64{0, -1.0},
	}
}

func TestNewArmSeedsFromPresentPositions(t *testing.T) {
	bus := newFakeBus()
	bus.regs[key(2, dxl.AddrPresentPosition)] = dxl.RadiansToTicks(0.5)

	arm, err := NewArm(bus, testInfo(), &fakeSolver{solution: []float64{0, 0}})
	if err != nil {
		t.Fatalf("NewArm: %v", err)
	}
	joints := arm.JointCommands()
	if math.Abs(joints[0]) > 1e-3 || math.Abs(joints[1]-0.5) > 1e-3 {
		t.Errorf("seeded joints = %v, want [0, 0.5]", joints)
	}
	// Every servo must end up torque-enabled in position mode.
	for id := uint8(1); id <= 2; id++ {
		if bus.regs[key(id, dxl.AddrTorqueEnable)] != 1 {
			t.Errorf("servo %d torque not enabled", id)
		}
		if bus.regs[key(id, dxl.AddrOperatingMode)] != uint32(dxl.ModePosition) {
			t.Errorf("servo %d not in position mode", id)
		}
	}
}

func TestSetSingleJointPosition(t *testing.T) {
	bus := newFakeBus()
	arm, err := NewArm(bus, testInfo(), &fakeSolver{solution: []float64{0, 0}})
	if err != nil {
		t.Fatalf("NewArm: %v", err)
	}

	if !arm.SetSingleJointPosition("shoulder", 1.0, robot.ProfileJog) {
		t.Fatal("in-limit move rejected")
	}
	if got := bus.regs[key(2, dxl.AddrGoalPosition)]; got != dxl.RadiansToTicks(1.0) {
		t.Errorf("goal position = %d, want %d", got, dxl.RadiansToTicks(1.0))
	}
	if p, _ := arm.SingleJointCommand("shoulder"); math.Abs(p-1.0) > 1e-9 {
		t.Errorf("tracked command = %f, want 1.0", p)
	}

	if arm.SetSingleJointPosition("shoulder", 2.0, robot.ProfileJog) {
		t.Error("out-of-limit move accepted")
	}
	if p, _ := arm.SingleJointCommand("shoulder"); math.Abs(p-1.0) > 1e-9 {
		t.Errorf("rejected move changed tracked command to %f", p)
	}
}

func TestSetSingleJointPositionBusFailure(t *testing.T) {
	bus := newFakeBus()
	arm, err := NewArm(bus, testInfo(), &fakeSolver{solution: []float64{0, 0}})
	if err != nil {
		t.Fatalf("NewArm: %v", err)
	}

	bus.failWrite = true
	if arm.SetSingleJointPosition("waist", 0.5, robot.ProfileJog) {
		t.Error("move reported success with the bus down")
	}
	if p, _ := arm.SingleJointCommand("waist"); p != 0 {
		t.Errorf("failed move changed tracked command to %f", p)
	}
}

func TestSetEndEffectorPose(t *testing.T) {
	bus := newFakeBus()
	solver := &fakeSolver{solution: []float64{0.3, -0.2}}
	arm, err := NewArm(bus, testInfo(), solver)
	if err != nil {
		t.Fatalf("NewArm: %v", err)
	}

	target := spatial.Transform{R: spatial.RotZ(0.3)}
	sol, ok := arm.SetEndEffectorPose(target, arm.JointCommands(), robot.ProfileJog)
	if !ok {
		t.Fatal("reachable pose rejected")
	}
	if math.Abs(sol[0]-0.3) > 1e-9 || math.Abs(sol[1]+0.2) > 1e-9 {
		t.Errorf("solution = %v, want [0.3, -0.2]", sol)
	}
	if !arm.EndEffectorPose().ApproxEqual(target, 1e-9) {
		t.Error("commanded pose does not track the accepted target")
	}
	if got := bus.regs[key(1, dxl.AddrGoalPosition)]; got != dxl.RadiansToTicks(0.3) {
		t.Errorf("waist goal = %d, want %d", got, dxl.RadiansToTicks(0.3))
	}

	solver.reject = true
	before := arm.EndEffectorPose()
	if _, ok := arm.SetEndEffectorPose(spatial.Identity(), arm.JointCommands(), robot.ProfileJog); ok {
		t.Error("unreachable pose accepted")
	}
	if !arm.EndEffectorPose().ApproxEqual(before, 1e-9) {
		t.Error("rejected pose changed the commanded pose")
	}
}

func TestGripperPWMMapping(t *testing.T) {
	bus := newFakeBus()
	g, err := NewGripper(bus, 2)
	if err != nil {
		t.Fatalf("NewGripper: %v", err)
	}

	if err := g.SetPressure(1.0); err != nil {
		t.Fatalf("SetPressure: %v", err)
	}
	if err := g.Grasp(); err != nil {
		t.Fatalf("Grasp: %v", err)
	}
	// Grasp drives negative PWM at the full band.
	got := int16(bus.regs[key(3, dxl.AddrGoalPWM)])
	if got != -gripperPWMMax {
		t.Errorf("grasp PWM = %d, want %d", got, -gripperPWMMax)
	}

	if err := g.SetPressure(0); err != nil {
		t.Fatalf("SetPressure: %v", err)
	}
	if err := g.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	got = int16(bus.regs[key(3, dxl.AddrGoalPWM)])
	if got != gripperPWMMin {
		t.Errorf("release PWM = %d, want %d", got, gripperPWMMin)
	}

	if err := g.SetPressure(1.5); err == nil {
		t.Error("out-of-range pressure accepted")
	}
}

func TestCameraClampsToTravel(t *testing.T) {
	bus := newFakeBus()
	info := robot.CameraInfo{PanMin: -1, PanMax: 1, TiltMin: -1, TiltMax: 1}
	cam, err := NewCamera(bus, info, DefaultPanID, DefaultTiltID)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	if err := cam.Move(2.0, -2.0, robot.ProfileJog); err != nil {
		t.Fatalf("Move: %v", err)
	}
	pan, tilt := cam.PanTiltCommands()
	if pan != 1 || tilt != -1 {
		t.Errorf("commands = (%f, %f), want (1, -1)", pan, tilt)
	}
	if got := bus.regs[key(DefaultPanID, dxl.AddrGoalPosition)]; got != dxl.RadiansToTicks(1) {
		t.Errorf("pan goal = %d, want %d", got, dxl.RadiansToTicks(1))
	}

	if err := cam.Home(robot.ProfileCameraHome); err != nil {
		t.Fatalf("Home: %v", err)
	}
	pan, tilt = cam.PanTiltCommands()
	if pan != 0 || tilt != 0 {
		t.Errorf("home left commands at (%f, %f)", pan, tilt)
	}
}
