package sim

import (
	"math"
	"testing"

	"github.com/stephenadhi/go-locobot/pkg/robot"
)

var _ robot.Camera = (*Camera)(nil)

func TestCamera_MoveAndClamp(t *testing.T) {
	m, _ := robot.LookupModel("locobot_base")
	c := NewCamera(m.Camera)

	if pan, tilt := c.PanTiltCommands(); pan != 0 || tilt != 0 {
		t.Errorf("initial pan/tilt = %v/%v, want centered", pan, tilt)
	}

	if err := c.Move(0.3, -0.2, robot.ProfileJog); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if pan, tilt := c.PanTiltCommands(); pan != 0.3 || tilt != -0.2 {
		t.Errorf("pan/tilt = %v/%v, want 0.3/-0.2", pan, tilt)
	}

	// Past the travel limits: clamped, not rejected
	c.Move(2.0, -3.0, robot.ProfileJog)
	pan, tilt := c.PanTiltCommands()
	if pan != m.Camera.PanMax {
		t.Errorf("pan = %v, want clamped to %v", pan, m.Camera.PanMax)
	}
	if tilt != m.Camera.TiltMin {
		t.Errorf("tilt = %v, want clamped to %v", tilt, m.Camera.TiltMin)
	}
}

func TestCamera_Home(t *testing.T) {
	m, _ := robot.LookupModel("locobot_base")
	c := NewCamera(m.Camera)

	c.Move(math.Pi/4, math.Pi/8, robot.ProfileJog)
	if err := c.Home(robot.ProfileCameraHome); err != nil {
		t.Fatalf("Home: %v", err)
	}
	if pan, tilt := c.PanTiltCommands(); pan != 0 || tilt != 0 {
		t.Errorf("pan/tilt after home = %v/%v, want centered", pan, tilt)
	}
}
