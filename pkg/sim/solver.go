package sim

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/stephenadhi/go-locobot/pkg/robot"
	"github.com/stephenadhi/go-locobot/pkg/spatial"
)

// geometry reduces one X-Series arm to a planar three-link chain riding
// on the waist: shoulder link L1, elbow link L2 and wrist-to-gripper
// link L3, with the shoulder axis H meters above the arm base frame.
type geometry struct {
	H  float64
	L1 float64
	L2 float64
	L3 float64
}

var geometries = map[string]geometry{
	"mobile_px100":  {H: 0.09, L1: 0.10, L2: 0.10, L3: 0.09},
	"mobile_wx200":  {H: 0.11, L1: 0.20, L2: 0.20, L3: 0.16},
	"mobile_wx250s": {H: 0.11, L1: 0.25, L2: 0.25, L3: 0.16},
}

// wristYawSlack is how far the spherical wrist of a six-joint arm can
// point the gripper away from the waist heading. Smaller arms have no
// sixth joint and therefore no slack.
const wristYawSlack = math.Pi / 4

// headingTol absorbs the Euler round-trip noise that accumulates when a
// target has been rebuilt from decomposed angles many times.
const headingTol = 1e-6

// Solver is an analytic kinematic model of a simulated arm. The waist
// carries the heading, the shoulder-elbow pair places the wrist center
// in the vertical plane and the wrist link sets the pitch, so both
// directions solve in closed form.
type Solver struct {
	info robot.ArmInfo
	geom geometry
}

// NewSolver builds the kinematic model for the given arm.
func NewSolver(info robot.ArmInfo) (*Solver, error) {
	geom, ok := geometries[info.Model]
	if !ok {
		return nil, fmt.Errorf("no simulated geometry for arm %q", info.Model)
	}
	for _, name := range []string{"waist", "shoulder", "elbow", "wrist_angle"} {
		if info.JointIndex(name) < 0 {
			return nil, fmt.Errorf("arm %q lacks the %s joint", info.Model, name)
		}
	}
	return &Solver{info: info, geom: geom}, nil
}

// Forward returns the end-effector pose for the given joint positions.
// Positive shoulder, elbow and wrist angles pitch the chain downward.
func (s *Solver) Forward(joints []float64) spatial.Transform {
	j := func(name string) float64 {
		if i := s.info.JointIndex(name); i >= 0 && i < len(joints) {
			return joints[i]
		}
		return 0
	}

	a1 := j("shoulder")
	a2 := a1 + j("elbow")
	a3 := a2 + j("wrist_angle")

	u := s.geom.L1*math.Cos(a1) + s.geom.L2*math.Cos(a2) + s.geom.L3*math.Cos(a3)
	w := s.geom.H - s.geom.L1*math.Sin(a1) - s.geom.L2*math.Sin(a2) - s.geom.L3*math.Sin(a3)

	waist := j("waist")
	roll := j("forearm_roll") + j("wrist_rotate")
	return spatial.Transform{
		R: spatial.FromEulerZYX(roll, a3, waist),
		P: r3.Vector{X: u * math.Cos(waist), Y: u * math.Sin(waist), Z: w},
	}
}

// Solve returns joint positions reaching target, or ok = false when the
// pose is outside the arm's workspace or joint limits. The elbow branch
// closest to guess wins when both reach.
func (s *Solver) Solve(target spatial.Transform, guess []float64) ([]float64, bool) {
	roll, pitch, yaw := target.R.EulerZYX()

	reach := math.Hypot(target.P.X, target.P.Y)
	heading := yaw
	if reach > 1e-9 {
		heading = math.Atan2(target.P.Y, target.P.X)
	}

	// The waist must carry the heading; the commanded yaw may differ
	// only by what the wrist can absorb.
	slack := headingTol
	if s.info.NumJoints() >= 6 {
		slack = wristYawSlack
	}
	if math.Abs(normalizeAngle(yaw-heading)) > slack {
		return nil, false
	}

	// Peel the wrist link off to find the wrist center relative to the
	// shoulder axis, then solve the two-link subproblem.
	uw := reach - s.geom.L3*math.Cos(pitch)
	ww := (target.P.Z - s.geom.H) + s.geom.L3*math.Sin(pitch)

	d := (uw*uw + ww*ww - s.geom.L1*s.geom.L1 - s.geom.L2*s.geom.L2) /
		(2 * s.geom.L1 * s.geom.L2)
	if d > 1 {
		if d > 1+1e-9 {
			return nil, false
		}
		d = 1
	}
	if d < -1 {
		if d < -1-1e-9 {
			return nil, false
		}
		d = -1
	}

	elbowMag := math.Acos(d)
	var (
		best      []float64
		bestScore float64
	)
	for _, elbow := range []float64{elbowMag, -elbowMag} {
		sol, ok := s.assemble(heading, uw, ww, elbow, pitch, roll)
		if !ok {
			continue
		}
		score := guessDistance(sol, guess)
		if best == nil || score < bestScore {
			best = sol
			bestScore = score
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// assemble completes one elbow branch into a full joint vector and
// checks it against the arm's limits.
func (s *Solver) assemble(waist, uw, ww, elbow, pitch, roll float64) ([]float64, bool) {
	gamma := math.Atan2(-ww, uw)
	beta := math.Atan2(s.geom.L2*math.Sin(elbow), s.geom.L1+s.geom.L2*math.Cos(elbow))
	a1 := gamma - beta
	a2 := a1 + elbow

	out := make([]float64, s.info.NumJoints())
	set := func(name string, v float64) bool {
		i := s.info.JointIndex(name)
		if i < 0 {
			return false
		}
		out[i] = normalizeAngle(v)
		return s.info.WithinLimits(i, out[i])
	}

	if !set("waist", waist) ||
		!set("shoulder", a1) ||
		!set("elbow", elbow) ||
		!set("wrist_angle", pitch-a2) {
		return nil, false
	}

	// Roll lives on whichever roll joints the arm has. A four-joint arm
	// has none and can only hold a level gripper.
	switch {
	case s.info.JointIndex("forearm_roll") >= 0:
		if !set("forearm_roll", roll) {
			return nil, false
		}
	case s.info.JointIndex("wrist_rotate") >= 0:
		if !set("wrist_rotate", roll) {
			return nil, false
		}
	default:
		if math.Abs(roll) > headingTol {
			return nil, false
		}
	}
	return out, true
}

// guessDistance scores a candidate solution by how far its joints sit
// from the seed, wrapping each difference so -pi and pi count as
// neighbors.
func guessDistance(sol, guess []float64) float64 {
	var score float64
	for i := range sol {
		g := 0.0
		if i < len(guess) {
			g = guess[i]
		}
		score += math.Abs(normalizeAngle(sol[i] - g))
	}
	return score
}

// normalizeAngle wraps a into (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
