package robot

import "github.com/stephenadhi/go-locobot/pkg/spatial"

// Solver computes kinematics for an arm. Implementations wrap an external
// IK service or an onboard kinematic model; either way Solve must be fast
// enough to call from a 40 Hz loop.
type Solver interface {
	// Solve returns joint positions that reach target, seeding the
	// numerical search with guess. ok is false when no solution within
	// joint limits is found; the guess is not modified.
	Solve(target spatial.Transform, guess []float64) ([]float64, bool)

	// Forward returns the end-effector pose for the given joint
	// positions.
	Forward(joints []float64) spatial.Transform
}
