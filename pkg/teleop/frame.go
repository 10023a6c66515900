package teleop

import "github.com/stephenadhi/go-locobot/pkg/spatial"

// FrameTracker maintains the virtual yaw-aligned frame the end effector
// is jogged in. T_sy shares the end effector's yaw but stays level and
// at the arm base origin, so "forward" jogs track wherever the waist is
// pointing while "up" stays vertical. T_yb locates the end effector
// inside that frame; composing the two recovers the base-frame pose.
type FrameTracker struct {
	tsy spatial.Transform
	tyb spatial.Transform
}

// NewFrameTracker starts with identity frames. Call Recompute with the
// arm's commanded pose before the first jog.
func NewFrameTracker() *FrameTracker {
	return &FrameTracker{
		tsy: spatial.Identity(),
		tyb: spatial.Identity(),
	}
}

// Recompute re-derives both frames from the arm's commanded end-effector
// pose. Required after any motion that was not a Cartesian jog (presets,
// waist jogs), which move the end effector without going through Commit.
func (f *FrameTracker) Recompute(tsb spatial.Transform) {
	yaw := tsb.R.Yaw()
	f.tsy = spatial.Transform{R: spatial.RotZ(yaw)}
	f.tyb = f.tsy.Inv().Mul(tsb)
}

// Working returns a copy of T_yb to edit. The tracker itself is only
// updated by Commit, so a rejected jog leaves no trace.
func (f *FrameTracker) Working() spatial.Transform {
	return f.tyb
}

// Target composes the base-frame goal pose for an edited T_yb.
func (f *FrameTracker) Target(tyb spatial.Transform) spatial.Transform {
	return f.tsy.Mul(tyb)
}

// Commit stores the edited T_yb after the arm accepted its target.
func (f *FrameTracker) Commit(tyb spatial.Transform) {
	f.tyb = tyb
}
