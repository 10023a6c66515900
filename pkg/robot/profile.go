package robot

import "time"

// MotionProfile shapes a time-based motion: Moving is the total travel
// time and Accel the time spent ramping at each end.
type MotionProfile struct {
	Moving time.Duration
	Accel  time.Duration
}

// Motion profiles used by the teleop loop. Preset moves cross the whole
// workspace so they get the slow profile; jogs are small steps issued
// every tick and must finish before the next one lands.
var (
	ProfilePreset     = MotionProfile{Moving: 1500 * time.Millisecond, Accel: 750 * time.Millisecond}
	ProfileJog        = MotionProfile{Moving: 200 * time.Millisecond, Accel: 100 * time.Millisecond}
	ProfileCameraHome = MotionProfile{Moving: time.Second, Accel: 500 * time.Millisecond}
)
